package core

import "fmt"

// EnemySpawn 敌人出生描述
type EnemySpawn struct {
	Kind  EnemyKind
	GridX int
	GridY int
	Count int // 0 视为 1
}

// BossDescriptor 关卡 Boss 描述
type BossDescriptor struct {
	Name     string
	GridX    int
	GridY    int
	Health   int
	Phases   int
	Dialogue []string // 开场台词
}

// LevelData 关卡数据（由外部内容源提供）
type LevelData struct {
	ID      string
	World   int
	Tiles   [][]TileType
	Enemies []EnemySpawn
	Boss    *BossDescriptor
}

// TilesFromInts 将整数格子转换为地图块类型
// 0=空地 1=墙壁 2=砖块 3=出生点 4=出口
func TilesFromInts(grid [][]int) ([][]TileType, error) {
	tiles := make([][]TileType, len(grid))
	for y, row := range grid {
		tiles[y] = make([]TileType, len(row))
		for x, v := range row {
			if v < 0 || v > int(TileExit) {
				return nil, fmt.Errorf("非法地图块代码 %d (%d,%d)", v, x, y)
			}
			tiles[y][x] = TileType(v)
		}
	}
	return tiles, nil
}

// Validate 校验关卡数据
// 校验失败说明关卡数据损坏，引擎必须拒绝加载而不是构造半初始化状态
func (ld *LevelData) Validate() error {
	if ld == nil {
		return fmt.Errorf("关卡数据为空")
	}
	if ld.ID == "" {
		return fmt.Errorf("关卡缺少 ID")
	}
	if len(ld.Tiles) != MapHeight {
		return fmt.Errorf("关卡 %s: 地图高度 %d，期望 %d", ld.ID, len(ld.Tiles), MapHeight)
	}
	for y, row := range ld.Tiles {
		if len(row) != MapWidth {
			return fmt.Errorf("关卡 %s: 第 %d 行宽度 %d，期望 %d", ld.ID, y, len(row), MapWidth)
		}
	}

	// 边界必须是墙壁
	for x := 0; x < MapWidth; x++ {
		if ld.Tiles[0][x] != TileWall || ld.Tiles[MapHeight-1][x] != TileWall {
			return fmt.Errorf("关卡 %s: 边界 (%d) 不是墙壁", ld.ID, x)
		}
	}
	for y := 0; y < MapHeight; y++ {
		if ld.Tiles[y][0] != TileWall || ld.Tiles[y][MapWidth-1] != TileWall {
			return fmt.Errorf("关卡 %s: 边界 (%d) 不是墙壁", ld.ID, y)
		}
	}

	// 偶数行列交叉点必须是墙柱
	for y := 2; y < MapHeight-1; y += 2 {
		for x := 2; x < MapWidth-1; x += 2 {
			if ld.Tiles[y][x] != TileWall {
				return fmt.Errorf("关卡 %s: (%d,%d) 应为墙柱", ld.ID, x, y)
			}
		}
	}

	for _, spawn := range ld.Enemies {
		if spawn.GridX <= 0 || spawn.GridX >= MapWidth-1 || spawn.GridY <= 0 || spawn.GridY >= MapHeight-1 {
			return fmt.Errorf("关卡 %s: 敌人出生点 (%d,%d) 越界", ld.ID, spawn.GridX, spawn.GridY)
		}
		if !ld.Tiles[spawn.GridY][spawn.GridX].Walkable() {
			return fmt.Errorf("关卡 %s: 敌人出生点 (%d,%d) 不可通行", ld.ID, spawn.GridX, spawn.GridY)
		}
	}

	if ld.Boss != nil {
		b := ld.Boss
		if b.GridX <= 0 || b.GridX >= MapWidth-2 || b.GridY <= 0 || b.GridY >= MapHeight-2 {
			return fmt.Errorf("关卡 %s: Boss 位置 (%d,%d) 越界", ld.ID, b.GridX, b.GridY)
		}
		if b.Health <= 0 || b.Phases <= 0 {
			return fmt.Errorf("关卡 %s: Boss 血量/阶段配置错误", ld.ID)
		}
	}

	return nil
}

// SpawnCorners 四个角落的出生格子（顺序：左上、右上、左下、右下）
func SpawnCorners() [4]GridPos {
	return [4]GridPos{
		{GridX: 1, GridY: 1},
		{GridX: MapWidth - 2, GridY: 1},
		{GridX: 1, GridY: MapHeight - 2},
		{GridX: MapWidth - 2, GridY: MapHeight - 2},
	}
}
