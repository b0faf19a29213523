package core

import "math/rand"

// Tile 一个地图格子
type Tile struct {
	Type          TileType
	HiddenPowerUp PowerUpType // 砖块下隐藏的道具，建图时一次性决定
}

// Grid 游戏地图（核心逻辑，不包含渲染）
type Grid struct {
	Tiles  [][]Tile
	Width  int
	Height int
}

// NewGrid 根据关卡数据构建地图
// 砖块是否藏道具在这里一次性决定，而不是在砖块被炸毁时
func NewGrid(ld *LevelData, rng *rand.Rand) (*Grid, error) {
	if err := ld.Validate(); err != nil {
		return nil, err
	}

	g := &Grid{
		Tiles:  make([][]Tile, MapHeight),
		Width:  MapWidth,
		Height: MapHeight,
	}
	for y := 0; y < MapHeight; y++ {
		g.Tiles[y] = make([]Tile, MapWidth)
		for x := 0; x < MapWidth; x++ {
			g.Tiles[y][x] = Tile{Type: ld.Tiles[y][x]}
		}
	}

	// 角落 3x3 区域保证可通行（出生安全区）
	g.clearSpawnZones()

	// 给砖块分配隐藏道具
	for y := 0; y < MapHeight; y++ {
		for x := 0; x < MapWidth; x++ {
			if g.Tiles[y][x].Type == TileBlock && rng.Float64() < PowerUpChance {
				g.Tiles[y][x].HiddenPowerUp = rollPowerUpType(rng)
			}
		}
	}

	return g, nil
}

// clearSpawnZones 清除四个角落 3x3 区域内的砖块
func (g *Grid) clearSpawnZones() {
	for _, corner := range SpawnCorners() {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				x := corner.GridX + dx
				y := corner.GridY + dy
				if x <= 0 || x >= MapWidth-1 || y <= 0 || y >= MapHeight-1 {
					continue
				}
				if g.Tiles[y][x].Type == TileBlock {
					g.Tiles[y][x] = Tile{Type: TileEmpty}
				}
			}
		}
	}
}

// TileAt 获取指定位置的地图块类型，越界视为墙壁
func (g *Grid) TileAt(x, y int) TileType {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return TileWall
	}
	return g.Tiles[y][x].Type
}

// SetTile 设置指定位置的地图块类型
func (g *Grid) SetTile(x, y int, tile TileType) {
	if x >= 0 && x < g.Width && y >= 0 && y < g.Height {
		g.Tiles[y][x].Type = tile
	}
}

// TakeHiddenPowerUp 取走砖块下隐藏的道具（取走后清空）
func (g *Grid) TakeHiddenPowerUp(x, y int) PowerUpType {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return PowerUpNone
	}
	p := g.Tiles[y][x].HiddenPowerUp
	g.Tiles[y][x].HiddenPowerUp = PowerUpNone
	return p
}

// IsBorder 是否是外圈边界
func (g *Grid) IsBorder(x, y int) bool {
	return x <= 0 || x >= g.Width-1 || y <= 0 || y >= g.Height-1
}

// IsWalkable 格子是否可通行
// passBlocks 为真时（穿墙类敌人）可以穿过砖块，但永远不能穿过墙壁
func (g *Grid) IsWalkable(x, y int, passBlocks bool) bool {
	t := g.TileAt(x, y)
	if t == TileWall {
		return false
	}
	if t == TileBlock && !passBlocks {
		return false
	}
	return true
}

// RandomWalkableCell 随机选择一个可通行且不靠近任何指定格子的空格
// minDistance 为与 avoid 中任意格子的最小曼哈顿距离
func (g *Grid) RandomWalkableCell(rng *rand.Rand, avoid []GridPos, minDistance int) (GridPos, bool) {
	candidates := make([]GridPos, 0, g.Width*g.Height/2)
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			if g.TileAt(x, y) != TileEmpty {
				continue
			}
			pos := GridPos{GridX: x, GridY: y}
			ok := true
			for _, a := range avoid {
				if ManhattanDistance(pos, a) < minDistance {
					ok = false
					break
				}
			}
			if ok {
				candidates = append(candidates, pos)
			}
		}
	}
	if len(candidates) == 0 {
		return GridPos{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// ToInts 导出为整数格子（用于联机同步）
func (g *Grid) ToInts() [][]int {
	out := make([][]int, g.Height)
	for y := 0; y < g.Height; y++ {
		out[y] = make([]int, g.Width)
		for x := 0; x < g.Width; x++ {
			out[y][x] = int(g.Tiles[y][x].Type)
		}
	}
	return out
}
