package core

// TileType 地图块类型
type TileType int

const (
	TileEmpty TileType = iota // 空地
	TileWall                  // 不可破坏的墙壁
	TileBlock                 // 可破坏的砖块
	TileSpawn                 // 出生点
	TileExit                  // 出口
)

// String 返回地图块类型的字符串表示
func (t TileType) String() string {
	switch t {
	case TileEmpty:
		return "空地"
	case TileWall:
		return "墙壁"
	case TileBlock:
		return "砖块"
	case TileSpawn:
		return "出生点"
	case TileExit:
		return "出口"
	}
	return "未知"
}

// Destructible 是否可被爆炸破坏
func (t TileType) Destructible() bool {
	return t == TileBlock
}

// Walkable 普通实体是否可以站立
func (t TileType) Walkable() bool {
	return t != TileWall && t != TileBlock
}

// GridPos 格子坐标（通用类型）
type GridPos struct {
	GridX, GridY int
}

// Direction 朝向
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Delta 返回方向对应的格子位移
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// Opposite 返回相反方向
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	}
	return DirNone
}

// CardinalDirections 四个基本方向
var CardinalDirections = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// GridToEntityXY 格子位置转换为实体左上角位置，居中放置
// 地图格子坐标x轴是横向，正方向向右，y轴纵向，正方向向下，0点在左上角
func GridToEntityXY(gridX, gridY int) (float64, float64) {
	x := gridX*TileSize + (TileSize-EntityWidth)/2
	y := gridY*TileSize + (TileSize-EntityHeight)/2
	return float64(x), float64(y)
}

// EntityXYToGrid 实体像素位置转换为格子坐标（按中心点）
func EntityXYToGrid(x, y float64) GridPos {
	return GridPos{
		GridX: (int(x) + EntityWidth/2) / TileSize,
		GridY: (int(y) + EntityHeight/2) / TileSize,
	}
}

// ManhattanDistance 两个格子的曼哈顿距离
func ManhattanDistance(a, b GridPos) int {
	dx := a.GridX - b.GridX
	if dx < 0 {
		dx = -dx
	}
	dy := a.GridY - b.GridY
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
