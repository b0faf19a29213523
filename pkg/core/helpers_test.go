package core

import (
	"math/rand"
	"testing"
)

// testTiles 构造满足全部约束的基础地图：边界墙 + 偶数交叉墙柱，其余空地
func testTiles() [][]TileType {
	tiles := make([][]TileType, MapHeight)
	for y := 0; y < MapHeight; y++ {
		tiles[y] = make([]TileType, MapWidth)
		for x := 0; x < MapWidth; x++ {
			switch {
			case x == 0 || x == MapWidth-1 || y == 0 || y == MapHeight-1:
				tiles[y][x] = TileWall
			case x%2 == 0 && y%2 == 0:
				tiles[y][x] = TileWall
			default:
				tiles[y][x] = TileEmpty
			}
		}
	}
	return tiles
}

func testLevel(id string) *LevelData {
	return &LevelData{ID: id, World: 1, Tiles: testTiles()}
}

// openGrid 无墙柱的空旷地图（只有边界墙），直接构造绕过关卡校验
// 用于验证爆炸传播这类需要大片空地的规则
func openGrid() *Grid {
	g := &Grid{
		Tiles:  make([][]Tile, MapHeight),
		Width:  MapWidth,
		Height: MapHeight,
	}
	for y := 0; y < MapHeight; y++ {
		g.Tiles[y] = make([]Tile, MapWidth)
		for x := 0; x < MapWidth; x++ {
			if x == 0 || x == MapWidth-1 || y == 0 || y == MapHeight-1 {
				g.Tiles[y][x] = Tile{Type: TileWall}
			}
		}
	}
	return g
}

// newTestGame 加载基础地图的单人游戏
func newTestGame(t *testing.T, ld *LevelData) *Game {
	t.Helper()
	g := NewGame(1, ModeCampaign)
	g.AddPlayer("测试")
	if err := g.LoadLevel(ld); err != nil {
		t.Fatalf("加载关卡失败: %v", err)
	}
	return g
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
