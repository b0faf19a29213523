package ai

import (
	"testing"

	"bombquest/pkg/core"
)

// baseTiles 边界墙 + 偶数交叉墙柱的基础地图
func baseTiles() [][]core.TileType {
	tiles := make([][]core.TileType, core.MapHeight)
	for y := 0; y < core.MapHeight; y++ {
		tiles[y] = make([]core.TileType, core.MapWidth)
		for x := 0; x < core.MapWidth; x++ {
			switch {
			case x == 0 || x == core.MapWidth-1 || y == 0 || y == core.MapHeight-1:
				tiles[y][x] = core.TileWall
			case x%2 == 0 && y%2 == 0:
				tiles[y][x] = core.TileWall
			default:
				tiles[y][x] = core.TileEmpty
			}
		}
	}
	return tiles
}

// newTestGame 单人对局，按需投放敌人
func newTestGame(t *testing.T, enemies ...core.EnemySpawn) *core.Game {
	t.Helper()
	game := core.NewGame(1, core.ModeCampaign)
	game.AddPlayer("测试")
	ld := &core.LevelData{ID: "ai-test", World: 1, Tiles: baseTiles(), Enemies: enemies}
	if err := game.LoadLevel(ld); err != nil {
		t.Fatalf("加载关卡失败: %v", err)
	}
	return game
}

// plantBomb 在指定格子放一颗指定引爆帧的炸弹
func plantBomb(game *core.Game, id, x, y int, explodeAt int32) *core.Bomb {
	b := core.NewBomb(id, x, y, 1, core.BombNormal, 2, game.CurrentFrame)
	b.ExplodeAtFrame = explodeAt
	game.Bombs = append(game.Bombs, b)
	return b
}
