package ai

import (
	"testing"

	"bombquest/pkg/core"
)

func TestFindPathStraightLine(t *testing.T) {
	game := newTestGame(t)

	path := FindPath(game, core.GridPos{GridX: 1, GridY: 1}, core.GridPos{GridX: 1, GridY: 4}, false)
	want := []core.GridPos{{GridX: 1, GridY: 2}, {GridX: 1, GridY: 3}, {GridX: 1, GridY: 4}}
	if len(path) != len(want) {
		t.Fatalf("路径长度 %d，期望 %d: %v", len(path), len(want), path)
	}
	for i, pos := range want {
		if path[i] != pos {
			t.Errorf("路径第 %d 步 %v，期望 %v", i, path[i], pos)
		}
	}
}

func TestFindPathAvoidsBombs(t *testing.T) {
	game := newTestGame(t)
	plantBomb(game, 100, 1, 2, 0)

	path := FindPath(game, core.GridPos{GridX: 1, GridY: 1}, core.GridPos{GridX: 1, GridY: 3}, false)
	if len(path) == 0 {
		t.Fatal("绕开炸弹的路径应存在")
	}
	for _, pos := range path {
		if pos == (core.GridPos{GridX: 1, GridY: 2}) {
			t.Fatal("路径不应穿过炸弹格")
		}
	}
	if path[len(path)-1] != (core.GridPos{GridX: 1, GridY: 3}) {
		t.Errorf("路径终点错误: %v", path)
	}
}

func TestFindPathUnreachable(t *testing.T) {
	game := newTestGame(t)

	// 目标是墙柱
	if path := FindPath(game, core.GridPos{GridX: 1, GridY: 1}, core.GridPos{GridX: 2, GridY: 2}, false); path != nil {
		t.Errorf("墙柱目标应返回空路径: %v", path)
	}

	// 起点被砖块封死
	game.Grid.SetTile(2, 1, core.TileBlock)
	game.Grid.SetTile(1, 2, core.TileBlock)
	if path := FindPath(game, core.GridPos{GridX: 1, GridY: 1}, core.GridPos{GridX: 5, GridY: 5}, false); path != nil {
		t.Errorf("被封死的起点应返回空路径: %v", path)
	}
}

func TestFindPathPassBlocks(t *testing.T) {
	game := newTestGame(t)
	game.Grid.SetTile(2, 1, core.TileBlock)
	game.Grid.SetTile(1, 2, core.TileBlock)

	// 穿墙实体无视砖块
	path := FindPath(game, core.GridPos{GridX: 1, GridY: 1}, core.GridPos{GridX: 1, GridY: 3}, true)
	want := []core.GridPos{{GridX: 1, GridY: 2}, {GridX: 1, GridY: 3}}
	if len(path) != len(want) {
		t.Fatalf("穿墙路径长度 %d，期望 %d: %v", len(path), len(want), path)
	}
}

func TestFindPathSameStartAndTarget(t *testing.T) {
	game := newTestGame(t)
	pos := core.GridPos{GridX: 1, GridY: 1}
	if path := FindPath(game, pos, pos, false); path != nil {
		t.Errorf("起点即终点应返回空路径: %v", path)
	}
}

func TestNextStepTowardIsAdjacent(t *testing.T) {
	game := newTestGame(t)
	start := core.GridPos{GridX: 1, GridY: 1}

	next, ok := NextStepToward(game, start, core.GridPos{GridX: 5, GridY: 5}, false)
	if !ok {
		t.Fatal("应找到下一步")
	}
	if core.ManhattanDistance(start, next) != 1 {
		t.Errorf("下一步 %v 不与起点相邻", next)
	}
}
