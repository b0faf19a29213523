package core

import "testing"

func TestNewGridKeepsBordersAndPillars(t *testing.T) {
	g, err := NewGrid(testLevel("test-grid"), testRNG())
	if err != nil {
		t.Fatalf("构建地图失败: %v", err)
	}

	for x := 0; x < MapWidth; x++ {
		if g.TileAt(x, 0) != TileWall || g.TileAt(x, MapHeight-1) != TileWall {
			t.Errorf("边界 x=%d 不是墙壁", x)
		}
	}
	for y := 0; y < MapHeight; y++ {
		if g.TileAt(0, y) != TileWall || g.TileAt(MapWidth-1, y) != TileWall {
			t.Errorf("边界 y=%d 不是墙壁", y)
		}
	}
	for y := 2; y < MapHeight-1; y += 2 {
		for x := 2; x < MapWidth-1; x += 2 {
			if g.TileAt(x, y) != TileWall {
				t.Errorf("(%d,%d) 应为墙柱", x, y)
			}
		}
	}
}

func TestNewGridClearsSpawnZones(t *testing.T) {
	ld := testLevel("test-spawn")
	// 在每个角落出生点旁边塞满砖块
	for _, corner := range SpawnCorners() {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				x, y := corner.GridX+dx, corner.GridY+dy
				if ld.Tiles[y][x] == TileEmpty {
					ld.Tiles[y][x] = TileBlock
				}
			}
		}
	}

	g, err := NewGrid(ld, testRNG())
	if err != nil {
		t.Fatalf("构建地图失败: %v", err)
	}
	for _, corner := range SpawnCorners() {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				x, y := corner.GridX+dx, corner.GridY+dy
				if g.TileAt(x, y) == TileBlock {
					t.Errorf("出生安全区 (%d,%d) 残留砖块", x, y)
				}
			}
		}
	}
}

func TestNewGridRejectsBrokenLevel(t *testing.T) {
	ld := testLevel("test-broken")
	ld.Tiles[4][4] = TileEmpty // 破坏墙柱约束
	if _, err := NewGrid(ld, testRNG()); err == nil {
		t.Fatal("墙柱缺失的关卡应被拒绝")
	}

	ld2 := testLevel("test-border")
	ld2.Tiles[0][3] = TileEmpty
	if _, err := NewGrid(ld2, testRNG()); err == nil {
		t.Fatal("边界破洞的关卡应被拒绝")
	}
}

func TestTakeHiddenPowerUpOnlyOnce(t *testing.T) {
	g := openGrid()
	g.Tiles[5][5] = Tile{Type: TileBlock, HiddenPowerUp: PowerUpFireRange}

	if got := g.TakeHiddenPowerUp(5, 5); got != PowerUpFireRange {
		t.Fatalf("第一次取道具得到 %v，期望 %v", got, PowerUpFireRange)
	}
	if got := g.TakeHiddenPowerUp(5, 5); got != PowerUpNone {
		t.Errorf("道具应只能取走一次，第二次得到 %v", got)
	}
	if got := g.TakeHiddenPowerUp(-1, 99); got != PowerUpNone {
		t.Errorf("越界取道具应返回空，得到 %v", got)
	}
}

func TestIsWalkable(t *testing.T) {
	g := openGrid()
	g.Tiles[3][3] = Tile{Type: TileBlock}

	if g.IsWalkable(0, 0, false) || g.IsWalkable(0, 0, true) {
		t.Error("墙壁对任何实体都不可通行")
	}
	if g.IsWalkable(3, 3, false) {
		t.Error("砖块对普通实体不可通行")
	}
	if !g.IsWalkable(3, 3, true) {
		t.Error("砖块对穿墙实体应可通行")
	}
	if !g.IsWalkable(5, 5, false) {
		t.Error("空地应可通行")
	}
	if g.IsWalkable(-1, 5, true) {
		t.Error("越界视为墙壁")
	}
}

func TestTileAtOutOfBoundsIsWall(t *testing.T) {
	g := openGrid()
	for _, pos := range []GridPos{{-1, 0}, {MapWidth, 0}, {0, -1}, {0, MapHeight}} {
		if got := g.TileAt(pos.GridX, pos.GridY); got != TileWall {
			t.Errorf("越界 (%d,%d) 应视为墙壁，得到 %v", pos.GridX, pos.GridY, got)
		}
	}
}

func TestRandomWalkableCellRespectsDistance(t *testing.T) {
	g := openGrid()
	avoid := []GridPos{{GridX: 7, GridY: 6}}

	rng := testRNG()
	for i := 0; i < 50; i++ {
		pos, ok := g.RandomWalkableCell(rng, avoid, 3)
		if !ok {
			t.Fatal("空旷地图上应能找到落点")
		}
		if g.TileAt(pos.GridX, pos.GridY) != TileEmpty {
			t.Fatalf("落点 (%d,%d) 不是空地", pos.GridX, pos.GridY)
		}
		if ManhattanDistance(pos, avoid[0]) < 3 {
			t.Fatalf("落点 (%d,%d) 距回避格不足 3", pos.GridX, pos.GridY)
		}
	}
}
