package ai

import (
	"math"

	"bombquest/pkg/core"
)

const maxFrame = int32(math.MaxInt32)

// DangerField 危险场：每个格子最早被火焰覆盖的帧号与危险度
// 每帧重算一次，所有敌人共享同一份
type DangerField struct {
	Earliest [core.MapHeight][core.MapWidth]int32
	Level    [core.MapHeight][core.MapWidth]float64
}

// Update 根据当前炸弹与火焰重建危险场
func (df *DangerField) Update(game *core.Game) {
	current := game.CurrentFrame
	for y := 0; y < core.MapHeight; y++ {
		for x := 0; x < core.MapWidth; x++ {
			df.Earliest[y][x] = maxFrame
			df.Level[y][x] = 0.0
		}
	}
	if game.Grid == nil {
		return
	}

	bombs := game.Bombs
	actual := make(map[*core.Bomb]int32, len(bombs))
	cells := make(map[*core.Bomb][]core.GridPos, len(bombs))
	for _, b := range bombs {
		fuse := b.ExplodeAtFrame
		if fuse == 0 {
			// 遥控炸弹没有引信，只通过连锁参与危险场
			fuse = maxFrame
		}
		actual[b] = fuse
		cells[b] = core.BlastCells(game.Grid, b)
	}

	// 连锁传播：被火焰覆盖的炸弹提前到火源的引爆时刻，迭代到稳定
	changed := true
	for changed {
		changed = false
		for _, b := range bombs {
			bFrame := actual[b]
			if bFrame == maxFrame {
				continue
			}
			for _, cell := range cells[b] {
				for _, other := range bombs {
					if other == b {
						continue
					}
					if other.GridX == cell.GridX && other.GridY == cell.GridY && actual[other] > bFrame {
						actual[other] = bFrame
						changed = true
					}
				}
			}
		}
	}

	for _, b := range bombs {
		when := actual[b]
		if when == maxFrame {
			continue
		}
		for _, cell := range cells[b] {
			if !inBounds(cell.GridX, cell.GridY) {
				continue
			}
			if when < df.Earliest[cell.GridY][cell.GridX] {
				df.Earliest[cell.GridY][cell.GridX] = when
			}
		}
	}

	// 已经燃烧的火焰是立即危险
	for _, exp := range game.Explosions {
		if inBounds(exp.GridX, exp.GridY) {
			df.Earliest[exp.GridY][exp.GridX] = current
		}
	}

	// 把最早引爆帧折算成 0~1 的危险度
	for y := 0; y < core.MapHeight; y++ {
		for x := 0; x < core.MapWidth; x++ {
			earliest := df.Earliest[y][x]
			if earliest == maxFrame {
				continue
			}
			remaining := float64(earliest - current)
			if remaining <= 0 {
				df.Level[y][x] = 1.0
				continue
			}
			if remaining >= float64(core.BombFuseFrames) {
				continue
			}
			df.Level[y][x] = 1.0 - remaining/float64(core.BombFuseFrames)
		}
	}
}

// InDanger 格子当前是否处于危险之中
func (df *DangerField) InDanger(x, y int) bool {
	if !inBounds(x, y) {
		return true
	}
	return df.Level[y][x] > 0.05
}

// SafeAtFrame 在指定帧到达该格是否安全
func (df *DangerField) SafeAtFrame(x, y int, frame int32) bool {
	if !inBounds(x, y) {
		return false
	}
	return frame < df.Earliest[y][x]
}

func inBounds(x, y int) bool {
	return x >= 0 && x < core.MapWidth && y >= 0 && y < core.MapHeight
}
