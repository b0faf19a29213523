package ai

import (
	"testing"

	"bombquest/pkg/core"
)

func TestDangerFieldCoversBlast(t *testing.T) {
	game := newTestGame(t)
	plantBomb(game, 100, 5, 5, 30)

	var df DangerField
	df.Update(game)

	// 中心与十字范围内的格子进入危险
	for _, pos := range []core.GridPos{{GridX: 5, GridY: 5}, {GridX: 3, GridY: 5}, {GridX: 7, GridY: 5}, {GridX: 5, GridY: 3}, {GridX: 5, GridY: 7}} {
		if !df.InDanger(pos.GridX, pos.GridY) {
			t.Errorf("(%d,%d) 应在危险区", pos.GridX, pos.GridY)
		}
		if df.Earliest[pos.GridY][pos.GridX] != 30 {
			t.Errorf("(%d,%d) 最早引爆帧 %d，期望 30", pos.GridX, pos.GridY, df.Earliest[pos.GridY][pos.GridX])
		}
	}
	// 范围之外安全
	if df.InDanger(8, 5) || df.InDanger(1, 1) {
		t.Error("爆炸范围外不应有危险")
	}
}

func TestDangerFieldFreshBombIsLowDanger(t *testing.T) {
	game := newTestGame(t)
	// 刚放下的炸弹引信还有整整一根，危险度应接近 0
	plantBomb(game, 100, 5, 5, game.CurrentFrame+core.BombFuseFrames)

	var df DangerField
	df.Update(game)

	if df.InDanger(5, 5) {
		t.Error("引信全满的炸弹不应立即触发逃离")
	}
	if df.Earliest[5][5] != game.CurrentFrame+core.BombFuseFrames {
		t.Errorf("最早引爆帧 %d 不正确", df.Earliest[5][5])
	}
}

func TestDangerFieldRemoteBombPropagatesByChainOnly(t *testing.T) {
	game := newTestGame(t)

	// 单独的遥控炸弹没有引信，不产生危险
	remote := core.NewBomb(100, 7, 5, 1, core.BombRemote, 2, game.CurrentFrame)
	game.Bombs = append(game.Bombs, remote)

	var df DangerField
	df.Update(game)
	if df.Earliest[5][7] != int32(1<<31-1) {
		t.Errorf("孤立遥控炸弹不应产生危险: %d", df.Earliest[5][7])
	}

	// 火焰能波及它的普通炸弹出现后，遥控炸弹继承火源的引爆时刻
	plantBomb(game, 101, 5, 5, 60)
	df.Update(game)

	if df.Earliest[5][7] != 60 {
		t.Errorf("连锁后遥控炸弹引爆帧 %d，期望 60", df.Earliest[5][7])
	}
	// 遥控炸弹自己的火焰范围也进入危险
	if df.Earliest[5][9] != 60 {
		t.Errorf("连锁炸弹的火焰范围引爆帧 %d，期望 60", df.Earliest[5][9])
	}
}

func TestDangerFieldChainTakesEarliestSource(t *testing.T) {
	game := newTestGame(t)
	plantBomb(game, 100, 5, 5, 120) // 晚引爆
	plantBomb(game, 101, 7, 5, 40)  // 早引爆，火焰覆盖 (5,5)

	var df DangerField
	df.Update(game)

	// 两颗互相覆盖：都按更早的 40 帧起爆
	if df.Earliest[5][5] != 40 || df.Earliest[5][7] != 40 {
		t.Errorf("连锁应取最早火源: (5,5)=%d (7,5)=%d", df.Earliest[5][5], df.Earliest[5][7])
	}
	if df.Earliest[5][3] != 40 {
		t.Errorf("晚爆炸弹的范围也应提前: %d", df.Earliest[5][3])
	}
}

func TestDangerFieldActiveExplosionIsImmediate(t *testing.T) {
	game := newTestGame(t)
	game.Explosions = append(game.Explosions, &core.Explosion{
		ID: 1, GridX: 5, GridY: 5,
		CreatedAtFrame: game.CurrentFrame, ExpiresAtFrame: game.CurrentFrame + core.ExplosionFrames,
	})

	var df DangerField
	df.Update(game)

	if df.Level[5][5] != 1.0 {
		t.Errorf("燃烧中的火焰危险度应为 1.0，实际 %v", df.Level[5][5])
	}
	if !df.InDanger(5, 5) {
		t.Error("火焰格应在危险区")
	}
}

func TestSafeAtFrame(t *testing.T) {
	game := newTestGame(t)
	plantBomb(game, 100, 5, 5, 100)

	var df DangerField
	df.Update(game)

	if !df.SafeAtFrame(5, 5, 99) {
		t.Error("引爆前到达应安全")
	}
	if df.SafeAtFrame(5, 5, 100) {
		t.Error("引爆时刻到达不安全")
	}
	if df.SafeAtFrame(-1, 5, 0) {
		t.Error("越界格子永不安全")
	}
}
