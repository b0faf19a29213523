package ai

import (
	"testing"

	"bombquest/pkg/core"
)

func TestDirectorEvadeOverridesBehavior(t *testing.T) {
	game := newTestGame(t, core.EnemySpawn{Kind: core.EnemyWanderer, GridX: 5, GridY: 5})
	e := game.Enemies[0]
	plantBomb(game, 100, 5, 5, game.CurrentFrame+30)

	d := NewDirector()
	intent := d.Decide(game, e)

	if intent.MoveX == 0 && intent.MoveY == 0 {
		t.Fatal("身处危险格的敌人应立即撤离")
	}
	if e.EvadeTarget == nil {
		t.Fatal("撤离时应记住逃生目标")
	}
	if d.danger.InDanger(e.EvadeTarget.GridX, e.EvadeTarget.GridY) {
		t.Errorf("逃生目标 (%d,%d) 本身在危险区", e.EvadeTarget.GridX, e.EvadeTarget.GridY)
	}

	// 危险解除后清空逃生目标，恢复本性行动
	game.Bombs = nil
	game.CurrentFrame++
	d.Decide(game, e)
	if e.EvadeTarget != nil {
		t.Error("脱离危险后应清空逃生目标")
	}
}

func TestDirectorWandererMovesAlongAxis(t *testing.T) {
	game := newTestGame(t, core.EnemySpawn{Kind: core.EnemyWanderer, GridX: 5, GridY: 5})
	e := game.Enemies[0]

	d := NewDirector()
	intent := d.Decide(game, e)

	if intent.MoveX != 0 && intent.MoveY != 0 {
		t.Error("游荡怪应沿单轴移动")
	}
	if intent.MoveX == 0 && intent.MoveY == 0 {
		t.Error("四面开阔时游荡怪应移动")
	}
	if e.WanderDir == core.DirNone {
		t.Error("游荡怪应锁定一个方向")
	}
}

func TestDirectorChaserStepsTowardPlayer(t *testing.T) {
	game := newTestGame(t, core.EnemySpawn{Kind: core.EnemyChaser, GridX: 5, GridY: 1})
	e := game.Enemies[0]
	start := e.GridPos()

	d := NewDirector()
	intent := d.Decide(game, e)

	// 玩家在左上角 (1,1)，追击者应朝左走
	if intent.MoveX >= 0 {
		t.Errorf("追击者应朝玩家移动: MoveX=%v MoveY=%v 起点 %v", intent.MoveX, intent.MoveY, start)
	}
}

func TestDirectorChaserWandersWhenPlayerFar(t *testing.T) {
	game := newTestGame(t, core.EnemySpawn{Kind: core.EnemyChaser, GridX: 11, GridY: 11})
	e := game.Enemies[0]

	d := NewDirector()
	d.Decide(game, e)

	// 玩家在 (1,1)，距离 20 超出追击半径，退化为游荡
	if e.WanderDir == core.DirNone {
		t.Error("超出追击半径的追击者应改为游荡")
	}
}

func TestDirectorGhostFloatsDiagonally(t *testing.T) {
	game := newTestGame(t, core.EnemySpawn{Kind: core.EnemyGhost, GridX: 5, GridY: 5})
	e := game.Enemies[0]

	d := NewDirector()
	intent := d.Decide(game, e)

	// 玩家在左上方，幽灵无视格线直线漂移
	if intent.MoveX >= 0 || intent.MoveY >= 0 {
		t.Errorf("幽灵应直线漂向玩家: MoveX=%v MoveY=%v", intent.MoveX, intent.MoveY)
	}
}

func TestDirectorChargerLocksOnSightline(t *testing.T) {
	game := newTestGame(t, core.EnemySpawn{Kind: core.EnemyCharger, GridX: 1, GridY: 5})
	e := game.Enemies[0]

	d := NewDirector()
	intent := d.Decide(game, e)

	if e.State != core.EnemyAttacking || e.ChargeDir != core.DirUp {
		t.Fatalf("同列视野内应发起冲锋: 状态 %v 方向 %v", e.State, e.ChargeDir)
	}
	if intent.MoveY >= 0 {
		t.Errorf("冲锋应朝玩家方向: MoveY=%v", intent.MoveY)
	}
	// 冲锋速度高于常速
	if -intent.MoveY <= e.Speed {
		t.Errorf("冲锋速度 %v 应高于常速 %v", -intent.MoveY, e.Speed)
	}
}

func TestDirectorChargerNoSightlineWanders(t *testing.T) {
	game := newTestGame(t, core.EnemySpawn{Kind: core.EnemyCharger, GridX: 5, GridY: 7})
	e := game.Enemies[0]

	d := NewDirector()
	d.Decide(game, e)

	if e.State == core.EnemyAttacking {
		t.Error("不同行列的玩家不应触发冲锋")
	}
}

func TestDirectorBomberDropsBombWhenAligned(t *testing.T) {
	game := newTestGame(t, core.EnemySpawn{Kind: core.EnemyBomber, GridX: 5, GridY: 1})
	e := game.Enemies[0]

	d := NewDirector()
	intent := d.Decide(game, e)

	// 与玩家同行且在射程内
	if !intent.PlaceBomb {
		t.Error("与玩家对齐时爆破手应放炸弹")
	}

	// 冷却期间不再放
	e.CooldownUntil = game.CurrentFrame + 100
	game.CurrentFrame++
	if intent := d.Decide(game, e); intent.PlaceBomb {
		t.Error("冷却期间不应放炸弹")
	}
}

func TestDirectorTeleporterBlinksWhenPlayerClose(t *testing.T) {
	game := newTestGame(t, core.EnemySpawn{Kind: core.EnemyTeleporter, GridX: 2, GridY: 1})
	e := game.Enemies[0]
	playerPos := game.Players[0].GridPos()

	d := NewDirector()
	intent := d.Decide(game, e)

	// 玩家贴身（距离 1）且冷却已过
	if intent.Teleport == nil {
		t.Fatal("玩家贴身时传送怪应请求传送")
	}
	if core.ManhattanDistance(*intent.Teleport, playerPos) < teleportMinDistance {
		t.Errorf("传送落点 %v 距玩家太近", *intent.Teleport)
	}
}

func TestDirectorTeleporterStaysWhenPlayerFar(t *testing.T) {
	game := newTestGame(t, core.EnemySpawn{Kind: core.EnemyTeleporter, GridX: 11, GridY: 5})
	e := game.Enemies[0]

	d := NewDirector()
	intent := d.Decide(game, e)

	if intent.Teleport != nil {
		t.Error("玩家离得远时不应触发传送")
	}
	if e.WanderDir == core.DirNone {
		t.Error("未传送时应照常游荡")
	}
}

func TestDirectorShielderRaisesShieldNearBomb(t *testing.T) {
	game := newTestGame(t, core.EnemySpawn{Kind: core.EnemyShielder, GridX: 5, GridY: 5})
	e := game.Enemies[0]
	plantBomb(game, 100, 6, 5, game.CurrentFrame+core.BombFuseFrames)

	d := NewDirector()
	intent := d.Decide(game, e)

	if !intent.RaiseShield {
		t.Error("附近有炸弹时护盾怪应举盾")
	}

	// 已开盾时不重复请求
	e.Shielded = true
	game.CurrentFrame++
	if intent := d.Decide(game, e); intent.RaiseShield {
		t.Error("护盾激活期间不应重复举盾")
	}
}
