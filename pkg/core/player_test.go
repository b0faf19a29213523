package core

import "testing"

func TestPlayerTakeDamageLifecycle(t *testing.T) {
	p := NewPlayer(1, 1, 1)
	PowerUpSpeed.Apply(p)
	PowerUpFireRange.Apply(p)
	PowerUpRemoteBomb.Apply(p)

	if !p.TakeDamage(100) {
		t.Fatal("第一次伤害应生效")
	}
	if p.Lives != PlayerDefaultLives-1 || !p.Alive {
		t.Fatalf("掉命后 Lives=%d Alive=%v", p.Lives, p.Alive)
	}
	if !p.Invincible || p.InvincibleUntil != 100+InvincibleFrames {
		t.Errorf("掉命后应进入无敌窗口: %v 到 %d", p.Invincible, p.InvincibleUntil)
	}

	// 掉命时丢失全部强化
	if p.Speed != PlayerDefaultSpeed || p.FireRange != PlayerDefaultFireRange {
		t.Errorf("强化未重置: 速度 %v 火力 %d", p.Speed, p.FireRange)
	}
	if p.BombType != BombNormal || len(p.PowerUps) != 0 {
		t.Errorf("炸弹类型/道具列表未重置: %v %v", p.BombType, p.PowerUps)
	}

	// 无敌窗口内免疫
	if p.TakeDamage(100 + InvincibleFrames - 1) {
		t.Error("无敌窗口内不应受伤")
	}
	// 窗口结束恢复生效
	if !p.TakeDamage(100 + InvincibleFrames) {
		t.Error("无敌窗口结束后应恢复受伤")
	}

	p.Invincible = false
	if !p.TakeDamage(500) {
		t.Fatal("最后一击应生效")
	}
	if p.Alive || p.Lives != 0 {
		t.Errorf("生命归零应死亡: Alive=%v Lives=%d", p.Alive, p.Lives)
	}
	if p.TakeDamage(600) {
		t.Error("死者不应再受伤")
	}
}

func TestPlayerStatsRoundTrip(t *testing.T) {
	p := NewPlayer(1, 1, 1)
	PowerUpSpeed.Apply(p)
	PowerUpBombCount.Apply(p)
	PowerUpLineBomb.Apply(p)
	p.Score = 1500
	p.Kills = 7

	saved := p.SaveStats()

	other := NewPlayer(2, 1, 1)
	other.RestoreStats(saved)
	if other.Speed != p.Speed || other.MaxBombs != p.MaxBombs || other.BombType != BombLine {
		t.Errorf("属性恢复不完整: %+v", other)
	}
	if other.Score != 1500 || other.Kills != 7 {
		t.Errorf("战绩恢复不完整: 得分 %d 击杀 %d", other.Score, other.Kills)
	}
	if len(other.PowerUps) != 3 {
		t.Errorf("道具列表恢复不完整: %v", other.PowerUps)
	}

	// 保存的是快照，后续变化不应互相影响
	p.PowerUps = append(p.PowerUps, PowerUpSpeed)
	if len(saved.PowerUps) != 3 {
		t.Error("SaveStats 应复制道具列表")
	}
}

func TestPowerUpCaps(t *testing.T) {
	p := NewPlayer(1, 1, 1)

	for i := 0; i < 20; i++ {
		PowerUpSpeed.Apply(p)
		PowerUpBombCount.Apply(p)
		PowerUpFireRange.Apply(p)
	}
	if p.Speed != MaxPlayerSpeed {
		t.Errorf("速度应封顶 %v，实际 %v", MaxPlayerSpeed, p.Speed)
	}
	if p.MaxBombs != MaxPlayerBombs {
		t.Errorf("炸弹数应封顶 %d，实际 %d", MaxPlayerBombs, p.MaxBombs)
	}
	if p.FireRange != MaxPlayerRange {
		t.Errorf("火力应封顶 %d，实际 %d", MaxPlayerRange, p.FireRange)
	}
}

func TestBombTypePowerUpsReplace(t *testing.T) {
	p := NewPlayer(1, 1, 1)
	PowerUpPowerBomb.Apply(p)
	if p.BombType != BombPiercing {
		t.Fatalf("应切换为穿透炸弹: %v", p.BombType)
	}
	PowerUpRemoteBomb.Apply(p)
	if p.BombType != BombRemote {
		t.Errorf("特殊炸弹类型应互相覆盖: %v", p.BombType)
	}
}

func TestPlayerMoveUpdatesDirection(t *testing.T) {
	g := newTestGame(t, testLevel("test-move"))
	spawnSentinel(g)
	p := g.Players[0]

	p.Move(p.Speed, 0, g)
	if p.Direction != DirRight || !p.IsMoving {
		t.Errorf("向右移动后朝向 %v moving=%v", p.Direction, p.IsMoving)
	}

	// 贴在上边界墙上向上推，不移动但仍转向
	p.Move(0, -p.Speed, g)
	p.Move(0, -p.Speed, g)
	for i := 0; i < 30; i++ {
		p.Move(0, -p.Speed, g)
	}
	if p.Direction != DirUp {
		t.Errorf("被挡时也应转向: %v", p.Direction)
	}
	if pos := p.GridPos(); pos.GridY < 1 {
		t.Errorf("玩家穿出边界: %v", pos)
	}
}
