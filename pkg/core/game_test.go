package core

import "testing"

// spawnSentinel 在远处放一个敌人，避免过关判定提前结束游戏
func spawnSentinel(g *Game) *Enemy {
	return g.spawnEnemy(EnemyWanderer, 11, 9)
}

func eventKinds(evs []Event) map[EventKind]int {
	kinds := make(map[EventKind]int)
	for _, ev := range evs {
		kinds[ev.Kind]++
	}
	return kinds
}

func TestPlayerPlaceBombCap(t *testing.T) {
	g := newTestGame(t, testLevel("test-cap"))
	spawnSentinel(g)
	p := g.Players[0]

	b := g.PlayerPlaceBomb(p)
	if b == nil {
		t.Fatal("第一颗炸弹应放置成功")
	}
	if p.ActiveBombs != 1 {
		t.Fatalf("ActiveBombs = %d，期望 1", p.ActiveBombs)
	}

	// 同格已有炸弹
	if g.PlayerPlaceBomb(p) != nil {
		t.Error("同一格子不能重复放置")
	}

	// 换格子但达到数量上限，静默失败
	x, y := GridToEntityXY(3, 1)
	p.SetPosition(x, y)
	if g.PlayerPlaceBomb(p) != nil {
		t.Error("达到上限时应静默失败")
	}

	p.MaxBombs = 2
	if g.PlayerPlaceBomb(p) == nil {
		t.Error("上限提升后应能再放一颗")
	}
}

func TestDetonateBombIdempotent(t *testing.T) {
	g := newTestGame(t, testLevel("test-idem"))
	spawnSentinel(g)
	p := g.Players[0]

	b := g.PlayerPlaceBomb(p)
	g.DetonateBomb(b)
	g.DetonateBomb(b)
	g.DetonateBomb(b)

	if p.ActiveBombs != 0 {
		t.Errorf("名额应只归还一次: ActiveBombs = %d", p.ActiveBombs)
	}
	if kinds := eventKinds(g.DrainEvents()); kinds[EventBombExploded] != 1 {
		t.Errorf("应只发布一次爆炸事件，实际 %d", kinds[EventBombExploded])
	}
}

func TestBombFuseAutoDetonates(t *testing.T) {
	g := newTestGame(t, testLevel("test-fuse"))
	spawnSentinel(g)
	p := g.Players[0]

	b := g.PlayerPlaceBomb(p)
	placedAt := g.CurrentFrame

	for g.CurrentFrame < placedAt+BombFuseFrames-1 {
		g.Step()
		if b.Detonated {
			t.Fatalf("炸弹在第 %d 帧提前引爆", g.CurrentFrame)
		}
	}
	g.Step()
	if !b.Detonated {
		t.Fatal("引信燃尽后炸弹应自动引爆")
	}
	if g.bombByID(b.ID) != nil {
		t.Error("已引爆的炸弹应移出列表")
	}
	if len(g.Explosions) == 0 {
		t.Error("引爆后应产生火焰")
	}
}

func TestRemoteBombOnlyManualDetonate(t *testing.T) {
	g := newTestGame(t, testLevel("test-remote"))
	spawnSentinel(g)
	p := g.Players[0]
	p.BombType = BombRemote

	b := g.PlayerPlaceBomb(p)
	if b.Fused() {
		t.Fatal("遥控炸弹不应有引信")
	}

	for i := 0; i < BombFuseFrames+60; i++ {
		g.Step()
	}
	if b.Detonated {
		t.Fatal("遥控炸弹不应自动引爆")
	}

	g.DetonateRemote(p.ID)
	if !b.Detonated {
		t.Error("手动引爆应触发全部遥控炸弹")
	}
}

func TestChainDetonationStaggered(t *testing.T) {
	g := newTestGame(t, testLevel("test-chain"))
	spawnSentinel(g)

	first := NewBomb(g.nextID(), 5, 5, 0, BombNormal, 2, g.CurrentFrame)
	second := NewBomb(g.nextID(), 7, 5, 0, BombNormal, 2, g.CurrentFrame)
	g.Bombs = append(g.Bombs, first, second)

	g.DetonateBomb(first)
	detonatedAt := g.CurrentFrame

	for g.CurrentFrame < detonatedAt+ChainDelayFrames-1 {
		g.Step()
		if second.Detonated {
			t.Fatalf("连锁炸弹在第 %d 帧提前引爆", g.CurrentFrame)
		}
	}
	g.Step()
	if !second.Detonated {
		t.Errorf("连锁炸弹应在 %d 帧后引爆", ChainDelayFrames)
	}
}

func TestScheduledDetonateSkipsRemovedBomb(t *testing.T) {
	g := newTestGame(t, testLevel("test-stale"))
	spawnSentinel(g)

	b := NewBomb(g.nextID(), 5, 5, 0, BombNormal, 2, g.CurrentFrame)
	g.scheduleAt(scheduledEvent{Frame: g.CurrentFrame + 3, Kind: scheduleDetonate, BombID: b.ID})

	// 目标炸弹从未进入列表，到期事件必须安全地空操作
	for i := 0; i < 10; i++ {
		g.Step()
	}
	if b.Detonated {
		t.Error("不在场的炸弹不应被引爆")
	}
}

func TestBlockDestroyRevealsPowerUp(t *testing.T) {
	g := newTestGame(t, testLevel("test-drop"))
	spawnSentinel(g)
	p := g.Players[0]
	g.Grid.Tiles[3][1] = Tile{Type: TileBlock, HiddenPowerUp: PowerUpBombCount}

	b := g.PlayerPlaceBomb(p) // 玩家在 (1,1)，火力 2 覆盖 (1,3)
	g.DetonateBomb(b)

	if g.Grid.TileAt(1, 3) != TileEmpty {
		t.Fatal("砖块应被炸毁")
	}
	if len(g.PowerUps) != 1 || g.PowerUps[0].GridX != 1 || g.PowerUps[0].GridY != 3 {
		t.Fatalf("隐藏道具应出现在 (1,3): %+v", g.PowerUps)
	}
	kinds := eventKinds(g.DrainEvents())
	if kinds[EventBlockDestroyed] != 1 || kinds[EventPowerUpSpawned] != 1 {
		t.Errorf("事件缺失: %v", kinds)
	}

	// 等火焰熄灭再走过去拾取
	for i := 0; i <= ExplosionFrames; i++ {
		g.Step()
	}
	x, y := GridToEntityXY(1, 3)
	p.SetPosition(x, y)
	g.Step()

	if len(g.PowerUps) != 0 {
		t.Fatal("道具应在拾取后消失")
	}
	if p.MaxBombs != PlayerDefaultMaxBombs+1 {
		t.Errorf("MaxBombs = %d，期望 %d", p.MaxBombs, PlayerDefaultMaxBombs+1)
	}
	if kinds := eventKinds(g.DrainEvents()); kinds[EventPowerUpCollected] != 1 {
		t.Errorf("应发布拾取事件: %v", kinds)
	}
}

func TestFlameDamagesEnemyOncePerBlast(t *testing.T) {
	g := newTestGame(t, testLevel("test-hurt"))
	spawnSentinel(g)
	bomber := g.spawnEnemy(EnemyBomber, 5, 5) // 血量 2

	g.Explosions = append(g.Explosions, &Explosion{
		ID: g.nextID(), GridX: 5, GridY: 5,
		CreatedAtFrame: g.CurrentFrame, ExpiresAtFrame: g.CurrentFrame + ExplosionFrames,
	})
	for i := 0; i < int(ExplosionFrames); i++ {
		g.Step()
	}

	if bomber.Health != 1 {
		t.Errorf("一团火焰只应造成 1 点伤害，血量 %d", bomber.Health)
	}
	if bomber.State == EnemyDying {
		t.Error("血量 2 的敌人不应被单次爆炸击杀")
	}
}

func TestSplitterSpawnsChildren(t *testing.T) {
	g := newTestGame(t, testLevel("test-split"))
	spawnSentinel(g)
	p := g.Players[0]
	splitter := g.spawnEnemy(EnemySplitter, 5, 5)

	g.Explosions = append(g.Explosions, &Explosion{
		ID: g.nextID(), GridX: 5, GridY: 5, OwnerID: p.ID,
		CreatedAtFrame: g.CurrentFrame, ExpiresAtFrame: g.CurrentFrame + 2,
	})
	g.Step()
	if splitter.State != EnemyDying {
		t.Fatal("分裂怪应被击杀")
	}
	if p.Score != splitter.Points {
		t.Errorf("击杀得分 %d，期望 %d", p.Score, splitter.Points)
	}

	for i := 0; i < int(SplitDelayFrames); i++ {
		g.Step()
	}

	children := 0
	for _, e := range g.Enemies {
		if e == splitter || e.Kind != EnemyWanderer || e.GridX == 11 {
			continue
		}
		children++
		if e.Speed != splitter.Speed*SplitChildSpeedFactor {
			t.Errorf("子体速度 %v，期望 %v", e.Speed, splitter.Speed*SplitChildSpeedFactor)
		}
		if e.Points != splitter.Points/2 {
			t.Errorf("子体分值 %d，期望 %d", e.Points, splitter.Points/2)
		}
	}
	if children != 2 {
		t.Errorf("应生成 2 个子体，实际 %d", children)
	}
}

func TestSplitterSpawnsTwoChildrenInSingleOpenCell(t *testing.T) {
	g := newTestGame(t, testLevel("test-split-1"))
	spawnSentinel(g)
	splitter := g.spawnEnemy(EnemySplitter, 5, 5)

	// 只留 (5,6) 一个空格
	g.Grid.SetTile(4, 5, TileBlock)
	g.Grid.SetTile(6, 5, TileBlock)
	g.Grid.SetTile(5, 4, TileBlock)

	g.Explosions = append(g.Explosions, &Explosion{
		ID: g.nextID(), GridX: 5, GridY: 5,
		CreatedAtFrame: g.CurrentFrame, ExpiresAtFrame: g.CurrentFrame + 2,
	})
	g.Step()
	if splitter.State != EnemyDying {
		t.Fatal("分裂怪应被击杀")
	}

	for i := 0; i < int(SplitDelayFrames); i++ {
		g.Step()
	}

	children := 0
	for _, e := range g.Enemies {
		if e == splitter || e.Kind != EnemyWanderer || e.GridX == 11 {
			continue
		}
		children++
		if e.GridX != 5 || e.GridY != 6 {
			t.Errorf("子体应挤在 (5,6)，实际 (%d,%d)", e.GridX, e.GridY)
		}
	}
	if children != 2 {
		t.Errorf("至少一个空格时应生成恰好 2 个子体，实际 %d", children)
	}
}

func TestGameOverWhenAllPlayersDead(t *testing.T) {
	g := newTestGame(t, testLevel("test-over"))
	spawnSentinel(g)
	p := g.Players[0]
	p.Lives = 1

	g.damagePlayer(p)

	if p.Alive {
		t.Fatal("最后一条命耗尽后玩家应死亡")
	}
	if g.Phase != PhaseGameOver {
		t.Fatalf("全员阵亡应进入结束状态，实际 %v", g.Phase)
	}
	kinds := eventKinds(g.DrainEvents())
	if kinds[EventPlayerDied] != 1 || kinds[EventGameOver] != 1 {
		t.Errorf("事件缺失: %v", kinds)
	}
}

func TestInvincibilityBlocksRepeatDamage(t *testing.T) {
	g := newTestGame(t, testLevel("test-inv"))
	spawnSentinel(g)
	p := g.Players[0]

	g.damagePlayer(p)
	if p.Lives != PlayerDefaultLives-1 {
		t.Fatalf("Lives = %d，期望 %d", p.Lives, PlayerDefaultLives-1)
	}
	g.damagePlayer(p)
	if p.Lives != PlayerDefaultLives-1 {
		t.Error("无敌窗口内不应重复掉命")
	}

	for i := 0; i < InvincibleFrames+1; i++ {
		g.Step()
	}
	g.damagePlayer(p)
	if p.Lives != PlayerDefaultLives-2 {
		t.Error("无敌窗口结束后伤害应恢复生效")
	}
}

func TestLevelCompleteSavesStats(t *testing.T) {
	g := newTestGame(t, testLevel("test-clear"))
	sentinel := spawnSentinel(g)
	p := g.Players[0]
	PowerUpFireRange.Apply(p)
	PowerUpBombCount.Apply(p)
	p.Score = 700

	sentinel.State = EnemyDying
	sentinel.StateUntil = g.CurrentFrame + EnemyDyingFrames
	g.Step()

	if g.Phase != PhaseVictory {
		t.Fatalf("敌人清空后应过关，实际 %v", g.Phase)
	}
	if kinds := eventKinds(g.DrainEvents()); kinds[EventLevelComplete] != 1 {
		t.Errorf("应发布过关事件: %v", kinds)
	}

	// 强化只在死亡时丢失：下一关开局应恢复保存的属性
	if err := g.LoadLevel(testLevel("test-clear-2")); err != nil {
		t.Fatalf("加载关卡失败: %v", err)
	}
	if p.FireRange != PlayerDefaultFireRange+1 || p.MaxBombs != PlayerDefaultMaxBombs+1 {
		t.Errorf("过关后强化丢失: 火力 %d 炸弹 %d", p.FireRange, p.MaxBombs)
	}
	if p.Score != 700 {
		t.Errorf("得分未保留: %d", p.Score)
	}
}

func TestEmptyLevelCompletesImmediately(t *testing.T) {
	g := newTestGame(t, testLevel("test-empty"))
	g.Step()
	if g.Phase != PhaseVictory {
		t.Errorf("无敌人无 Boss 的关卡应立即过关，实际 %v", g.Phase)
	}
}

func TestSurvivalNextWave(t *testing.T) {
	ld := testLevel("test-wave")
	ld.Enemies = []EnemySpawn{{Kind: EnemyWanderer, GridX: 5, GridY: 5, Count: 2}}

	g := NewGame(7, ModeSurvival)
	g.AddPlayer("测试")
	if err := g.LoadLevel(ld); err != nil {
		t.Fatalf("加载关卡失败: %v", err)
	}
	if g.Wave != 1 {
		t.Fatalf("生存模式开局 Wave = %d，期望 1", g.Wave)
	}

	for _, e := range g.Enemies {
		e.State = EnemyDying
		e.StateUntil = g.CurrentFrame + EnemyDyingFrames
	}
	g.Step()

	if g.Wave != 2 {
		t.Fatalf("清空敌人后 Wave = %d，期望 2", g.Wave)
	}
	if g.Phase != PhasePlaying {
		t.Error("生存模式不应进入过关状态")
	}
	alive := 0
	for _, e := range g.Enemies {
		if e.State != EnemyDying {
			alive++
		}
	}
	if alive != 2 {
		t.Errorf("第二波应生成 2 只敌人，实际 %d", alive)
	}
	if kinds := eventKinds(g.DrainEvents()); kinds[EventWaveStarted] != 1 {
		t.Errorf("应发布新波次事件: %v", kinds)
	}
}

func TestPauseStopsSimulation(t *testing.T) {
	g := newTestGame(t, testLevel("test-pause"))
	spawnSentinel(g)

	g.Step()
	frame := g.CurrentFrame
	g.Pause()
	g.Step()
	g.Step()
	if g.CurrentFrame != frame {
		t.Error("暂停期间模拟不应推进")
	}
	g.Resume()
	g.Step()
	if g.CurrentFrame != frame+1 {
		t.Error("恢复后模拟应继续推进")
	}
}

func TestAdvanceAccumulatesFixedSteps(t *testing.T) {
	g := newTestGame(t, testLevel("test-adv"))
	spawnSentinel(g)

	g.Advance(FixedDeltaTime * 2.5)
	if g.CurrentFrame != 2 {
		t.Fatalf("2.5 个步长应推进 2 帧，实际 %d", g.CurrentFrame)
	}
	g.Advance(FixedDeltaTime)
	if g.CurrentFrame != 3 {
		t.Errorf("余量应跨调用累积，实际 %d", g.CurrentFrame)
	}
}
