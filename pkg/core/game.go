package core

import (
	"fmt"
	"math/rand"
)

// GameMode 游戏模式
type GameMode int

const (
	ModeCampaign GameMode = iota // 闯关
	ModeSurvival                 // 无尽生存
	ModeVersus                   // 对战
)

// String 返回游戏模式的字符串表示
func (m GameMode) String() string {
	switch m {
	case ModeCampaign:
		return "闯关"
	case ModeSurvival:
		return "生存"
	case ModeVersus:
		return "对战"
	}
	return "未知"
}

// GamePhase 整局状态机
type GamePhase int

const (
	PhaseMenu GamePhase = iota
	PhaseLoading
	PhasePlaying
	PhasePaused
	PhaseCutscene
	PhaseGameOver
	PhaseVictory
)

// 敌人特殊能力参数（帧）
const (
	EnemyShieldFrames          = 120 // 护盾持续时间
	EnemyAbilityCooldownFrames = 240 // 特殊能力统一冷却
	EnemyHurtFrames            = 30  // 受击后的火焰免疫窗口
	EnemyBombRange             = 2   // 爆破手的炸弹范围
)

// Game 游戏状态聚合根（引擎是唯一写者）
type Game struct {
	LevelID string
	World   int
	Mode    GameMode
	Phase   GamePhase

	Grid       *Grid
	Players    []*Player
	Bombs      []*Bomb
	Explosions []*Explosion
	Enemies    []*Enemy
	PowerUps   []*PowerUp
	Boss       *Boss
	Effects    []*AttackEffect

	Score        int
	CurrentFrame int32
	Wave         int

	Multiplayer bool
	RoomID      string

	// Director 敌人决策层，显式注入；为空时敌人原地待机
	Director EnemyController

	rng          *rand.Rand
	accumulator  float64
	nextEntityID int
	schedule     []scheduledEvent
	events       []Event
	savedStats   map[int]PlayerStats
	levelStart   int32
	survivalBase []EnemySpawn
}

// NewGame 创建新游戏
func NewGame(seed int64, mode GameMode) *Game {
	return &Game{
		Mode:       mode,
		Phase:      PhaseMenu,
		rng:        rand.New(rand.NewSource(seed)),
		savedStats: make(map[int]PlayerStats),
	}
}

// nextID 分配实体 ID
func (g *Game) nextID() int {
	g.nextEntityID++
	return g.nextEntityID
}

// AddPlayer 添加玩家，按加入顺序分配角落出生点
func (g *Game) AddPlayer(name string) *Player {
	corners := SpawnCorners()
	corner := corners[len(g.Players)%len(corners)]
	p := NewPlayer(g.nextID(), corner.GridX, corner.GridY)
	p.Name = name
	g.Players = append(g.Players, p)
	return p
}

// LoadLevel 加载关卡：整体重建地图，重置所有临时实体
// 关卡数据损坏时返回错误，绝不构造半初始化的状态
func (g *Game) LoadLevel(ld *LevelData) error {
	g.Phase = PhaseLoading

	grid, err := NewGrid(ld, g.rng)
	if err != nil {
		g.Phase = PhaseMenu
		return fmt.Errorf("加载关卡失败: %w", err)
	}

	g.Grid = grid
	g.LevelID = ld.ID
	g.World = ld.World
	g.Bombs = nil
	g.Explosions = nil
	g.Enemies = nil
	g.PowerUps = nil
	g.Effects = nil
	g.Boss = nil
	g.schedule = nil
	g.Wave = 0
	g.levelStart = g.CurrentFrame
	g.survivalBase = append([]EnemySpawn(nil), ld.Enemies...)

	for _, spawn := range ld.Enemies {
		count := spawn.Count
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			g.spawnEnemy(spawn.Kind, spawn.GridX, spawn.GridY)
		}
	}

	if ld.Boss != nil {
		g.Boss = NewBoss(g.nextID(), ld.Boss)
	}

	// 玩家回到角落出生点，恢复上一关保存的属性
	corners := SpawnCorners()
	for i, p := range g.Players {
		corner := corners[i%len(corners)]
		x, y := GridToEntityXY(corner.GridX, corner.GridY)
		p.SetPosition(x, y)
		p.ActiveBombs = 0
		p.Invincible = false
		if stats, ok := g.savedStats[p.ID]; ok {
			p.RestoreStats(stats)
		}
		if p.Lives > 0 {
			p.Alive = true
		}
	}

	if g.Mode == ModeSurvival {
		g.Wave = 1
	}

	g.Phase = PhasePlaying
	return nil
}

// spawnEnemy 生成敌人
func (g *Game) spawnEnemy(kind EnemyKind, gridX, gridY int) *Enemy {
	e := NewEnemy(g.nextID(), kind, gridX, gridY)
	g.Enemies = append(g.Enemies, e)
	return e
}

// addEffect 登记一个 Boss 攻击伤害区域
func (g *Game) addEffect(a *AttackEffect) {
	a.ID = g.nextID()
	g.Effects = append(g.Effects, a)
}

// emit 发布游戏事件
func (g *Game) emit(ev Event) {
	g.events = append(g.events, ev)
}

// DrainEvents 取走本帧之前积累的全部事件
func (g *Game) DrainEvents() []Event {
	evs := g.events
	g.events = nil
	return evs
}

// Pause 暂停
func (g *Game) Pause() {
	if g.Phase == PhasePlaying {
		g.Phase = PhasePaused
	}
}

// Resume 继续
func (g *Game) Resume() {
	if g.Phase == PhasePaused {
		g.Phase = PhasePlaying
	}
}

// Advance 按真实流逝时间推进模拟（累加器模式）
// 模拟始终以固定步长前进，余量留到下一帧，与渲染帧率解耦
func (g *Game) Advance(dt float64) {
	g.accumulator += dt
	for g.accumulator >= FixedDeltaTime {
		g.Step()
		g.accumulator -= FixedDeltaTime
	}
}

// Step 推进一个固定模拟步
// 每步顺序：延迟事件 → 炸弹引信 → 火焰衰减 → 敌人 → 玩家计时 → Boss → 碰撞 → 过关判定
func (g *Game) Step() {
	if g.Phase != PhasePlaying {
		return
	}
	g.CurrentFrame++

	g.runSchedule()
	g.updateBombs()
	g.cullExplosions()
	g.updateEnemies()
	g.updatePlayers()
	g.updateBoss()
	g.checkCollisions()
	g.checkLevelComplete()
}

// updateBombs 引信燃尽的炸弹自动引爆，已引爆的移出列表
func (g *Game) updateBombs() {
	for _, b := range g.Bombs {
		if !b.Detonated && b.FuseExpired(g.CurrentFrame) {
			g.DetonateBomb(b)
		}
	}
	for i := len(g.Bombs) - 1; i >= 0; i-- {
		if g.Bombs[i].Detonated {
			g.Bombs = append(g.Bombs[:i], g.Bombs[i+1:]...)
		}
	}
}

// cullExplosions 移除已熄灭的火焰
func (g *Game) cullExplosions() {
	for i := len(g.Explosions) - 1; i >= 0; i-- {
		if g.Explosions[i].Expired(g.CurrentFrame) {
			g.Explosions = append(g.Explosions[:i], g.Explosions[i+1:]...)
		}
	}
}

// updateEnemies 敌人计时器与 AI 决策
func (g *Game) updateEnemies() {
	frame := g.CurrentFrame

	// 死亡动画结束的敌人出场
	for i := len(g.Enemies) - 1; i >= 0; i-- {
		e := g.Enemies[i]
		if e.State == EnemyDying && frame >= e.StateUntil {
			g.Enemies = append(g.Enemies[:i], g.Enemies[i+1:]...)
		}
	}

	for _, e := range g.Enemies {
		if e.State == EnemyDying {
			continue
		}
		if e.Shielded && frame >= e.ShieldUntil {
			e.Shielded = false
		}
		if e.State == EnemyStunned {
			if frame < e.StateUntil {
				continue
			}
			e.State = EnemyMoving
		}

		if g.Director == nil {
			continue
		}
		intent := g.Director.Decide(g, e)
		g.applyEnemyIntent(e, intent)
	}
}

// applyEnemyIntent 把 AI 意图落实到实体上（移动走碰撞规则）
func (g *Game) applyEnemyIntent(e *Enemy, intent EnemyIntent) {
	frame := g.CurrentFrame

	if intent.Teleport != nil {
		target := *intent.Teleport
		if g.Grid.IsWalkable(target.GridX, target.GridY, false) {
			x, y := GridToEntityXY(target.GridX, target.GridY)
			e.SetPosition(x, y)
			e.CooldownUntil = frame + EnemyAbilityCooldownFrames
		}
		return
	}

	if intent.RaiseShield && !e.Shielded {
		e.Shielded = true
		e.ShieldUntil = frame + EnemyShieldFrames
		e.CooldownUntil = frame + EnemyAbilityCooldownFrames
	}

	if intent.PlaceBomb && e.CanPlaceBombs {
		if g.enemyPlaceBomb(e) {
			e.CooldownUntil = frame + EnemyAbilityCooldownFrames
		}
	}

	if intent.Facing != DirNone {
		e.WanderDir = intent.Facing
	}

	if intent.MoveX == 0 && intent.MoveY == 0 {
		return
	}
	res := ResolveMove(g.Grid, g.Bombs, e.X, e.Y, e.Width, e.Height, intent.MoveX, intent.MoveY, e.Capabilities())
	blockedEverywhere := !res.MovedX && !res.MovedY
	e.SetPosition(res.X, res.Y)

	// 冲锋状态下撞上障碍进入硬直
	if e.State == EnemyAttacking && blockedEverywhere {
		e.State = EnemyStunned
		e.StateUntil = frame + ChargeStunFrames
		e.ChargeDir = DirNone
	}
}

// enemyPlaceBomb 爆破手放置炸弹（同一时间最多一颗）
func (g *Game) enemyPlaceBomb(e *Enemy) bool {
	if e.ActiveBombs >= 1 {
		return false
	}
	if g.Grid.TileAt(e.GridX, e.GridY) != TileEmpty {
		return false
	}
	if BombAt(g.Bombs, e.GridX, e.GridY) != nil {
		return false
	}

	bomb := NewBomb(g.nextID(), e.GridX, e.GridY, -e.ID, BombNormal, EnemyBombRange, g.CurrentFrame)
	g.Bombs = append(g.Bombs, bomb)
	e.ActiveBombs++
	g.emit(Event{Kind: EventBombPlaced, Frame: g.CurrentFrame, BombPlaced: &BombPlacedEvent{
		BombID: bomb.ID, PlayerID: -e.ID, GridX: bomb.GridX, GridY: bomb.GridY, BombType: bomb.Type,
	}})
	return true
}

// updatePlayers 玩家计时器
func (g *Game) updatePlayers() {
	for _, p := range g.Players {
		if p.Invincible && g.CurrentFrame >= p.InvincibleUntil {
			p.Invincible = false
		}
	}
}

// updateBoss 推进 Boss 状态机，清理过期的攻击区域
func (g *Game) updateBoss() {
	if g.Boss != nil {
		g.Boss.Update(g)
	}
	for i := len(g.Effects) - 1; i >= 0; i-- {
		if g.Effects[i].Expired(g.CurrentFrame) {
			g.Effects = append(g.Effects[:i], g.Effects[i+1:]...)
		}
	}
}

// PlayerPlaceBomb 玩家放置炸弹
// 达到上限、脚下格子非空、或格子上已有炸弹时静默失败（返回 nil）
func (g *Game) PlayerPlaceBomb(p *Player) *Bomb {
	if p == nil || !p.Alive {
		return nil
	}
	if p.ActiveBombs >= p.MaxBombs {
		return nil
	}
	if g.Grid.TileAt(p.GridX, p.GridY) != TileEmpty && g.Grid.TileAt(p.GridX, p.GridY) != TileSpawn {
		return nil
	}
	if BombAt(g.Bombs, p.GridX, p.GridY) != nil {
		return nil
	}

	bomb := NewBomb(g.nextID(), p.GridX, p.GridY, p.ID, p.BombType, p.FireRange, g.CurrentFrame)
	bomb.LineDir = p.Direction
	g.Bombs = append(g.Bombs, bomb)
	p.ActiveBombs++
	g.emit(Event{Kind: EventBombPlaced, Frame: g.CurrentFrame, BombPlaced: &BombPlacedEvent{
		BombID: bomb.ID, PlayerID: p.ID, GridX: bomb.GridX, GridY: bomb.GridY, BombType: bomb.Type,
	}})
	return bomb
}

// DetonateRemote 引爆玩家的全部遥控炸弹（显式玩家操作）
func (g *Game) DetonateRemote(playerID int) {
	for _, b := range g.Bombs {
		if b.OwnerID == playerID && b.Type == BombRemote && !b.Detonated {
			g.DetonateBomb(b)
		}
	}
}

// DetonateBomb 引爆炸弹（幂等：重复引爆是空操作）
func (g *Game) DetonateBomb(b *Bomb) {
	if b == nil || b.Detonated {
		return
	}
	b.Detonated = true
	frame := g.CurrentFrame

	blast := ComputeBlast(g.Grid, b, g.Bombs, frame, g.nextID)
	g.Explosions = append(g.Explosions, blast.Tiles...)

	// 炸毁砖块，翻出隐藏道具
	for _, cell := range blast.Destroyed {
		g.Grid.SetTile(cell.GridX, cell.GridY, TileEmpty)
		g.emit(Event{Kind: EventBlockDestroyed, Frame: frame, BlockDestroyed: &BlockDestroyedEvent{
			GridX: cell.GridX, GridY: cell.GridY,
		}})
		if hidden := g.Grid.TakeHiddenPowerUp(cell.GridX, cell.GridY); hidden != PowerUpNone {
			pu := &PowerUp{ID: g.nextID(), GridX: cell.GridX, GridY: cell.GridY, Type: hidden, Active: true}
			g.PowerUps = append(g.PowerUps, pu)
			g.emit(Event{Kind: EventPowerUpSpawned, Frame: frame, PowerUpSpawned: &PowerUpSpawnedEvent{
				PowerUpID: pu.ID, Type: pu.Type, GridX: pu.GridX, GridY: pu.GridY,
			}})
		}
	}

	// 被波及的炸弹延迟少许再引爆，让连锁在视觉上错开
	for _, other := range blast.Chained {
		g.scheduleAt(scheduledEvent{Frame: frame + ChainDelayFrames, Kind: scheduleDetonate, BombID: other.ID})
	}

	g.releaseOwnerSlot(b)

	g.emit(Event{Kind: EventBombExploded, Frame: frame, BombExploded: &BombExplodedEvent{
		BombID: b.ID, OwnerID: b.OwnerID, GridX: b.GridX, GridY: b.GridY,
		Tiles: len(blast.Tiles), Chained: len(blast.Chained),
	}})
}

// releaseOwnerSlot 归还所有者的炸弹名额；所有者可能已不存在，安全忽略
func (g *Game) releaseOwnerSlot(b *Bomb) {
	if b.OwnerID > 0 {
		if p := g.PlayerByID(b.OwnerID); p != nil && p.ActiveBombs > 0 {
			p.ActiveBombs--
		}
		return
	}
	if e := g.enemyByID(-b.OwnerID); e != nil && e.ActiveBombs > 0 {
		e.ActiveBombs--
	}
}

// checkCollisions 本帧全部碰撞判定
func (g *Game) checkCollisions() {
	frame := g.CurrentFrame

	// 敌人吃火焰
	for _, e := range g.Enemies {
		if e.State == EnemyDying || frame < e.HurtUntil {
			continue
		}
		if exp := ExplosionAt(g.Explosions, e.GridX, e.GridY); exp != nil {
			e.HurtUntil = frame + EnemyHurtFrames
			if e.TakeDamage(frame) {
				g.killEnemy(e, exp.OwnerID)
			}
		}
	}

	// Boss 吃火焰（只在破绽窗口有效）
	if g.Boss != nil && frame >= g.Boss.HurtUntil {
		for _, exp := range g.Explosions {
			ex := float64(exp.GridX * TileSize)
			ey := float64(exp.GridY * TileSize)
			if ex < g.Boss.X+float64(g.Boss.Width) && ex+TileSize > g.Boss.X &&
				ey < g.Boss.Y+float64(g.Boss.Height) && ey+TileSize > g.Boss.Y {
				g.Boss.HurtUntil = frame + EnemyHurtFrames
				g.Boss.TakeDamage(1, g)
				break
			}
		}
	}

	for _, p := range g.Players {
		if !p.Alive {
			continue
		}

		// 玩家吃火焰
		hit := false
		for _, cell := range coveredCells(p.X, p.Y, p.Width, p.Height) {
			if ExplosionAt(g.Explosions, cell.GridX, cell.GridY) != nil {
				hit = true
				break
			}
		}

		// 玩家撞敌人
		if !hit {
			for _, e := range g.Enemies {
				if e.State == EnemyDying {
					continue
				}
				if Overlaps(p.X, p.Y, p.Width, p.Height, e.X, e.Y, e.Width, e.Height) {
					hit = true
					break
				}
			}
		}

		// 玩家撞 Boss 本体或攻击区域
		if !hit && g.Boss != nil && !g.Boss.Defeated() {
			if Overlaps(p.X, p.Y, p.Width, p.Height, g.Boss.X, g.Boss.Y, g.Boss.Width, g.Boss.Height) {
				hit = true
			}
		}
		if !hit {
			px := p.X + float64(p.Width)/2
			py := p.Y + float64(p.Height)/2
			for _, eff := range g.Effects {
				if eff.Active(frame) && eff.ContainsPoint(px, py) {
					hit = true
					break
				}
			}
		}

		if hit {
			g.damagePlayer(p)
		}

		// 玩家吃道具
		for i := len(g.PowerUps) - 1; i >= 0; i-- {
			pu := g.PowerUps[i]
			if !pu.Active {
				continue
			}
			if OverlapsCell(p.X, p.Y, p.Width, p.Height, pu.GridX, pu.GridY) {
				pu.Active = false
				pu.Type.Apply(p)
				g.PowerUps = append(g.PowerUps[:i], g.PowerUps[i+1:]...)
				g.emit(Event{Kind: EventPowerUpCollected, Frame: frame, PowerUpCollected: &PowerUpCollectedEvent{
					PowerUpID: pu.ID, Type: pu.Type, PlayerID: p.ID,
				}})
			}
		}
	}
}

// damagePlayer 对玩家结算一次伤害并发布事件
func (g *Game) damagePlayer(p *Player) {
	if !p.TakeDamage(g.CurrentFrame) {
		return
	}
	frame := g.CurrentFrame

	g.emit(Event{Kind: EventPlayerDamaged, Frame: frame, PlayerDamaged: &PlayerDamagedEvent{
		PlayerID: p.ID, LivesLeft: p.Lives,
	}})
	if p.Alive {
		return
	}

	g.emit(Event{Kind: EventPlayerDied, Frame: frame, PlayerDied: &PlayerDiedEvent{PlayerID: p.ID}})

	// 全员阵亡则整局结束
	for _, other := range g.Players {
		if other.Alive {
			return
		}
	}
	g.Phase = PhaseGameOver
	g.emit(Event{Kind: EventGameOver, Frame: frame, GameOver: &GameOverEvent{
		Reason: "全员阵亡",
		Score:  g.totalScore(),
	}})
}

// killEnemy 击杀结算：算分、分裂怪分裂
func (g *Game) killEnemy(e *Enemy, ownerID int) {
	frame := g.CurrentFrame
	byPlayer := 0
	if ownerID > 0 {
		if p := g.PlayerByID(ownerID); p != nil {
			p.Score += e.Points
			p.Kills++
			byPlayer = p.ID
		}
	}

	g.emit(Event{Kind: EventEnemyKilled, Frame: frame, EnemyKilled: &EnemyKilledEvent{
		EnemyID: e.ID, Kind: e.Kind, ByPlayer: byPlayer, Points: e.Points,
	}})

	if e.Kind != EnemySplitter {
		return
	}

	// 分裂怪：在相邻空格生成两个更快、分值更低的游荡怪
	cells := make([]GridPos, 0, 2)
	for _, dir := range CardinalDirections {
		if len(cells) >= 2 {
			break
		}
		dx, dy := dir.Delta()
		nx, ny := e.GridX+dx, e.GridY+dy
		if g.Grid.TileAt(nx, ny) == TileEmpty && BombAt(g.Bombs, nx, ny) == nil {
			cells = append(cells, GridPos{GridX: nx, GridY: ny})
		}
	}
	if len(cells) == 0 {
		return
	}
	// 只有一个空格时两个子体挤在同一格
	if len(cells) == 1 {
		cells = append(cells, cells[0])
	}
	g.scheduleAt(scheduledEvent{
		Frame:      frame + SplitDelayFrames,
		Kind:       scheduleSplit,
		SplitKind:  EnemyWanderer,
		SplitCells: cells,
		SplitSpeed: e.Speed * SplitChildSpeedFactor,
		SplitPts:   e.Points / 2,
	})
}

// checkLevelComplete 过关判定：敌人清空且 Boss 不在场或已被击败
func (g *Game) checkLevelComplete() {
	if g.Phase != PhasePlaying {
		return
	}
	for _, e := range g.Enemies {
		if e.State != EnemyDying {
			return
		}
	}
	if g.Boss != nil && !g.Boss.Defeated() {
		return
	}

	if g.Mode == ModeSurvival {
		g.startNextWave()
		return
	}

	// 过关：保存玩家属性（强化只在死亡时丢失，过关保留）
	for _, p := range g.Players {
		g.savedStats[p.ID] = p.SaveStats()
	}
	g.Phase = PhaseVictory
	g.emit(Event{Kind: EventLevelComplete, Frame: g.CurrentFrame, LevelComplete: &LevelCompleteEvent{
		LevelID:       g.LevelID,
		Score:         g.totalScore(),
		ElapsedFrames: g.CurrentFrame - g.levelStart,
	}})
}

// startNextWave 生存模式：生成下一波更多的敌人
func (g *Game) startNextWave() {
	g.Wave++
	count := 0
	for _, spawn := range g.survivalBase {
		n := spawn.Count
		if n <= 0 {
			n = 1
		}
		// 每三波多生成一只
		n += g.Wave / 3
		for i := 0; i < n; i++ {
			g.spawnEnemy(spawn.Kind, spawn.GridX, spawn.GridY)
			count++
		}
	}
	g.emit(Event{Kind: EventWaveStarted, Frame: g.CurrentFrame, WaveStarted: &WaveStartedEvent{
		Wave: g.Wave, Enemies: count,
	}})
}

// totalScore 所有玩家得分之和
func (g *Game) totalScore() int {
	total := 0
	for _, p := range g.Players {
		total += p.Score
	}
	return total
}

// PlayerByID 根据 ID 查找玩家
func (g *Game) PlayerByID(id int) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) enemyByID(id int) *Enemy {
	for _, e := range g.Enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (g *Game) bombByID(id int) *Bomb {
	for _, b := range g.Bombs {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// RNG 引擎内部的随机源（决策层与引擎共用同一个种子宇宙）
func (g *Game) RNG() *rand.Rand {
	return g.rng
}
