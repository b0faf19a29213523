package core

// BossState Boss 状态机状态
type BossState int

const (
	BossIntro      BossState = iota // 开场台词
	BossIdle                        // 待机，攻击冷却倒计时
	BossAttacking                   // 执行攻击模式
	BossVulnerable                  // 可受伤窗口
	BossTransition                  // 阶段转换硬直
	BossDying                       // 死亡动画
	BossDefeated                    // 已击败（终态）
)

// String 返回 Boss 状态的字符串表示
func (s BossState) String() string {
	switch s {
	case BossIntro:
		return "开场"
	case BossIdle:
		return "待机"
	case BossAttacking:
		return "攻击"
	case BossVulnerable:
		return "破绽"
	case BossTransition:
		return "阶段转换"
	case BossDying:
		return "倒下"
	case BossDefeated:
		return "已击败"
	}
	return "未知"
}

// Boss 状态机时间参数（帧）
const (
	bossDialogueFrames   = 90  // 每句台词停留时间
	bossAttackCooldown   = 150 // 待机到下次攻击的冷却
	bossVulnerableFrames = 120 // 破绽窗口
	bossTransitionFrames = 90  // 阶段转换硬直
	bossDyingFrames      = 120 // 死亡动画
	bossContactDamageGap = 60  // 接触伤害的最小间隔（配合玩家无敌窗口）
)

// Boss 关卡 Boss（占 2x2 格的大型实体）
type Boss struct {
	ID     int
	Name   string
	X, Y   float64
	Width  int
	Height int
	GridX  int
	GridY  int

	Health    int
	MaxHealth int
	Phase     int // 当前阶段，从 1 开始
	MaxPhases int

	State      BossState
	StateUntil int32

	Patterns       []AttackPattern
	CurrentPattern *AttackPattern

	Vulnerable      bool
	VulnerableUntil int32
	HurtUntil       int32 // 受击免疫窗口结束帧号

	Dialogue       []string
	DialogueCursor int

	Points int
}

// NewBoss 根据关卡描述创建 Boss
func NewBoss(id int, desc *BossDescriptor) *Boss {
	x := float64(desc.GridX * TileSize)
	y := float64(desc.GridY * TileSize)
	b := &Boss{
		ID:        id,
		Name:      desc.Name,
		X:         x,
		Y:         y,
		Width:     TileSize * 2,
		Height:    TileSize * 2,
		GridX:     desc.GridX,
		GridY:     desc.GridY,
		Health:    desc.Health,
		MaxHealth: desc.Health,
		Phase:     1,
		MaxPhases: desc.Phases,
		State:     BossIntro,
		Patterns:  defaultBossPatterns(),
		Dialogue:  append([]string(nil), desc.Dialogue...),
		Points:    5000,
	}
	if len(b.Dialogue) == 0 {
		// 没有台词就跳过开场
		b.State = BossIdle
	}
	return b
}

// Defeated Boss 是否已被击败
func (b *Boss) Defeated() bool {
	return b.State == BossDefeated
}

// Update 每帧推进 Boss 状态机
func (b *Boss) Update(g *Game) {
	frame := g.CurrentFrame

	switch b.State {
	case BossIntro:
		if b.StateUntil == 0 {
			b.StateUntil = frame + bossDialogueFrames
		}
		if frame < b.StateUntil {
			return
		}
		b.DialogueCursor++
		if b.DialogueCursor >= len(b.Dialogue) {
			b.enterIdle(frame)
			return
		}
		b.StateUntil = frame + bossDialogueFrames

	case BossIdle:
		if frame < b.StateUntil {
			return
		}
		// 从当前阶段已解锁的模式中随机选择一个
		unlocked := b.unlockedPatterns()
		if len(unlocked) == 0 {
			b.enterIdle(frame)
			return
		}
		pattern := unlocked[g.rng.Intn(len(unlocked))]
		b.CurrentPattern = &pattern
		b.State = BossAttacking

	case BossAttacking:
		// 攻击效果一次性生成，随后立刻进入破绽窗口
		b.executePattern(g)
		b.State = BossVulnerable
		b.Vulnerable = true
		b.VulnerableUntil = frame + b.vulnerableDuration()
		b.StateUntil = b.VulnerableUntil

	case BossVulnerable:
		if frame < b.StateUntil {
			return
		}
		b.Vulnerable = false
		b.enterIdle(frame)

	case BossTransition:
		if frame < b.StateUntil {
			return
		}
		b.enterIdle(frame)

	case BossDying:
		if frame < b.StateUntil {
			return
		}
		b.State = BossDefeated
		g.emit(Event{Kind: EventBossDefeated, Frame: frame, BossDefeated: &BossDefeatedEvent{
			BossID: b.ID,
			Name:   b.Name,
			Points: b.Points,
		}})

	case BossDefeated:
		// 终态
	}
}

func (b *Boss) enterIdle(frame int32) {
	b.State = BossIdle
	b.CurrentPattern = nil
	b.StateUntil = frame + b.attackCooldown()
}

// attackCooldown 阶段越高出手越快
func (b *Boss) attackCooldown() int32 {
	cd := int32(bossAttackCooldown) - int32(b.Phase-1)*30
	if cd < 60 {
		cd = 60
	}
	return cd
}

// vulnerableDuration 阶段越高破绽越短
func (b *Boss) vulnerableDuration() int32 {
	d := int32(bossVulnerableFrames) - int32(b.Phase-1)*20
	if d < 60 {
		d = 60
	}
	return d
}

// unlockedPatterns 阶段 N 解锁前 N+1 个攻击模式
func (b *Boss) unlockedPatterns() []AttackPattern {
	n := b.Phase + 1
	if n > len(b.Patterns) {
		n = len(b.Patterns)
	}
	return b.Patterns[:n]
}

// TakeDamage 对 Boss 施加伤害
// 只有破绽窗口内的伤害有效，其余时间是无害的空操作
func (b *Boss) TakeDamage(amount int, g *Game) {
	if !b.Vulnerable || b.State != BossVulnerable {
		return
	}
	if amount <= 0 {
		return
	}

	b.Health -= amount
	frame := g.CurrentFrame
	g.emit(Event{Kind: EventBossDamaged, Frame: frame, BossDamaged: &BossDamagedEvent{
		BossID: b.ID,
		Damage: amount,
		Health: b.Health,
		Phase:  b.Phase,
	}})

	if b.Health <= 0 {
		b.Health = 0
		b.Vulnerable = false
		b.State = BossDying
		b.StateUntil = frame + bossDyingFrames
		return
	}

	// 血量跌破阶段阈值时进入阶段转换
	if b.Phase < b.MaxPhases && b.Health < b.phaseThreshold() {
		b.Phase++
		b.Vulnerable = false
		b.State = BossTransition
		b.StateUntil = frame + bossTransitionFrames
	}
}

// phaseThreshold 当前阶段的血量阈值：(1 - phase/maxPhases) * maxHealth
func (b *Boss) phaseThreshold() int {
	return b.MaxHealth * (b.MaxPhases - b.Phase) / b.MaxPhases
}

// CenterPos Boss 中心点像素坐标
func (b *Boss) CenterPos() (float64, float64) {
	return b.X + float64(b.Width)/2, b.Y + float64(b.Height)/2
}
