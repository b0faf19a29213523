package core

import "math"

// AttackKind 攻击模式种类
type AttackKind int

const (
	AttackSlam          AttackKind = iota // 震地猛击：以 Boss 为中心的圆形区域
	AttackProjectile                      // 弹幕直线：朝最近玩家的一条直线
	AttackRing                            // 扩散环：大半径环形冲击
	AttackDelayedStrike                   // 延迟轰击：标记玩家位置，延迟后落下
	AttackSummon                          // 召唤小怪
	AttackClones                          // 分身诱饵（纯视觉，交给表现层）
	AttackBreath                          // 吐息：朝向玩家的扇形
)

// String 返回攻击模式种类的字符串表示
func (k AttackKind) String() string {
	switch k {
	case AttackSlam:
		return "震地猛击"
	case AttackProjectile:
		return "弹幕直线"
	case AttackRing:
		return "扩散环"
	case AttackDelayedStrike:
		return "延迟轰击"
	case AttackSummon:
		return "召唤"
	case AttackClones:
		return "分身"
	case AttackBreath:
		return "吐息"
	}
	return "未知"
}

// AttackPattern 数据描述的攻击模式
type AttackPattern struct {
	Kind        AttackKind
	Name        string
	Radius      float64 // 作用半径（像素）
	Range       int     // 直线/扇形的格子射程
	Damage      int
	Duration    int32 // 伤害区域持续帧数
	Delay       int32 // 生效前的预警延迟帧数（延迟轰击用）
	MinionKind  EnemyKind
	MinionCount int
}

// defaultBossPatterns Boss 攻击模式库，按阶段解锁顺序排列
func defaultBossPatterns() []AttackPattern {
	return []AttackPattern{
		{Kind: AttackSlam, Name: "震地猛击", Radius: TileSize * 2.5, Damage: 1, Duration: 30},
		{Kind: AttackProjectile, Name: "弹幕直线", Radius: TileSize * 0.6, Range: 6, Damage: 1, Duration: 40},
		{Kind: AttackDelayedStrike, Name: "延迟轰击", Radius: TileSize * 1.5, Damage: 1, Duration: 30, Delay: 45},
		{Kind: AttackRing, Name: "扩散环", Radius: TileSize * 4, Damage: 1, Duration: 24},
		{Kind: AttackSummon, Name: "召唤", MinionKind: EnemyWanderer, MinionCount: 2},
		{Kind: AttackClones, Name: "分身", Duration: 60},
		{Kind: AttackBreath, Name: "吐息", Radius: TileSize * 1.2, Range: 4, Damage: 1, Duration: 36},
	}
}

// AttackEffect 攻击产生的伤害区域（短暂存在，引擎据此做碰撞）
type AttackEffect struct {
	ID             int
	X, Y           float64 // 中心点
	Radius         float64
	Damage         int
	ActiveAtFrame  int32 // 开始造成伤害的帧号（延迟攻击晚于创建）
	ExpiresAtFrame int32
	Kind           AttackKind
}

// Active 区域当前是否在伤害判定窗口内
func (a *AttackEffect) Active(currentFrame int32) bool {
	return currentFrame >= a.ActiveAtFrame && currentFrame < a.ExpiresAtFrame
}

// Expired 区域是否可以移除
func (a *AttackEffect) Expired(currentFrame int32) bool {
	return currentFrame >= a.ExpiresAtFrame
}

// ContainsPoint 点是否落在区域内
func (a *AttackEffect) ContainsPoint(x, y float64) bool {
	dx := x - a.X
	dy := y - a.Y
	return dx*dx+dy*dy <= a.Radius*a.Radius
}

// executePattern 执行当前攻击模式，一次性生成全部伤害区域/小怪
func (b *Boss) executePattern(g *Game) {
	p := b.CurrentPattern
	if p == nil {
		return
	}
	frame := g.CurrentFrame
	cx, cy := b.CenterPos()

	switch p.Kind {
	case AttackSlam:
		g.addEffect(&AttackEffect{
			X: cx, Y: cy, Radius: p.Radius, Damage: p.Damage, Kind: p.Kind,
			ActiveAtFrame: frame, ExpiresAtFrame: frame + p.Duration,
		})

	case AttackRing:
		g.addEffect(&AttackEffect{
			X: cx, Y: cy, Radius: p.Radius, Damage: p.Damage, Kind: p.Kind,
			ActiveAtFrame: frame, ExpiresAtFrame: frame + p.Duration,
		})

	case AttackProjectile:
		// 朝最近玩家的方向逐格铺设弹幕
		dirX, dirY := b.directionToNearestPlayer(g)
		for i := 1; i <= p.Range; i++ {
			g.addEffect(&AttackEffect{
				X:      cx + dirX*float64(i*TileSize),
				Y:      cy + dirY*float64(i*TileSize),
				Radius: p.Radius, Damage: p.Damage, Kind: p.Kind,
				ActiveAtFrame:  frame + int32(i*3), // 弹幕逐格推进
				ExpiresAtFrame: frame + int32(i*3) + p.Duration,
			})
		}

	case AttackDelayedStrike:
		// 标记每个存活玩家当前的位置，延迟后落下
		for _, pl := range g.Players {
			if !pl.Alive {
				continue
			}
			g.addEffect(&AttackEffect{
				X: pl.X + float64(pl.Width)/2, Y: pl.Y + float64(pl.Height)/2,
				Radius: p.Radius, Damage: p.Damage, Kind: p.Kind,
				ActiveAtFrame: frame + p.Delay, ExpiresAtFrame: frame + p.Delay + p.Duration,
			})
		}

	case AttackSummon:
		b.summonMinions(g, p)

	case AttackClones:
		// 分身只是视觉诱饵，交给表现层处理，核心层不产生伤害区域

	case AttackBreath:
		// 朝向玩家铺设的扇形，用一串渐宽的圆近似
		dirX, dirY := b.directionToNearestPlayer(g)
		for i := 1; i <= p.Range; i++ {
			g.addEffect(&AttackEffect{
				X:      cx + dirX*float64(i*TileSize),
				Y:      cy + dirY*float64(i*TileSize),
				Radius: p.Radius * (1 + float64(i)*0.3),
				Damage: p.Damage, Kind: p.Kind,
				ActiveAtFrame: frame, ExpiresAtFrame: frame + p.Duration,
			})
		}
	}

	g.emit(Event{Kind: EventBossAttack, Frame: frame, BossAttack: &BossAttackEvent{
		BossID:  b.ID,
		Pattern: p.Name,
		Kind:    p.Kind,
	}})
}

// directionToNearestPlayer 指向最近存活玩家的单位向量
func (b *Boss) directionToNearestPlayer(g *Game) (float64, float64) {
	cx, cy := b.CenterPos()
	var best *Player
	bestDist := math.MaxFloat64
	for _, p := range g.Players {
		if !p.Alive {
			continue
		}
		dx := p.X - cx
		dy := p.Y - cy
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = p
		}
	}
	if best == nil {
		return 0, 1
	}
	dx := best.X + float64(best.Width)/2 - cx
	dy := best.Y + float64(best.Height)/2 - cy
	length := math.Hypot(dx, dy)
	if length == 0 {
		return 0, 1
	}
	return dx / length, dy / length
}

// summonMinions 在 Boss 周围的空格召唤小怪
func (b *Boss) summonMinions(g *Game, p *AttackPattern) {
	spawned := 0
	for _, dir := range CardinalDirections {
		if spawned >= p.MinionCount {
			break
		}
		dx, dy := dir.Delta()
		gx := b.GridX + dx*2
		gy := b.GridY + dy*2
		if g.Grid.TileAt(gx, gy) != TileEmpty {
			continue
		}
		g.spawnEnemy(p.MinionKind, gx, gy)
		spawned++
	}
}
