package core

// EnemyKind 敌人种类
type EnemyKind int

const (
	EnemyWanderer   EnemyKind = iota // 游荡怪：随机方向移动
	EnemyChaser                      // 追击怪：之字形快速逼近玩家
	EnemyGhost                       // 幽灵：穿过砖块直线逼近
	EnemyBomber                      // 爆破手：近身放炸弹后撤退
	EnemyCharger                     // 冲锋怪：直线视野内锁定冲锋
	EnemyTeleporter                  // 闪现怪：被近身时瞬移走
	EnemyShielder                    // 护盾怪：被火焰威胁时开盾
	EnemySplitter                    // 分裂怪：死亡时分裂成两个游荡怪
)

// String 返回敌人种类的字符串表示
func (k EnemyKind) String() string {
	switch k {
	case EnemyWanderer:
		return "游荡怪"
	case EnemyChaser:
		return "追击怪"
	case EnemyGhost:
		return "幽灵"
	case EnemyBomber:
		return "爆破手"
	case EnemyCharger:
		return "冲锋怪"
	case EnemyTeleporter:
		return "闪现怪"
	case EnemyShielder:
		return "护盾怪"
	case EnemySplitter:
		return "分裂怪"
	}
	return "未知"
}

// EnemyState 敌人行为状态
type EnemyState int

const (
	EnemyIdle      EnemyState = iota // 待机
	EnemyMoving                      // 移动中
	EnemyAttacking                   // 攻击中（冲锋怪的冲刺）
	EnemyStunned                     // 硬直
	EnemyDying                       // 死亡动画
)

// enemyKindStats 每种敌人的出厂属性
type enemyKindStats struct {
	Health     int
	Speed      float64 // 像素/帧
	Points     int
	PassBlocks bool
	PlaceBombs bool
}

var enemyKindTable = map[EnemyKind]enemyKindStats{
	EnemyWanderer:   {Health: 1, Speed: 1.0, Points: 100},
	EnemyChaser:     {Health: 1, Speed: 1.6, Points: 200},
	EnemyGhost:      {Health: 1, Speed: 0.8, Points: 300, PassBlocks: true},
	EnemyBomber:     {Health: 2, Speed: 1.2, Points: 400, PlaceBombs: true},
	EnemyCharger:    {Health: 2, Speed: 1.0, Points: 300},
	EnemyTeleporter: {Health: 1, Speed: 1.0, Points: 350},
	EnemyShielder:   {Health: 2, Speed: 1.0, Points: 400},
	EnemySplitter:   {Health: 1, Speed: 1.2, Points: 250},
}

// Enemy 敌人实体
type Enemy struct {
	ID     int
	Kind   EnemyKind
	X, Y   float64
	Width  int
	Height int
	GridX  int
	GridY  int

	Health int
	Speed  float64
	Points int

	State      EnemyState
	StateUntil int32 // 当前状态结束帧号（硬直/死亡动画）

	CanPassBlocks bool
	CanPlaceBombs bool
	ActiveBombs   int

	Shielded      bool
	ShieldUntil   int32
	CooldownUntil int32 // 特殊能力冷却结束帧号
	HurtUntil     int32 // 受击后的火焰免疫窗口结束帧号

	// 行为记忆（由 AI 决策层读写）
	WanderDir   Direction
	WanderUntil int32
	ChargeDir   Direction
	EvadeTarget *GridPos
}

// NewEnemy 在指定格子创建敌人
func NewEnemy(id int, kind EnemyKind, gridX, gridY int) *Enemy {
	stats := enemyKindTable[kind]
	x, y := GridToEntityXY(gridX, gridY)
	e := &Enemy{
		ID:            id,
		Kind:          kind,
		X:             x,
		Y:             y,
		Width:         EntityWidth,
		Height:        EntityHeight,
		Health:        stats.Health,
		Speed:         stats.Speed,
		Points:        stats.Points,
		State:         EnemyMoving,
		CanPassBlocks: stats.PassBlocks,
		CanPlaceBombs: stats.PlaceBombs,
	}
	e.syncGridPos()
	return e
}

// SetPosition 设置像素位置并同步格子坐标
func (e *Enemy) SetPosition(x, y float64) {
	e.X = x
	e.Y = y
	e.syncGridPos()
}

func (e *Enemy) syncGridPos() {
	pos := EntityXYToGrid(e.X, e.Y)
	e.GridX = pos.GridX
	e.GridY = pos.GridY
}

// GridPos 敌人所在格子
func (e *Enemy) GridPos() GridPos {
	return GridPos{GridX: e.GridX, GridY: e.GridY}
}

// Capabilities 敌人的通行能力
func (e *Enemy) Capabilities() Capabilities {
	return Capabilities{PassBlocks: e.CanPassBlocks}
}

// Alive 敌人是否还在战斗（死亡动画中不算）
func (e *Enemy) Alive() bool {
	return e.State != EnemyDying
}

// TakeDamage 敌人受到一次爆炸伤害
// 开盾期间免疫；血量归零进入死亡动画
// 返回是否被击杀
func (e *Enemy) TakeDamage(currentFrame int32) bool {
	if e.State == EnemyDying {
		return false
	}
	if e.Shielded && currentFrame < e.ShieldUntil {
		return false
	}

	e.Health--
	if e.Health > 0 {
		return false
	}
	e.State = EnemyDying
	e.StateUntil = currentFrame + EnemyDyingFrames
	return true
}

// EnemyIntent AI 决策层每帧给出的行动意图
type EnemyIntent struct {
	MoveX, MoveY float64  // 本帧位移（像素）
	Facing       Direction
	PlaceBomb    bool
	Teleport     *GridPos
	RaiseShield  bool
}

// EnemyController 敌人决策接口
// 由 pkg/ai 实现；引擎每帧对每个存活敌人调用一次
// 显式构造并注入，一局一个实例，避免进程级共享状态
type EnemyController interface {
	Decide(g *Game, e *Enemy) EnemyIntent
}
