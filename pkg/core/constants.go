package core

// 地图配置
const (
	TileSize  = 32
	MapWidth  = 15
	MapHeight = 13
)

// 游戏帧率
const (
	TPS            = 60
	FixedDeltaTime = 1.0 / TPS
)

// 实体碰撞盒
const (
	EntityWidth  = TileSize - 6 // 碰撞盒宽度（留3像素边距）
	EntityHeight = TileSize - 6 // 碰撞盒高度
	HitboxMargin = 1            // 碰撞检测内边距

	CornerCorrectionTolerance = 4.0 // 拐角修正容错（像素）
	SoftAlignFactor           = 0.6 // 软对齐比例（相对本帧移动距离）
)

// 玩家配置
const (
	PlayerDefaultLives     = 3
	PlayerDefaultSpeed     = 2.0 // 像素/帧
	PlayerDefaultMaxBombs  = 1
	PlayerDefaultFireRange = 2
	InvincibleFrames       = 120 // 受伤后的无敌时间（2秒）
)

// 炸弹配置（帧）
const (
	BombFuseFrames   = 180 // 引信 3 秒
	ExplosionFrames  = 30  // 火焰持续 500 毫秒
	ChainDelayFrames = 6   // 连锁爆炸延迟 100 毫秒
)

// 道具配置
const (
	PowerUpChance  = 0.3 // 砖块藏道具的概率（建图时一次性决定）
	SpeedUpBonus   = 0.5 // 每个加速道具增加的速度（像素/帧）
	MaxPlayerSpeed = 4.0
	MaxPlayerBombs = 8
	MaxPlayerRange = 8
)

// 敌人配置
const (
	EnemyDyingFrames      = 30  // 死亡动画时间
	ChargeStunFrames      = 60  // 冲锋撞墙后的硬直
	SplitDelayFrames      = 6   // 分裂体死亡后生成子体的延迟
	SplitChildSpeedFactor = 1.3 // 子体速度倍率
)

// 寻路配置
const (
	PathfindMaxIterations = 512 // A* 迭代上限，超出返回空路径
)
