package core

// EventKind 游戏事件种类
type EventKind int

const (
	EventNone EventKind = iota
	EventBombPlaced
	EventBombExploded
	EventBlockDestroyed
	EventPowerUpSpawned
	EventPowerUpCollected
	EventEnemyKilled
	EventPlayerDamaged
	EventPlayerDied
	EventBossAttack
	EventBossDamaged
	EventBossDefeated
	EventWaveStarted
	EventLevelComplete
	EventGameOver
)

// String 返回事件种类的字符串表示
func (k EventKind) String() string {
	switch k {
	case EventBombPlaced:
		return "bomb_placed"
	case EventBombExploded:
		return "bomb_exploded"
	case EventBlockDestroyed:
		return "block_destroyed"
	case EventPowerUpSpawned:
		return "powerup_spawned"
	case EventPowerUpCollected:
		return "powerup_collected"
	case EventEnemyKilled:
		return "enemy_killed"
	case EventPlayerDamaged:
		return "player_damaged"
	case EventPlayerDied:
		return "player_died"
	case EventBossAttack:
		return "boss_attack"
	case EventBossDamaged:
		return "boss_damaged"
	case EventBossDefeated:
		return "boss_defeated"
	case EventWaveStarted:
		return "wave_started"
	case EventLevelComplete:
		return "level_complete"
	case EventGameOver:
		return "game_over"
	}
	return "none"
}

type BombPlacedEvent struct {
	BombID   int
	PlayerID int
	GridX    int
	GridY    int
	BombType BombType
}

type BombExplodedEvent struct {
	BombID  int
	OwnerID int
	GridX   int
	GridY   int
	Tiles   int // 火焰格数量
	Chained int // 被连锁的炸弹数量
}

type BlockDestroyedEvent struct {
	GridX int
	GridY int
}

type PowerUpSpawnedEvent struct {
	PowerUpID int
	Type      PowerUpType
	GridX     int
	GridY     int
}

type PowerUpCollectedEvent struct {
	PowerUpID int
	Type      PowerUpType
	PlayerID  int
}

type EnemyKilledEvent struct {
	EnemyID  int
	Kind     EnemyKind
	ByPlayer int // 击杀者玩家 ID，环境击杀为 0
	Points   int
}

type PlayerDamagedEvent struct {
	PlayerID  int
	LivesLeft int
}

type PlayerDiedEvent struct {
	PlayerID int
}

type BossAttackEvent struct {
	BossID  int
	Pattern string
	Kind    AttackKind
}

type BossDamagedEvent struct {
	BossID int
	Damage int
	Health int
	Phase  int
}

type BossDefeatedEvent struct {
	BossID int
	Name   string
	Points int
}

type WaveStartedEvent struct {
	Wave    int
	Enemies int
}

type LevelCompleteEvent struct {
	LevelID       string
	Score         int
	ElapsedFrames int32
}

type GameOverEvent struct {
	Reason string
	Score  int
}

// Event 引擎对外发布的游戏事件（带标签联合负载）
// 每帧结束后由消费方通过 DrainEvents 一次性取走
type Event struct {
	Kind  EventKind
	Frame int32

	BombPlaced       *BombPlacedEvent
	BombExploded     *BombExplodedEvent
	BlockDestroyed   *BlockDestroyedEvent
	PowerUpSpawned   *PowerUpSpawnedEvent
	PowerUpCollected *PowerUpCollectedEvent
	EnemyKilled      *EnemyKilledEvent
	PlayerDamaged    *PlayerDamagedEvent
	PlayerDied       *PlayerDiedEvent
	BossAttack       *BossAttackEvent
	BossDamaged      *BossDamagedEvent
	BossDefeated     *BossDefeatedEvent
	WaveStarted      *WaveStartedEvent
	LevelComplete    *LevelCompleteEvent
	GameOver         *GameOverEvent
}
