package core

// 快照是某一帧游戏状态的只读值拷贝，用于联机下发和录像
// 字段带 json 标签，直接作为协议负载序列化

// PlayerView 玩家视图
type PlayerView struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Direction   int      `json:"direction"`
	Lives       int      `json:"lives"`
	Speed       float64  `json:"speed"`
	MaxBombs    int      `json:"maxBombs"`
	FireRange   int      `json:"fireRange"`
	BombType    BombType `json:"bombType"`
	Score       int      `json:"score"`
	Alive       bool     `json:"alive"`
	Invincible  bool     `json:"invincible"`
	ActiveBombs int      `json:"activeBombs"`
}

// BombView 炸弹视图
type BombView struct {
	ID      int      `json:"id"`
	GridX   int      `json:"gridX"`
	GridY   int      `json:"gridY"`
	Type    BombType `json:"type"`
	Range   int      `json:"range"`
	OwnerID int      `json:"ownerId"`
}

// ExplosionView 火焰格视图
type ExplosionView struct {
	GridX int  `json:"gridX"`
	GridY int  `json:"gridY"`
	Dir   int  `json:"dir"`
	IsEnd bool `json:"isEnd"`
}

// EnemyView 敌人视图
type EnemyView struct {
	ID       int     `json:"id"`
	Kind     int     `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Health   int     `json:"health"`
	State    int     `json:"state"`
	Shielded bool    `json:"shielded"`
}

// PowerUpView 道具视图
type PowerUpView struct {
	ID    int         `json:"id"`
	Type  PowerUpType `json:"type"`
	GridX int         `json:"gridX"`
	GridY int         `json:"gridY"`
}

// BossView Boss 视图
type BossView struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Health     int     `json:"health"`
	MaxHealth  int     `json:"maxHealth"`
	Phase      int     `json:"phase"`
	State      int     `json:"state"`
	Vulnerable bool    `json:"vulnerable"`
}

// GameSnapshot 整局状态快照
type GameSnapshot struct {
	Frame      int32           `json:"frame"`
	Phase      int             `json:"phase"`
	LevelID    string          `json:"levelId"`
	Wave       int             `json:"wave,omitempty"`
	Grid       [][]int         `json:"grid"`
	Players    []PlayerView    `json:"players"`
	Bombs      []BombView      `json:"bombs"`
	Explosions []ExplosionView `json:"explosions"`
	Enemies    []EnemyView     `json:"enemies"`
	PowerUps   []PowerUpView   `json:"powerUps"`
	Boss       *BossView       `json:"boss,omitempty"`
}

// Snapshot 生成当前帧的状态快照
func (g *Game) Snapshot() GameSnapshot {
	snap := GameSnapshot{
		Frame:   g.CurrentFrame,
		Phase:   int(g.Phase),
		LevelID: g.LevelID,
		Wave:    g.Wave,
	}
	if g.Grid != nil {
		snap.Grid = g.Grid.ToInts()
	}
	for _, p := range g.Players {
		snap.Players = append(snap.Players, PlayerView{
			ID: p.ID, Name: p.Name, X: p.X, Y: p.Y,
			Direction: int(p.Direction), Lives: p.Lives, Speed: p.Speed,
			MaxBombs: p.MaxBombs, FireRange: p.FireRange, BombType: p.BombType,
			Score: p.Score, Alive: p.Alive, Invincible: p.Invincible,
			ActiveBombs: p.ActiveBombs,
		})
	}
	for _, b := range g.Bombs {
		snap.Bombs = append(snap.Bombs, BombView{
			ID: b.ID, GridX: b.GridX, GridY: b.GridY,
			Type: b.Type, Range: b.Range, OwnerID: b.OwnerID,
		})
	}
	for _, e := range g.Explosions {
		snap.Explosions = append(snap.Explosions, ExplosionView{
			GridX: e.GridX, GridY: e.GridY, Dir: int(e.Dir), IsEnd: e.IsEnd,
		})
	}
	for _, e := range g.Enemies {
		snap.Enemies = append(snap.Enemies, EnemyView{
			ID: e.ID, Kind: int(e.Kind), X: e.X, Y: e.Y,
			Health: e.Health, State: int(e.State), Shielded: e.Shielded,
		})
	}
	for _, pu := range g.PowerUps {
		snap.PowerUps = append(snap.PowerUps, PowerUpView{
			ID: pu.ID, Type: pu.Type, GridX: pu.GridX, GridY: pu.GridY,
		})
	}
	if g.Boss != nil {
		snap.Boss = &BossView{
			ID: g.Boss.ID, Name: g.Boss.Name, X: g.Boss.X, Y: g.Boss.Y,
			Health: g.Boss.Health, MaxHealth: g.Boss.MaxHealth,
			Phase: g.Boss.Phase, State: int(g.Boss.State), Vulnerable: g.Boss.Vulnerable,
		}
	}
	return snap
}
