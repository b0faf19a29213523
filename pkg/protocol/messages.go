package protocol

import "encoding/json"

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端
const (
	MsgCreateRoom    MessageType = "create_room"
	MsgJoinRoom      MessageType = "join_room"
	MsgLeaveRoom     MessageType = "leave_room"
	MsgListRooms     MessageType = "list_rooms"
	MsgSetReady      MessageType = "set_ready"
	MsgStartGame     MessageType = "start_game"
	MsgMove          MessageType = "move"
	MsgPlaceBomb     MessageType = "place_bomb"
	MsgDetonateBomb  MessageType = "detonate_bomb"
	MsgCollectItem   MessageType = "collect_powerup"
	MsgReportDeath   MessageType = "report_death"
	MsgReportKill    MessageType = "report_enemy_kill"
	MsgReportClear   MessageType = "report_level_complete"
	MsgChat          MessageType = "chat"
	MsgPing          MessageType = "ping"
	MsgReconnect     MessageType = "reconnect"
)

// 服务端 → 客户端
const (
	MsgRoomCreated   MessageType = "room_created"
	MsgRoomJoined    MessageType = "room_joined"
	MsgRoomList      MessageType = "room_list"
	MsgPlayerJoined  MessageType = "player_joined"
	MsgPlayerLeft    MessageType = "player_left"
	MsgReadyChanged  MessageType = "player_ready_changed"
	MsgHostChanged   MessageType = "host_changed"
	MsgGameStarted   MessageType = "game_started"
	MsgPlayerMoved   MessageType = "player_moved"
	MsgBombPlaced    MessageType = "bomb_placed"
	MsgBombExploded  MessageType = "bomb_exploded"
	MsgPlayerHit     MessageType = "player_hit"
	MsgPlayerDied    MessageType = "player_died"
	MsgItemCollected MessageType = "powerup_collected"
	MsgEnemyDied     MessageType = "enemy_died"
	MsgLevelCleared  MessageType = "level_completed"
	MsgGameOver      MessageType = "game_over"
	MsgChatBroadcast MessageType = "chat_message"
	MsgPong          MessageType = "pong"
	MsgError         MessageType = "error"
)

// Packet 线上传输的消息信封
// 流式传输（tcp/kcp）外层再加 4 字节大端长度前缀，websocket 用自带分帧
type Packet struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RoomMode 房间玩法
type RoomMode string

const (
	RoomModeCoop   RoomMode = "coop"
	RoomModeVersus RoomMode = "versus"
)

// ---- 客户端 → 服务端负载 ----

type CreateRoomRequest struct {
	Name       string   `json:"name"`
	PlayerName string   `json:"playerName"`
	Capacity   int      `json:"capacity"`
	Mode       RoomMode `json:"mode"`
	LevelID    string   `json:"levelId"`
	Password   string   `json:"password,omitempty"`
}

type JoinRoomRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	Password   string `json:"password,omitempty"`
}

type ListRoomsRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type SetReadyRequest struct {
	Ready bool `json:"ready"`
}

type MoveRequest struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction int     `json:"direction"`
}

type PlaceBombRequest struct {
	GridX    int `json:"gridX"`
	GridY    int `json:"gridY"`
	BombType int `json:"bombType"`
}

type DetonateBombRequest struct {
	BombID int `json:"bombId"`
}

type CollectPowerUpRequest struct {
	PowerUpID int `json:"powerUpId"`
	Type      int `json:"powerUpType"`
}

type ReportEnemyKillRequest struct {
	EnemyID int `json:"enemyId"`
	Points  int `json:"points"`
}

type ReportLevelCompleteRequest struct {
	Score         int   `json:"score"`
	ElapsedFrames int32 `json:"elapsedFrames"`
}

type ChatRequest struct {
	Text string `json:"text"`
}

type PingRequest struct {
	ClientTime int64 `json:"clientTime"`
}

type ReconnectRequest struct {
	SessionToken string `json:"sessionToken"`
}

// ---- 服务端 → 客户端负载 ----

// RoomPlayerInfo 房间内玩家信息
type RoomPlayerInfo struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
	Host  bool   `json:"host"`
}

// RoomSnapshot 房间完整状态
type RoomSnapshot struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Capacity int              `json:"capacity"`
	Mode     RoomMode         `json:"mode"`
	LevelID  string           `json:"levelId"`
	State    string           `json:"state"`
	Private  bool             `json:"private"`
	Players  []RoomPlayerInfo `json:"players"`
}

type RoomJoinedResponse struct {
	Room         RoomSnapshot `json:"room"`
	YourID       int          `json:"yourId"`
	SessionToken string       `json:"sessionToken"`
}

type RoomListResponse struct {
	Rooms []RoomSnapshot `json:"rooms"`
	Total int            `json:"total"`
}

type PlayerJoinedNotice struct {
	Player RoomPlayerInfo `json:"player"`
}

type PlayerLeftNotice struct {
	PlayerID int `json:"playerId"`
}

type ReadyChangedNotice struct {
	PlayerID int  `json:"playerId"`
	Ready    bool `json:"ready"`
}

type HostChangedNotice struct {
	HostID int `json:"hostId"`
}

type GameStartedNotice struct {
	Grid      [][]int          `json:"grid"`
	Players   []RoomPlayerInfo `json:"players"`
	LevelID   string           `json:"levelId"`
	StartTime int64            `json:"startTime"`
}

type PlayerMovedNotice struct {
	PlayerID  int     `json:"playerId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction int     `json:"direction"`
}

type BombPlacedNotice struct {
	BombID   int `json:"bombId"`
	PlayerID int `json:"playerId"`
	GridX    int `json:"gridX"`
	GridY    int `json:"gridY"`
	BombType int `json:"bombType"`
}

// GridDelta 单个格子变更
type GridDelta struct {
	GridX int `json:"gridX"`
	GridY int `json:"gridY"`
	Tile  int `json:"tile"`
}

// BlastTile 火焰格
type BlastTile struct {
	GridX int `json:"gridX"`
	GridY int `json:"gridY"`
}

// PowerUpDrop 砖块炸开后翻出的道具
type PowerUpDrop struct {
	ID    int `json:"id"`
	Type  int `json:"powerUpType"`
	GridX int `json:"gridX"`
	GridY int `json:"gridY"`
}

type BombExplodedNotice struct {
	BombID   int           `json:"bombId"`
	Tiles    []BlastTile   `json:"tiles"`
	Deltas   []GridDelta   `json:"deltas"`
	PowerUps []PowerUpDrop `json:"powerUps,omitempty"`
}

type PlayerHitNotice struct {
	PlayerID  int `json:"playerId"`
	LivesLeft int `json:"livesLeft"`
}

type PlayerDiedNotice struct {
	PlayerID int `json:"playerId"`
}

type PowerUpCollectedNotice struct {
	PlayerID  int     `json:"playerId"`
	PowerUpID int     `json:"powerUpId"`
	Type      int     `json:"powerUpType"`
	Speed     float64 `json:"speed"`
	MaxBombs  int     `json:"maxBombs"`
	FireRange int     `json:"fireRange"`
	BombType  int     `json:"bombType"`
}

type EnemyDiedNotice struct {
	EnemyID  int `json:"enemyId"`
	ByPlayer int `json:"byPlayer"`
	Points   int `json:"points"`
}

type LevelCompletedNotice struct {
	LevelID       string `json:"levelId"`
	Score         int    `json:"score"`
	ElapsedFrames int32  `json:"elapsedFrames"`
}

type GameOverNotice struct {
	Reason string `json:"reason"`
	Winner int    `json:"winner,omitempty"`
}

type ChatNotice struct {
	PlayerID int    `json:"playerId"`
	Name     string `json:"name"`
	Text     string `json:"text"`
	Time     int64  `json:"time"`
}

type PongResponse struct {
	ClientTime int64 `json:"clientTime"`
	ServerTime int64 `json:"serverTime"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// 错误码
const (
	ErrCodeRoomNotFound  = "room_not_found"
	ErrCodeRoomFull      = "room_full"
	ErrCodeInProgress    = "game_in_progress"
	ErrCodeBadPassword   = "password_mismatch"
	ErrCodeNotHost       = "not_host"
	ErrCodeNotReady      = "players_not_ready"
	ErrCodeBadRequest    = "bad_request"
	ErrCodeInvalidToken  = "invalid_token"
	ErrCodeAlreadyInRoom = "already_in_room"
)
