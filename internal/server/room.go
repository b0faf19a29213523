package server

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"bombquest/internal/level"
	"bombquest/pkg/core"
	"bombquest/pkg/protocol"
)

const (
	ServerTPS    = 60
	TickDuration = time.Second / ServerTPS

	MinRoomCapacity = 2
	MaxRoomCapacity = 4

	// 结算后回到等待状态的延迟
	roomResetDelay = 5 * time.Second

	// 单条移动消息允许的最大位移（含网络抖动余量）
	maxMoveDelta = core.MaxPlayerSpeed * 8
)

// roomState 房间状态
type roomState int

const (
	roomWaiting roomState = iota
	roomRunning
	roomEnding
)

func (s roomState) String() string {
	switch s {
	case roomWaiting:
		return "waiting"
	case roomRunning:
		return "running"
	case roomEnding:
		return "ending"
	}
	return "unknown"
}

// roomPlayer 房间内一名玩家的权威记录
type roomPlayer struct {
	id    int
	name  string
	ready bool

	x, y      float64
	direction int
	lives     int
	score     int

	speed     float64
	maxBombs  int
	fireRange int
	bombType  core.BombType
	active    int // 在场炸弹数
}

// Room 一个对局房间，单协程持有全部状态
// 服务端是炸弹、爆炸、地图与道具的唯一权威；移动经校验后转发；
// 击杀/死亡/过关由客户端上报（PvE 由客户端模拟，服务端仲裁转发）
type Room struct {
	ctx    context.Context
	cancel context.CancelFunc

	id       string
	name     string
	capacity int
	mode     protocol.RoomMode
	levelID  string
	password string

	state   roomState
	hostID  int
	resetAt time.Time

	sessions map[int]Session
	players  map[int]*roomPlayer

	frame    int32
	grid     *core.Grid
	bombs    map[int]*core.Bomb
	powerUps map[int]core.PowerUpType
	nextID   int
	rng      *rand.Rand

	joinCh    chan joinRequest
	actionCh  chan action
	leaveCh   chan int
	queryCh   chan chan protocol.RoomSnapshot
	replaceCh chan replaceRequest
}

type joinRequest struct {
	session Session
	name    string
	passwd  string
	respCh  chan joinResult
}

type joinResult struct {
	playerID int
	token    string
	snapshot protocol.RoomSnapshot
	err      error
}

type action struct {
	playerID int
	packet   *protocol.Packet
}

type replaceRequest struct {
	playerID int
	session  Session
	respCh   chan error
}

// NewRoom 创建房间
func NewRoom(parent context.Context, id string, req protocol.CreateRoomRequest) *Room {
	ctx, cancel := context.WithCancel(parent)

	capacity := req.Capacity
	if capacity < MinRoomCapacity {
		capacity = MinRoomCapacity
	}
	if capacity > MaxRoomCapacity {
		capacity = MaxRoomCapacity
	}
	mode := req.Mode
	if mode == "" {
		mode = protocol.RoomModeCoop
	}

	return &Room{
		ctx:      ctx,
		cancel:   cancel,
		id:       id,
		name:     req.Name,
		capacity: capacity,
		mode:     mode,
		levelID:  req.LevelID,
		password: req.Password,
		state:    roomWaiting,
		sessions: make(map[int]Session),
		players:  make(map[int]*roomPlayer),
		bombs:    make(map[int]*core.Bomb),
		powerUps: make(map[int]core.PowerUpType),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		joinCh:    make(chan joinRequest),
		actionCh:  make(chan action, 256),
		leaveCh:   make(chan int, 64),
		queryCh:   make(chan chan protocol.RoomSnapshot),
		replaceCh: make(chan replaceRequest),
	}
}

// Run 房间主循环，所有状态变更都发生在这个协程上
func (r *Room) Run(wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	log.Printf("房间 %s 循环启动: %d TPS", r.id, ServerTPS)

	for {
		select {
		case <-r.ctx.Done():
			r.closeAllSessions()
			log.Printf("房间 %s 循环停止", r.id)
			return

		case req := <-r.joinCh:
			r.handleJoin(req)

		case act := <-r.actionCh:
			r.handleAction(act)

		case playerID := <-r.leaveCh:
			r.handleLeave(playerID)

		case respCh := <-r.queryCh:
			respCh <- r.snapshot()

		case req := <-r.replaceCh:
			req.respCh <- r.handleReplace(req.playerID, req.session)

		case <-ticker.C:
			r.tick()
		}
	}
}

// Shutdown 关闭房间
func (r *Room) Shutdown() {
	r.cancel()
}

// Join 请求加入房间（跨协程，同步等待结果）
func (r *Room) Join(session Session, name, passwd string) (joinResult, error) {
	respCh := make(chan joinResult, 1)
	select {
	case <-r.ctx.Done():
		return joinResult{}, fmt.Errorf("房间已关闭")
	case r.joinCh <- joinRequest{session: session, name: name, passwd: passwd, respCh: respCh}:
	}
	select {
	case <-r.ctx.Done():
		return joinResult{}, fmt.Errorf("房间已关闭")
	case res := <-respCh:
		return res, res.err
	}
}

// Dispatch 把玩家消息投递到房间循环
func (r *Room) Dispatch(playerID int, packet *protocol.Packet) {
	select {
	case <-r.ctx.Done():
	case r.actionCh <- action{playerID: playerID, packet: packet}:
	}
}

// Leave 玩家离开
func (r *Room) Leave(playerID int) {
	select {
	case <-r.ctx.Done():
	case r.leaveCh <- playerID:
	}
}

// Snapshot 读取房间快照（跨协程，经房间循环串行化）
func (r *Room) Snapshot() (protocol.RoomSnapshot, error) {
	respCh := make(chan protocol.RoomSnapshot, 1)
	select {
	case <-r.ctx.Done():
		return protocol.RoomSnapshot{}, fmt.Errorf("房间已关闭")
	case r.queryCh <- respCh:
	}
	select {
	case <-r.ctx.Done():
		return protocol.RoomSnapshot{}, fmt.Errorf("房间已关闭")
	case snap := <-respCh:
		return snap, nil
	}
}

// ReplaceSession 重连换线（跨协程，经房间循环串行化）
func (r *Room) ReplaceSession(playerID int, session Session) error {
	respCh := make(chan error, 1)
	select {
	case <-r.ctx.Done():
		return fmt.Errorf("房间已关闭")
	case r.replaceCh <- replaceRequest{playerID: playerID, session: session, respCh: respCh}:
	}
	select {
	case <-r.ctx.Done():
		return fmt.Errorf("房间已关闭")
	case err := <-respCh:
		return err
	}
}

// ---- 加入 / 离开 ----

func (r *Room) handleJoin(req joinRequest) {
	if r.state != roomWaiting {
		req.respCh <- joinResult{err: newRoomError(protocol.ErrCodeInProgress, "游戏进行中，无法加入")}
		return
	}
	if len(r.players) >= r.capacity {
		req.respCh <- joinResult{err: newRoomError(protocol.ErrCodeRoomFull, fmt.Sprintf("房间已满 (%d/%d)", len(r.players), r.capacity))}
		return
	}
	if r.password != "" && req.passwd != r.password {
		req.respCh <- joinResult{err: newRoomError(protocol.ErrCodeBadPassword, "房间密码错误")}
		return
	}

	r.nextID++
	playerID := r.nextID
	rp := &roomPlayer{
		id:        playerID,
		name:      req.name,
		lives:     core.PlayerDefaultLives,
		speed:     core.PlayerDefaultSpeed,
		maxBombs:  core.PlayerDefaultMaxBombs,
		fireRange: core.PlayerDefaultFireRange,
		bombType:  core.BombNormal,
	}
	r.players[playerID] = rp
	r.sessions[playerID] = req.session
	req.session.SetIdentity(playerID, r.id)

	if r.hostID == 0 {
		r.hostID = playerID
	}

	token, err := GenerateSessionToken(playerID, r.id, req.name)
	if err != nil {
		log.Printf("房间 %s: 生成会话令牌失败: %v", r.id, err)
	}

	r.broadcastExcept(playerID, protocol.MustPacket(protocol.MsgPlayerJoined, protocol.PlayerJoinedNotice{
		Player: r.playerInfo(rp),
	}))

	log.Printf("房间 %s: 玩家 %d(%s) 加入，当前 %d/%d", r.id, playerID, req.name, len(r.players), r.capacity)
	req.respCh <- joinResult{playerID: playerID, token: token, snapshot: r.snapshot()}
}

func (r *Room) handleLeave(playerID int) {
	if _, ok := r.players[playerID]; !ok {
		return
	}
	delete(r.players, playerID)
	delete(r.sessions, playerID)

	log.Printf("房间 %s: 玩家 %d 离开，剩余 %d 人", r.id, playerID, len(r.players))

	r.broadcast(protocol.MustPacket(protocol.MsgPlayerLeft, protocol.PlayerLeftNotice{PlayerID: playerID}))

	// 房主迁移：房主离开时从剩余玩家里任选一个
	if playerID == r.hostID {
		r.hostID = 0
		for id := range r.players {
			r.hostID = id
			break
		}
		if r.hostID != 0 {
			r.broadcast(protocol.MustPacket(protocol.MsgHostChanged, protocol.HostChangedNotice{HostID: r.hostID}))
			log.Printf("房间 %s: 房主迁移到玩家 %d", r.id, r.hostID)
		}
	}

	if len(r.players) == 0 && r.state == roomRunning {
		r.endGame("全部玩家离开", 0)
	}
}

// handleReplace 重连：换上新的会话，旧会话静默关闭
func (r *Room) handleReplace(playerID int, session Session) error {
	if _, ok := r.players[playerID]; !ok {
		return fmt.Errorf("玩家 %d 不在房间 %s 中", playerID, r.id)
	}
	if old, ok := r.sessions[playerID]; ok && old != session {
		old.CloseWithoutNotify()
	}
	r.sessions[playerID] = session
	session.SetIdentity(playerID, r.id)
	log.Printf("房间 %s: 玩家 %d 重连", r.id, playerID)
	return nil
}

// ---- 消息分发 ----

func (r *Room) handleAction(act action) {
	rp, ok := r.players[act.playerID]
	if !ok {
		return
	}
	p := act.packet

	switch p.Type {
	case protocol.MsgSetReady:
		var req protocol.SetReadyRequest
		if p.Bind(&req) != nil {
			return
		}
		r.handleSetReady(rp, req.Ready)

	case protocol.MsgStartGame:
		r.handleStartGame(rp)

	case protocol.MsgMove:
		var req protocol.MoveRequest
		if p.Bind(&req) != nil {
			return
		}
		r.handleMove(rp, req)

	case protocol.MsgPlaceBomb:
		var req protocol.PlaceBombRequest
		if p.Bind(&req) != nil {
			return
		}
		r.handlePlaceBomb(rp, req)

	case protocol.MsgDetonateBomb:
		var req protocol.DetonateBombRequest
		if p.Bind(&req) != nil {
			return
		}
		r.handleDetonate(rp, req.BombID)

	case protocol.MsgCollectItem:
		var req protocol.CollectPowerUpRequest
		if p.Bind(&req) != nil {
			return
		}
		r.handleCollect(rp, req.PowerUpID)

	case protocol.MsgReportDeath:
		r.handleReportDeath(rp)

	case protocol.MsgReportKill:
		var req protocol.ReportEnemyKillRequest
		if p.Bind(&req) != nil {
			return
		}
		rp.score += req.Points
		r.broadcast(protocol.MustPacket(protocol.MsgEnemyDied, protocol.EnemyDiedNotice{
			EnemyID: req.EnemyID, ByPlayer: rp.id, Points: req.Points,
		}))

	case protocol.MsgReportClear:
		var req protocol.ReportLevelCompleteRequest
		if p.Bind(&req) != nil {
			return
		}
		r.handleLevelComplete(rp, req)

	case protocol.MsgChat:
		var req protocol.ChatRequest
		if p.Bind(&req) != nil || req.Text == "" {
			return
		}
		r.broadcast(protocol.MustPacket(protocol.MsgChatBroadcast, protocol.ChatNotice{
			PlayerID: rp.id, Name: rp.name, Text: req.Text, Time: time.Now().UnixMilli(),
		}))

	case protocol.MsgLeaveRoom:
		r.handleLeave(rp.id)
	}
}

// ---- 大厅阶段 ----

func (r *Room) handleSetReady(rp *roomPlayer, ready bool) {
	if r.state != roomWaiting {
		return
	}
	rp.ready = ready
	r.broadcast(protocol.MustPacket(protocol.MsgReadyChanged, protocol.ReadyChangedNotice{
		PlayerID: rp.id, Ready: ready,
	}))
}

// handleStartGame 开局：只有房主能发起，且所有非房主玩家必须已准备
func (r *Room) handleStartGame(rp *roomPlayer) {
	if r.state != roomWaiting {
		return
	}
	if rp.id != r.hostID {
		r.sendTo(rp.id, protocol.NewError(protocol.ErrCodeNotHost, "只有房主可以开始游戏"))
		return
	}
	for _, other := range r.players {
		if other.id != r.hostID && !other.ready {
			r.sendTo(rp.id, protocol.NewError(protocol.ErrCodeNotReady, fmt.Sprintf("玩家 %s 尚未准备", other.name)))
			return
		}
	}

	if err := r.startGame(); err != nil {
		log.Printf("房间 %s: 开局失败: %v", r.id, err)
		r.sendTo(rp.id, protocol.NewError(protocol.ErrCodeBadRequest, err.Error()))
	}
}

func (r *Room) startGame() error {
	ld, err := level.Load(r.levelID)
	if err != nil {
		return fmt.Errorf("加载关卡失败: %w", err)
	}
	grid, err := core.NewGrid(ld, r.rng)
	if err != nil {
		return fmt.Errorf("构建地图失败: %w", err)
	}
	r.grid = grid
	r.bombs = make(map[int]*core.Bomb)
	r.powerUps = make(map[int]core.PowerUpType)
	r.frame = 0

	// 按加入顺序分配角落出生点
	corners := core.SpawnCorners()
	idx := 0
	infos := make([]protocol.RoomPlayerInfo, 0, len(r.players))
	for _, rp := range r.sortedPlayers() {
		corner := corners[idx%len(corners)]
		rp.x, rp.y = core.GridToEntityXY(corner.GridX, corner.GridY)
		rp.lives = core.PlayerDefaultLives
		rp.active = 0
		idx++
		infos = append(infos, r.playerInfo(rp))
	}

	r.state = roomRunning
	r.broadcast(protocol.MustPacket(protocol.MsgGameStarted, protocol.GameStartedNotice{
		Grid:      grid.ToInts(),
		Players:   infos,
		LevelID:   r.levelID,
		StartTime: time.Now().UnixMilli(),
	}))
	log.Printf("房间 %s: 游戏开始，关卡 %s，玩家 %d 人", r.id, r.levelID, len(r.players))
	return nil
}

// ---- 对局阶段 ----

func (r *Room) tick() {
	now := time.Now()
	if r.state == roomEnding && !r.resetAt.IsZero() && now.After(r.resetAt) {
		r.resetToLobby()
		return
	}
	if r.state != roomRunning {
		return
	}

	r.frame++

	// 引信到期的炸弹引爆；遥控炸弹(ExplodeAtFrame==0)只等显式指令或连锁
	for id, b := range r.bombs {
		if b.Detonated {
			delete(r.bombs, id)
			continue
		}
		if b.ExplodeAtFrame != 0 && r.frame >= b.ExplodeAtFrame {
			r.explodeBomb(b)
		}
	}
}

// handleMove 校验并转发移动；越界或单条位移过大的消息直接丢弃
func (r *Room) handleMove(rp *roomPlayer, req protocol.MoveRequest) {
	if r.state != roomRunning {
		return
	}
	if req.X < 0 || req.Y < 0 ||
		req.X > float64((core.MapWidth-1)*core.TileSize) ||
		req.Y > float64((core.MapHeight-1)*core.TileSize) {
		return
	}
	dx := req.X - rp.x
	dy := req.Y - rp.y
	if dx > maxMoveDelta || dx < -maxMoveDelta || dy > maxMoveDelta || dy < -maxMoveDelta {
		return
	}

	rp.x, rp.y = req.X, req.Y
	rp.direction = req.Direction
	r.broadcastExcept(rp.id, protocol.MustPacket(protocol.MsgPlayerMoved, protocol.PlayerMovedNotice{
		PlayerID: rp.id, X: req.X, Y: req.Y, Direction: req.Direction,
	}))
}

// handlePlaceBomb 服务端权威放置炸弹
func (r *Room) handlePlaceBomb(rp *roomPlayer, req protocol.PlaceBombRequest) {
	if r.state != roomRunning || r.grid == nil {
		return
	}
	if rp.active >= rp.maxBombs {
		return
	}
	if r.grid.TileAt(req.GridX, req.GridY) != core.TileEmpty && r.grid.TileAt(req.GridX, req.GridY) != core.TileSpawn {
		return
	}
	if r.bombAt(req.GridX, req.GridY) != nil {
		return
	}
	bombType := core.BombType(req.BombType)
	if bombType != rp.bombType {
		// 客户端申报的炸弹类型以服务端记录为准
		bombType = rp.bombType
	}

	r.nextID++
	bomb := core.NewBomb(r.nextID, req.GridX, req.GridY, rp.id, bombType, rp.fireRange, r.frame)
	bomb.LineDir = core.Direction(rp.direction)
	r.bombs[bomb.ID] = bomb
	rp.active++

	r.broadcast(protocol.MustPacket(protocol.MsgBombPlaced, protocol.BombPlacedNotice{
		BombID: bomb.ID, PlayerID: rp.id, GridX: bomb.GridX, GridY: bomb.GridY, BombType: int(bomb.Type),
	}))
}

// handleDetonate 遥控引爆：只能引爆自己的遥控炸弹
func (r *Room) handleDetonate(rp *roomPlayer, bombID int) {
	if r.state != roomRunning {
		return
	}
	b, ok := r.bombs[bombID]
	if !ok || b.Detonated {
		return
	}
	if b.OwnerID != rp.id || b.Type != core.BombRemote {
		return
	}
	r.explodeBomb(b)
}

// explodeBomb 服务端权威爆炸结算，连锁炸弹改写引信为短延迟
func (r *Room) explodeBomb(b *core.Bomb) {
	if b.Detonated {
		return
	}
	b.Detonated = true
	delete(r.bombs, b.ID)

	bombs := make([]*core.Bomb, 0, len(r.bombs)+1)
	bombs = append(bombs, b)
	for _, other := range r.bombs {
		bombs = append(bombs, other)
	}
	blast := core.ComputeBlast(r.grid, b, bombs, r.frame, func() int {
		r.nextID++
		return r.nextID
	})

	notice := protocol.BombExplodedNotice{BombID: b.ID}
	for _, tile := range blast.Tiles {
		notice.Tiles = append(notice.Tiles, protocol.BlastTile{GridX: tile.GridX, GridY: tile.GridY})
	}
	for _, cell := range blast.Destroyed {
		r.grid.SetTile(cell.GridX, cell.GridY, core.TileEmpty)
		notice.Deltas = append(notice.Deltas, protocol.GridDelta{
			GridX: cell.GridX, GridY: cell.GridY, Tile: int(core.TileEmpty),
		})
		if hidden := r.grid.TakeHiddenPowerUp(cell.GridX, cell.GridY); hidden != core.PowerUpNone {
			r.nextID++
			r.powerUps[r.nextID] = hidden
			notice.PowerUps = append(notice.PowerUps, protocol.PowerUpDrop{
				ID: r.nextID, Type: int(hidden), GridX: cell.GridX, GridY: cell.GridY,
			})
		}
	}

	// 被波及的炸弹错开少许帧引爆
	for _, other := range blast.Chained {
		if other.ExplodeAtFrame == 0 || other.ExplodeAtFrame > r.frame+core.ChainDelayFrames {
			other.ExplodeAtFrame = r.frame + core.ChainDelayFrames
		}
	}

	if rp, ok := r.players[b.OwnerID]; ok && rp.active > 0 {
		rp.active--
	}

	r.broadcast(protocol.MustPacket(protocol.MsgBombExploded, notice))
}

// handleCollect 道具拾取仲裁：先到先得，再次上报同一道具是空操作
func (r *Room) handleCollect(rp *roomPlayer, powerUpID int) {
	if r.state != roomRunning {
		return
	}
	puType, ok := r.powerUps[powerUpID]
	if !ok {
		return
	}
	delete(r.powerUps, powerUpID)

	stats := core.Player{
		Speed:     rp.speed,
		MaxBombs:  rp.maxBombs,
		FireRange: rp.fireRange,
		BombType:  rp.bombType,
	}
	puType.Apply(&stats)
	rp.speed = stats.Speed
	rp.maxBombs = stats.MaxBombs
	rp.fireRange = stats.FireRange
	rp.bombType = stats.BombType

	r.broadcast(protocol.MustPacket(protocol.MsgItemCollected, protocol.PowerUpCollectedNotice{
		PlayerID: rp.id, PowerUpID: powerUpID, Type: int(puType),
		Speed: rp.speed, MaxBombs: rp.maxBombs, FireRange: rp.fireRange, BombType: int(rp.bombType),
	}))
}

// handleReportDeath 客户端上报受击：扣一条命并广播，归零时广播死亡
func (r *Room) handleReportDeath(rp *roomPlayer) {
	if r.state != roomRunning || rp.lives <= 0 {
		return
	}
	rp.lives--
	r.broadcast(protocol.MustPacket(protocol.MsgPlayerHit, protocol.PlayerHitNotice{
		PlayerID: rp.id, LivesLeft: rp.lives,
	}))
	if rp.lives > 0 {
		return
	}
	r.broadcast(protocol.MustPacket(protocol.MsgPlayerDied, protocol.PlayerDiedNotice{PlayerID: rp.id}))

	r.checkGameOver()
}

func (r *Room) checkGameOver() {
	alive := 0
	lastAlive := 0
	for _, rp := range r.players {
		if rp.lives > 0 {
			alive++
			lastAlive = rp.id
		}
	}

	if r.mode == protocol.RoomModeVersus {
		// 对战：只剩一人存活即分出胜负
		if alive <= 1 && len(r.players) > 1 {
			r.endGame("决出胜者", lastAlive)
		}
		return
	}
	// 合作：全员阵亡才结束
	if alive == 0 {
		r.endGame("全员阵亡", 0)
	}
}

func (r *Room) handleLevelComplete(rp *roomPlayer, req protocol.ReportLevelCompleteRequest) {
	if r.state != roomRunning {
		return
	}
	rp.score += req.Score
	r.broadcast(protocol.MustPacket(protocol.MsgLevelCleared, protocol.LevelCompletedNotice{
		LevelID: r.levelID, Score: req.Score, ElapsedFrames: req.ElapsedFrames,
	}))

	// 合作模式继续闯下一关，打完最后一关或对战模式直接结算
	if r.mode == protocol.RoomModeCoop {
		if next, err := level.Next(r.levelID); err == nil && next != "" {
			r.levelID = next
			if err := r.startGame(); err != nil {
				log.Printf("房间 %s: 进入下一关失败: %v", r.id, err)
				r.endGame("通关", 0)
			}
			return
		}
	}
	r.endGame("通关", 0)
}

func (r *Room) endGame(reason string, winner int) {
	if r.state == roomEnding {
		return
	}
	r.state = roomEnding
	r.resetAt = time.Now().Add(roomResetDelay)
	log.Printf("房间 %s: 对局结束（%s），胜者 %d", r.id, reason, winner)
	r.broadcast(protocol.MustPacket(protocol.MsgGameOver, protocol.GameOverNotice{
		Reason: reason, Winner: winner,
	}))
}

// resetToLobby 结算结束，回到等待状态（保留玩家，清空准备标记）
func (r *Room) resetToLobby() {
	r.state = roomWaiting
	r.resetAt = time.Time{}
	r.grid = nil
	r.bombs = make(map[int]*core.Bomb)
	r.powerUps = make(map[int]core.PowerUpType)
	r.frame = 0
	for _, rp := range r.players {
		rp.ready = false
		rp.lives = core.PlayerDefaultLives
		rp.speed = core.PlayerDefaultSpeed
		rp.maxBombs = core.PlayerDefaultMaxBombs
		rp.fireRange = core.PlayerDefaultFireRange
		rp.bombType = core.BombNormal
		rp.active = 0
	}
	log.Printf("房间 %s: 回到等待状态", r.id)
}

// ---- 辅助 ----

func (r *Room) bombAt(gridX, gridY int) *core.Bomb {
	for _, b := range r.bombs {
		if b.GridX == gridX && b.GridY == gridY && !b.Detonated {
			return b
		}
	}
	return nil
}

func (r *Room) playerInfo(rp *roomPlayer) protocol.RoomPlayerInfo {
	return protocol.RoomPlayerInfo{
		ID: rp.id, Name: rp.name, Ready: rp.ready, Host: rp.id == r.hostID,
	}
}

// sortedPlayers 按加入顺序（ID 升序）返回玩家
func (r *Room) sortedPlayers() []*roomPlayer {
	out := make([]*roomPlayer, 0, len(r.players))
	for id := 1; id <= r.nextID; id++ {
		if rp, ok := r.players[id]; ok {
			out = append(out, rp)
		}
	}
	return out
}

func (r *Room) snapshot() protocol.RoomSnapshot {
	snap := protocol.RoomSnapshot{
		ID:       r.id,
		Name:     r.name,
		Capacity: r.capacity,
		Mode:     r.mode,
		LevelID:  r.levelID,
		State:    r.state.String(),
		Private:  r.password != "",
	}
	for _, rp := range r.sortedPlayers() {
		snap.Players = append(snap.Players, r.playerInfo(rp))
	}
	return snap
}

func (r *Room) sendTo(playerID int, p *protocol.Packet) {
	if s, ok := r.sessions[playerID]; ok {
		if err := s.Send(p); err != nil {
			log.Printf("房间 %s: 发送给玩家 %d 失败: %v", r.id, playerID, err)
		}
	}
}

func (r *Room) broadcast(p *protocol.Packet) {
	for id := range r.sessions {
		r.sendTo(id, p)
	}
}

func (r *Room) broadcastExcept(playerID int, p *protocol.Packet) {
	for id := range r.sessions {
		if id != playerID {
			r.sendTo(id, p)
		}
	}
}

func (r *Room) closeAllSessions() {
	for _, s := range r.sessions {
		s.CloseWithoutNotify()
	}
}

// roomError 带错误码的加入失败原因
type roomError struct {
	Code    string
	Message string
}

func (e roomError) Error() string { return e.Message }

func newRoomError(code, message string) error {
	return roomError{Code: code, Message: message}
}
