package server

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"bombquest/pkg/protocol"
)

const (
	MaxRooms = 100 // 最大房间数

	cleanupInterval = 30 * time.Second
)

// RoomManager 管理进程内的全部房间
// 房间之间完全隔离，互不共享状态
type RoomManager struct {
	ctx       context.Context
	rooms     map[string]*Room
	roomMutex sync.RWMutex
	nextRoom  int
	wg        sync.WaitGroup
	shutdown  chan struct{}
}

// NewRoomManager 创建房间管理器
func NewRoomManager(ctx context.Context) *RoomManager {
	return &RoomManager{
		ctx:      ctx,
		rooms:    make(map[string]*Room),
		shutdown: make(chan struct{}),
	}
}

// Run 启动后台清理协程
func (m *RoomManager) Run() {
	m.wg.Add(1)
	go m.cleanupLoop()
}

// cleanupLoop 定期清理空房间
func (m *RoomManager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-m.shutdown:
			return
		case <-ticker.C:
			m.cleanupEmptyRooms()
		}
	}
}

func (m *RoomManager) cleanupEmptyRooms() {
	m.roomMutex.Lock()
	defer m.roomMutex.Unlock()

	for roomID, room := range m.rooms {
		snap, err := room.Snapshot()
		if err != nil {
			delete(m.rooms, roomID)
			continue
		}
		if len(snap.Players) == 0 && snap.State != roomRunning.String() {
			log.Printf("清理空房间: %s", roomID)
			room.Shutdown()
			delete(m.rooms, roomID)
		}
	}
}

// CreateRoom 创建房间并让创建者加入（创建者成为房主）
func (m *RoomManager) CreateRoom(session Session, req protocol.CreateRoomRequest) (joinResult, error) {
	m.roomMutex.Lock()
	if len(m.rooms) >= MaxRooms {
		m.roomMutex.Unlock()
		return joinResult{}, newRoomError(protocol.ErrCodeBadRequest, "房间数已达上限")
	}
	m.nextRoom++
	roomID := fmt.Sprintf("room-%d-%d", time.Now().Unix(), m.nextRoom)
	room := NewRoom(m.ctx, roomID, req)
	m.rooms[roomID] = room
	m.wg.Add(1)
	go room.Run(&m.wg)
	m.roomMutex.Unlock()

	log.Printf("创建房间 %s（%s，容量 %d，关卡 %s）", roomID, req.Mode, room.capacity, req.LevelID)
	return room.Join(session, req.PlayerName, req.Password)
}

// JoinRoom 玩家加入已有房间
func (m *RoomManager) JoinRoom(session Session, req protocol.JoinRoomRequest) (joinResult, error) {
	room, ok := m.getRoom(req.RoomID)
	if !ok {
		return joinResult{}, newRoomError(protocol.ErrCodeRoomNotFound, fmt.Sprintf("房间 %s 不存在", req.RoomID))
	}
	return room.Join(session, req.PlayerName, req.Password)
}

// ListRooms 分页列出房间
func (m *RoomManager) ListRooms(page, pageSize int) protocol.RoomListResponse {
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 20
	}
	if page < 0 {
		page = 0
	}

	m.roomMutex.RLock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	m.roomMutex.RUnlock()

	resp := protocol.RoomListResponse{Total: len(ids)}
	start := page * pageSize
	for i := start; i < len(ids) && i < start+pageSize; i++ {
		room, ok := m.getRoom(ids[i])
		if !ok {
			continue
		}
		if snap, err := room.Snapshot(); err == nil {
			resp.Rooms = append(resp.Rooms, snap)
		}
	}
	return resp
}

// Dispatch 把已入房玩家的消息投递到对应房间
func (m *RoomManager) Dispatch(roomID string, playerID int, packet *protocol.Packet) {
	room, ok := m.getRoom(roomID)
	if !ok {
		log.Printf("警告: 房间 %s 不存在，玩家 %d 的消息被丢弃", roomID, playerID)
		return
	}
	room.Dispatch(playerID, packet)
}

// Leave 玩家离开房间
func (m *RoomManager) Leave(roomID string, playerID int) {
	room, ok := m.getRoom(roomID)
	if !ok {
		return
	}
	room.Leave(playerID)
}

// Reconnect 凭会话令牌重连，把新会话接回原来的玩家位
func (m *RoomManager) Reconnect(session Session, tokenString string) (protocol.RoomSnapshot, int, error) {
	claims, err := VerifySessionToken(tokenString)
	if err != nil {
		return protocol.RoomSnapshot{}, 0, newRoomError(protocol.ErrCodeInvalidToken, "会话令牌无效")
	}
	room, ok := m.getRoom(claims.RoomID)
	if !ok {
		return protocol.RoomSnapshot{}, 0, newRoomError(protocol.ErrCodeRoomNotFound, fmt.Sprintf("房间 %s 不存在", claims.RoomID))
	}
	if err := room.ReplaceSession(claims.PlayerID, session); err != nil {
		return protocol.RoomSnapshot{}, 0, newRoomError(protocol.ErrCodeInvalidToken, err.Error())
	}
	snap, err := room.Snapshot()
	if err != nil {
		return protocol.RoomSnapshot{}, 0, newRoomError(protocol.ErrCodeRoomNotFound, err.Error())
	}
	return snap, claims.PlayerID, nil
}

func (m *RoomManager) getRoom(roomID string) (*Room, bool) {
	m.roomMutex.RLock()
	defer m.roomMutex.RUnlock()
	room, ok := m.rooms[roomID]
	return room, ok
}

// Shutdown 关闭所有房间并等待它们退出
func (m *RoomManager) Shutdown() {
	close(m.shutdown)

	m.roomMutex.Lock()
	log.Printf("关闭 %d 个房间...", len(m.rooms))
	for _, room := range m.rooms {
		room.Shutdown()
	}
	m.roomMutex.Unlock()

	m.wg.Wait()
	log.Println("所有房间已关闭")
}
