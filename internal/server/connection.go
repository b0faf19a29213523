package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"bombquest/pkg/protocol"
)

const (
	sendQueueSize = 256

	heartbeatInterval = 5 * time.Second
	heartbeatTimeout  = 15 * time.Second

	// 单连接入站消息限流：对局中移动消息最多 60/秒，留一倍余量
	inboundRateLimit = 120
	inboundBurst     = 240
)

var ErrSendQueueFull = errors.New("发送队列满")

// Connection 一条客户端连接，实现 Session
type Connection struct {
	conn   PacketConn
	server *GameServer

	playerID atomic.Int64
	roomID   atomic.Value // string

	sendChan chan []byte
	closeCh  chan struct{}
	closed   bool
	closeMu  sync.Mutex

	limiter      *rate.Limiter
	lastRecvTime atomic.Value
	rtt          atomic.Int64
}

// NewConnection 创建连接
func NewConnection(conn PacketConn, server *GameServer) *Connection {
	c := &Connection{
		conn:     conn,
		server:   server,
		sendChan: make(chan []byte, sendQueueSize),
		closeCh:  make(chan struct{}),
		limiter:  rate.NewLimiter(rate.Limit(inboundRateLimit), inboundBurst),
	}
	c.playerID.Store(0) // 0 表示尚未入房
	c.roomID.Store("")
	c.lastRecvTime.Store(time.Now())
	return c
}

// Handle 处理连接的完整生命周期
func (c *Connection) Handle(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	wg.Add(1)
	go c.heartbeatLoop(ctx, wg)

	wg.Add(1)
	go c.sendLoop(ctx, wg)

	wg.Add(1)
	go c.receiveLoop(ctx, wg)

	select {
	case <-ctx.Done():
	case <-c.closeCh:
	}
	c.Close()
}

// Close 关闭连接并通知房间移除玩家
func (c *Connection) Close() {
	c.closeWithNotify(true)
}

// CloseWithoutNotify 关闭连接但不触发移除玩家逻辑（用于重连换线）
func (c *Connection) CloseWithoutNotify() {
	c.closeWithNotify(false)
}

func (c *Connection) closeWithNotify(notify bool) {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.closeCh)
	c.conn.Close()
	close(c.sendChan)

	if notify {
		if playerID := c.ID(); playerID > 0 {
			c.server.rooms.Leave(c.RoomID(), playerID)
		}
	}
	log.Printf("玩家 %d: 连接已关闭", c.ID())
}

// ID 玩家 ID，0 表示尚未入房
func (c *Connection) ID() int {
	return int(c.playerID.Load())
}

// RoomID 所在房间
func (c *Connection) RoomID() string {
	roomID, _ := c.roomID.Load().(string)
	return roomID
}

// SetIdentity 入房后由房间回填身份
func (c *Connection) SetIdentity(playerID int, roomID string) {
	c.playerID.Store(int64(playerID))
	c.roomID.Store(roomID)
}

// Send 序列化并异步发送一条消息
func (c *Connection) Send(p *protocol.Packet) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	return c.sendRaw(data)
}

func (c *Connection) sendRaw(data []byte) error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return fmt.Errorf("连接已关闭")
	}
	select {
	case c.sendChan <- data:
		return nil
	default:
		return ErrSendQueueFull
	}
}

func (c *Connection) sendLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.sendChan:
			if !ok {
				return
			}
			if err := c.conn.WritePacket(data); err != nil {
				log.Printf("玩家 %d: 发送失败: %v", c.ID(), err)
				c.Close()
				return
			}
		}
	}
}

func (c *Connection) receiveLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closeCh:
			return
		default:
		}

		data, err := c.conn.ReadPacket()
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				// 心跳协程负责判定超时，这里继续等
				continue
			}
			c.Close()
			return
		}
		if len(data) == 0 {
			continue
		}

		c.lastRecvTime.Store(time.Now())
		if !c.limiter.Allow() {
			// 超速的消息直接丢弃，不断开连接
			continue
		}
		if err := c.handlePacket(data); err != nil {
			log.Printf("玩家 %d: 处理消息失败: %v", c.ID(), err)
			_ = c.Send(protocol.NewError(protocol.ErrCodeBadRequest, err.Error()))
		}
	}
}

// handlePacket 入房前的消息由服务器处理，入房后全部转交房间
func (c *Connection) handlePacket(data []byte) error {
	p, err := protocol.Decode(data)
	if err != nil {
		return err
	}

	switch p.Type {
	case protocol.MsgPing:
		var req protocol.PingRequest
		if err := p.Bind(&req); err != nil {
			return err
		}
		if req.ClientTime > 0 {
			c.rtt.Store(time.Now().UnixMilli() - req.ClientTime)
		}
		return c.Send(protocol.MustPacket(protocol.MsgPong, protocol.PongResponse{
			ClientTime: req.ClientTime,
			ServerTime: time.Now().UnixMilli(),
		}))

	case protocol.MsgCreateRoom:
		return c.handleCreate(p)

	case protocol.MsgJoinRoom:
		return c.handleJoinRoom(p)

	case protocol.MsgListRooms:
		var req protocol.ListRoomsRequest
		_ = p.Bind(&req)
		return c.Send(protocol.MustPacket(protocol.MsgRoomList, c.server.rooms.ListRooms(req.Page, req.PageSize)))

	case protocol.MsgReconnect:
		return c.handleReconnect(p)

	default:
		if c.ID() <= 0 {
			return fmt.Errorf("尚未加入房间")
		}
		c.server.rooms.Dispatch(c.RoomID(), c.ID(), p)
		return nil
	}
}

func (c *Connection) handleCreate(p *protocol.Packet) error {
	if c.ID() > 0 {
		return c.Send(protocol.NewError(protocol.ErrCodeAlreadyInRoom, "已在房间中"))
	}
	var req protocol.CreateRoomRequest
	if err := p.Bind(&req); err != nil {
		return err
	}
	res, err := c.server.rooms.CreateRoom(c, req)
	if err != nil {
		return c.sendJoinError(err)
	}
	return c.Send(protocol.MustPacket(protocol.MsgRoomCreated, protocol.RoomJoinedResponse{
		Room: res.snapshot, YourID: res.playerID, SessionToken: res.token,
	}))
}

func (c *Connection) handleJoinRoom(p *protocol.Packet) error {
	if c.ID() > 0 {
		return c.Send(protocol.NewError(protocol.ErrCodeAlreadyInRoom, "已在房间中"))
	}
	var req protocol.JoinRoomRequest
	if err := p.Bind(&req); err != nil {
		return err
	}
	res, err := c.server.rooms.JoinRoom(c, req)
	if err != nil {
		return c.sendJoinError(err)
	}
	return c.Send(protocol.MustPacket(protocol.MsgRoomJoined, protocol.RoomJoinedResponse{
		Room: res.snapshot, YourID: res.playerID, SessionToken: res.token,
	}))
}

func (c *Connection) handleReconnect(p *protocol.Packet) error {
	var req protocol.ReconnectRequest
	if err := p.Bind(&req); err != nil {
		return err
	}
	snap, playerID, err := c.server.rooms.Reconnect(c, req.SessionToken)
	if err != nil {
		return c.sendJoinError(err)
	}
	token, _ := GenerateSessionToken(playerID, snap.ID, "")
	return c.Send(protocol.MustPacket(protocol.MsgRoomJoined, protocol.RoomJoinedResponse{
		Room: snap, YourID: playerID, SessionToken: token,
	}))
}

// sendJoinError 入房失败：带错误码回给客户端，不算协议错误
func (c *Connection) sendJoinError(err error) error {
	var re roomError
	if errors.As(err, &re) {
		return c.Send(protocol.NewError(re.Code, re.Message))
	}
	return c.Send(protocol.NewError(protocol.ErrCodeBadRequest, err.Error()))
}

// heartbeatLoop 心跳：超时判定掉线
func (c *Connection) heartbeatLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closeCh:
			return
		case <-ticker.C:
			lastRecv, _ := c.lastRecvTime.Load().(time.Time)
			if !lastRecv.IsZero() && time.Since(lastRecv) > heartbeatTimeout {
				log.Printf("玩家 %d: 心跳超时", c.ID())
				c.Close()
				return
			}
		}
	}
}

// RTT 最近一次心跳往返延迟（毫秒）
func (c *Connection) RTT() int64 {
	return c.rtt.Load()
}
