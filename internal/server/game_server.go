package server

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// GameServer 对局同步服务器：监听、接受连接、托管房间
type GameServer struct {
	addr  string
	proto string

	listener PacketListener
	rooms    *RoomManager

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	shutdown chan struct{}
}

// NewGameServer 创建服务器
func NewGameServer(addr, proto string) *GameServer {
	ctx, cancel := context.WithCancel(context.Background())
	s := &GameServer{
		addr:     addr,
		proto:    proto,
		ctx:      ctx,
		cancel:   cancel,
		shutdown: make(chan struct{}),
	}
	s.rooms = NewRoomManager(ctx)
	return s
}

// Start 启动服务器并阻塞直到 Shutdown
func (s *GameServer) Start() error {
	log.Printf("启动同步服务器: %s (%s)", s.addr, s.proto)

	listener, err := NewListener(s.proto, s.addr)
	if err != nil {
		return fmt.Errorf("监听失败: %w", err)
	}
	s.listener = listener
	log.Printf("服务器监听中: %s", listener.Addr())

	s.rooms.Run()

	s.wg.Add(1)
	go s.acceptLoop()

	<-s.shutdown
	log.Println("服务器正在关闭...")
	return nil
}

// Shutdown 优雅关闭
func (s *GameServer) Shutdown() {
	log.Println("正在关闭服务器...")

	s.cancel()
	s.rooms.Shutdown()
	if s.listener != nil {
		s.listener.Close()
	}
	close(s.shutdown)
	s.wg.Wait()

	log.Println("服务器已关闭")
}

func (s *GameServer) acceptLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			log.Println("停止接受新连接")
			return
		default:
		}

		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
				log.Printf("接受连接失败: %v", err)
				continue
			}
		}

		log.Printf("新连接来自: %s", conn.RemoteAddr())
		connection := NewConnection(conn, s)
		s.wg.Add(1)
		go connection.Handle(s.ctx, &s.wg)
	}
}
