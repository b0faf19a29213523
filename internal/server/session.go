package server

import "bombquest/pkg/protocol"

// Session 房间眼中的一条玩家会话
// Connection 实现它；测试里可以用假实现替代网络
type Session interface {
	ID() int
	Send(p *protocol.Packet) error
	Close()
	CloseWithoutNotify()
	SetIdentity(playerID int, roomID string)
}
