package server

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	kcp "github.com/xtaci/kcp-go/v5"
)

const (
	MaxPacketSize = 16384          // 最大消息大小
	readTimeout   = 5 * time.Second
	writeTimeout  = 1 * time.Second
)

// PacketConn 按完整消息读写的连接抽象
// tcp/kcp 用 4 字节大端长度前缀切分消息边界，websocket 用自带分帧
type PacketConn interface {
	ReadPacket() ([]byte, error)
	WritePacket(data []byte) error
	Close() error
	RemoteAddr() net.Addr
}

// PacketListener 接受 PacketConn 的监听器
type PacketListener interface {
	Accept() (PacketConn, error)
	Close() error
	Addr() net.Addr
}

// NewListener 按协议创建监听器，支持 tcp/kcp/ws
func NewListener(proto, addr string) (PacketListener, error) {
	switch proto {
	case "tcp":
		l, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, err
		}
		return &tcpListener{listener: l}, nil
	case "kcp":
		l, err := kcp.ListenWithOptions(addr, nil, 0, 0)
		if err != nil {
			return nil, err
		}
		return &kcpListener{listener: l}, nil
	case "ws":
		return newWSListener(addr)
	default:
		return nil, fmt.Errorf("不支持的协议: %s", proto)
	}
}

type tcpListener struct {
	listener net.Listener
}

func (l *tcpListener) Accept() (PacketConn, error) {
	conn, err := l.listener.Accept()
	if err != nil {
		return nil, err
	}
	// 开启 TCP_NODELAY，禁用 Nagle 算法以减少延迟
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		tcpConn.SetNoDelay(true)
	}
	return &streamConn{conn: conn}, nil
}

func (l *tcpListener) Close() error  { return l.listener.Close() }
func (l *tcpListener) Addr() net.Addr { return l.listener.Addr() }

type kcpListener struct {
	listener *kcp.Listener
}

func (l *kcpListener) Accept() (PacketConn, error) {
	session, err := l.listener.AcceptKCP()
	if err != nil {
		return nil, err
	}
	// 长度前缀协议自带消息边界，不需要 SetStreamMode
	return &streamConn{conn: session}, nil
}

func (l *kcpListener) Close() error  { return l.listener.Close() }
func (l *kcpListener) Addr() net.Addr { return l.listener.Addr() }

// streamConn 流式连接上的长度前缀分帧
type streamConn struct {
	conn net.Conn
}

func (c *streamConn) ReadPacket() ([]byte, error) {
	var length uint32
	_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	if err := binary.Read(c.conn, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	if length > MaxPacketSize {
		return nil, fmt.Errorf("消息过大 (%d bytes)", length)
	}
	if length == 0 {
		return nil, nil
	}
	data := make([]byte, length)
	_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	if _, err := io.ReadFull(c.conn, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *streamConn) WritePacket(data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := binary.Write(c.conn, binary.BigEndian, uint32(len(data))); err != nil {
		return err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := c.conn.Write(data)
	return err
}

func (c *streamConn) Close() error        { return c.conn.Close() }
func (c *streamConn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// wsListener 基于 HTTP 升级的 websocket 监听器
// 升级后的连接被推进 accept 队列，Accept 从队列取
type wsListener struct {
	server   *http.Server
	netL     net.Listener
	acceptCh chan *wsConn
	ctx      context.Context
	cancel   context.CancelFunc
	upgrader websocket.Upgrader
	once     sync.Once
}

func newWSListener(addr string) (*wsListener, error) {
	netL, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &wsListener{
		netL:     netL,
		acceptCh: make(chan *wsConn, 16),
		ctx:      ctx,
		cancel:   cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", l.handleUpgrade)
	l.server = &http.Server{Handler: mux}
	go l.server.Serve(netL)
	return l, nil
}

func (l *wsListener) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	ws, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	select {
	case l.acceptCh <- &wsConn{ws: ws}:
	case <-l.ctx.Done():
		ws.Close()
	}
}

func (l *wsListener) Accept() (PacketConn, error) {
	select {
	case conn := <-l.acceptCh:
		return conn, nil
	case <-l.ctx.Done():
		return nil, net.ErrClosed
	}
}

func (l *wsListener) Close() error {
	l.once.Do(l.cancel)
	return l.server.Close()
}

func (l *wsListener) Addr() net.Addr { return l.netL.Addr() }

// wsConn websocket 连接，消息边界由协议自身保证
type wsConn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsConn) ReadPacket() ([]byte, error) {
	_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	c.ws.SetReadLimit(MaxPacketSize)
	for {
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType == websocket.TextMessage || msgType == websocket.BinaryMessage {
			return data, nil
		}
	}
}

func (c *wsConn) WritePacket(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error        { return c.ws.Close() }
func (c *wsConn) RemoteAddr() net.Addr { return c.ws.RemoteAddr() }
