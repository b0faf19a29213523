package protocol

import (
	"encoding/json"
	"fmt"
)

// NewPacket 构造带负载的消息
func NewPacket(t MessageType, payload interface{}) (*Packet, error) {
	p := &Packet{Type: t}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("编码 %s 负载失败: %w", t, err)
		}
		p.Payload = raw
	}
	return p, nil
}

// MustPacket 构造消息，负载编码失败时 panic
// 只用于字段全部可序列化的内部类型
func MustPacket(t MessageType, payload interface{}) *Packet {
	p, err := NewPacket(t, payload)
	if err != nil {
		panic(err)
	}
	return p
}

// Encode 序列化整个信封
func (p *Packet) Encode() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("编码消息失败: %w", err)
	}
	return data, nil
}

// Decode 从字节流还原信封，负载保持原始 JSON 延迟解析
func Decode(data []byte) (*Packet, error) {
	var p Packet
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("解析消息失败: %w", err)
	}
	if p.Type == "" {
		return nil, fmt.Errorf("消息缺少类型字段")
	}
	return &p, nil
}

// Bind 把负载解析到指定结构
func (p *Packet) Bind(v interface{}) error {
	if len(p.Payload) == 0 {
		return fmt.Errorf("消息 %s 缺少负载", p.Type)
	}
	if err := json.Unmarshal(p.Payload, v); err != nil {
		return fmt.Errorf("解析 %s 负载失败: %w", p.Type, err)
	}
	return nil
}

// NewError 构造错误响应消息
func NewError(code, message string) *Packet {
	return MustPacket(MsgError, ErrorResponse{Code: code, Message: message})
}
