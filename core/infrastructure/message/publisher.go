package message

import (
	"encoding/json"
	"fmt"

	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/framework/node"
)

// Publisher 会话快照推送
type Publisher interface {
	Publish(roomID string, payload any) error
	Close() error
}

// NatsPublisher 把快照发布到 subject.<roomID>
type NatsPublisher struct {
	cli     *node.NatsClient
	subject string
}

// NewNatsPublisher 连接 NATS
func NewNatsPublisher(name, url, subject string) (*NatsPublisher, error) {
	cli := node.NewNatsClient(name)
	if err := cli.Run(url); err != nil {
		return nil, fmt.Errorf("nats 发布者连接失败: %w", err)
	}
	return &NatsPublisher{cli: cli, subject: subject}, nil
}

// Subject 房间对应的主题
func (p *NatsPublisher) Subject(roomID string) string {
	return p.subject + "." + roomID
}

func (p *NatsPublisher) Publish(roomID string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := p.cli.SendMessage(p.Subject(roomID), data); err != nil {
		log.Warn("快照发布失败, room: %s, err: %v", roomID, err)
		return err
	}
	return nil
}

func (p *NatsPublisher) Close() error {
	return p.cli.Close()
}

// NopPublisher 未配置 NATS 时使用
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) error { return nil }

func (NopPublisher) Close() error { return nil }
