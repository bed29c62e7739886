package game

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
	"github.com/Futarimiti/riichi-hairi/framework/node"
)

/*
	通过 NATS 请求-应答驱动房间，和 HTTP 接口共用同一个 RoomManager：
		room.create   创建房间
		room.command  在房间内执行一行命令
		room.snapshot 查询房间当前状态
*/

// CreateMessage 创建房间请求
type CreateMessage struct {
	Players     mahjong.PlayerCount `json:"players"`
	Interactive bool                `json:"interactive"`
}

// CommandMessage 房间命令请求
type CommandMessage struct {
	RoomID  string `json:"roomID"`
	Command string `json:"command"`
}

type Worker struct {
	RoomManager  *RoomManager
	MiddleWorker *node.NatsWorker
	NodeID       string // 当前节点 ID，作为 NATS 连接名和队列组
}

// NewWorker 创建 Worker
func NewWorker(nodeID string, roomManager *RoomManager) *Worker {
	return &Worker{
		RoomManager:  roomManager,
		MiddleWorker: node.NewNatsWorker(nodeID),
		NodeID:       nodeID,
	}
}

// Start 注册处理器并开始监听 subject
func (w *Worker) Start(ctx context.Context, natsURL, subject string) error {
	w.registerHandlers()
	if err := w.MiddleWorker.Run(natsURL, subject); err != nil {
		return fmt.Errorf("启动 NATS 监听失败: %w", err)
	}
	log.Info("Worker[%s] 启动 NATS 监听成功, subject: %s", w.NodeID, subject)

	go func() {
		<-ctx.Done()
		w.Close()
	}()
	return nil
}

func (w *Worker) registerHandlers() {
	w.MiddleWorker.RegisterHandlers(w.Handlers())
}

// Handlers 路由表
func (w *Worker) Handlers() node.LogicHandler {
	return node.LogicHandler{
		"room.create":   w.handleCreate,
		"room.command":  w.handleCommand,
		"room.snapshot": w.handleSnapshot,
	}
}

func (w *Worker) handleCreate(data []byte) any {
	var msg CreateMessage
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			return failure(err)
		}
	}
	room, err := w.RoomManager.CreateRoom(msg.Players, msg.Interactive)
	if err != nil {
		return failure(err)
	}
	var snap *Snapshot
	_ = room.Do(func(s *Session) error {
		snap = s.Snapshot()
		return nil
	})
	return node.Reply{Success: true, Data: map[string]any{"id": room.ID, "snapshot": snap}}
}

func (w *Worker) handleCommand(data []byte) any {
	var msg CommandMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return failure(err)
	}
	room, exists := w.RoomManager.GetRoom(msg.RoomID)
	if !exists {
		return failure(fmt.Errorf("房间 %s 不存在", msg.RoomID))
	}
	out, err := room.Execute(msg.Command)
	if err != nil {
		log.Debug("Worker 房间 %s 命令 %q 失败: %v", msg.RoomID, msg.Command, err)
		return failure(err)
	}
	return node.Reply{Success: true, Data: out}
}

func (w *Worker) handleSnapshot(data []byte) any {
	var msg CommandMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return failure(err)
	}
	room, exists := w.RoomManager.GetRoom(msg.RoomID)
	if !exists {
		return failure(fmt.Errorf("房间 %s 不存在", msg.RoomID))
	}
	var snap *Snapshot
	_ = room.Do(func(s *Session) error {
		snap = s.Snapshot()
		return nil
	})
	return node.Reply{Success: true, Data: snap}
}

func failure(err error) node.Reply {
	return node.Reply{Error: err.Error()}
}

// Close 关闭 Worker
func (w *Worker) Close() {
	if w.MiddleWorker != nil {
		w.MiddleWorker.Close()
	}
	log.Info("Worker[%s] 已关闭", w.NodeID)
}
