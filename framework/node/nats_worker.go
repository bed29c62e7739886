package node

import (
	"encoding/json"
	"fmt"

	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/nats-io/nats.go"
)

// NatsWorker 订阅一个主题，按 Envelope.Route 分发给处理器，处理结果作为应答发回
type NatsWorker struct {
	NatsCli  *NatsClient
	readChan chan *nats.Msg
	handlers LogicHandler
	sub      *nats.Subscription
	done     chan struct{}
}

func NewNatsWorker(name string) *NatsWorker {
	return &NatsWorker{
		NatsCli:  NewNatsClient(name),
		readChan: make(chan *nats.Msg, 1024),
		handlers: make(LogicHandler),
		done:     make(chan struct{}),
	}
}

func (worker *NatsWorker) Run(url, subject string) error {
	if err := worker.NatsCli.Run(url); err != nil {
		return err
	}
	sub, err := worker.NatsCli.Subscribe(subject, func(msg *nats.Msg) {
		worker.readChan <- msg
	})
	if err != nil {
		return fmt.Errorf("订阅 %s 失败: %w", subject, err)
	}
	worker.sub = sub

	go worker.readChanMessage()
	return nil
}

func (worker *NatsWorker) readChanMessage() {
	for {
		select {
		case <-worker.done:
			return
		case msg := <-worker.readChan:
			worker.respond(msg, worker.Dispatch(msg.Data))
		}
	}
}

// Dispatch 解析 Envelope 并调用对应处理器
func (worker *NatsWorker) Dispatch(raw []byte) any {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Reply{Error: fmt.Sprintf("%v: %v", ErrInvalidMessage, err)}
	}
	handler := worker.handlers[env.Route]
	if handler == nil {
		return Reply{Error: fmt.Sprintf("%v: %s", ErrHandlerNotFound, env.Route)}
	}
	return handler(env.Data)
}

func (worker *NatsWorker) respond(msg *nats.Msg, result any) {
	if msg.Reply == "" || result == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		log.Error("nats 应答序列化失败: %v", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		log.Error("nats 应答发送失败, subject: %s, err: %v", msg.Subject, err)
	}
}

func (worker *NatsWorker) Close() {
	select {
	case <-worker.done:
		return
	default:
		close(worker.done)
	}
	if worker.sub != nil {
		_ = worker.sub.Unsubscribe()
	}
	worker.NatsCli.Close()
}

func (worker *NatsWorker) RegisterHandlers(handlers LogicHandler) {
	worker.handlers = handlers
}
