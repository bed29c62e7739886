package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Room 一个客户端独占的会话
// HTTP 请求可能并发到达，会话本身不加锁，所以所有访问都经过 Do
type Room struct {
	ID        string    // 房间 ID
	CreatedAt time.Time // 创建时间

	session    *Session
	lastActive time.Time
	mu         sync.Mutex
}

// GenerateRoomID 生成房间 ID
func GenerateRoomID() string {
	return uuid.NewString()
}

// NewRoom 创建新房间
func NewRoom(session *Session) *Room {
	now := time.Now()
	return &Room{
		ID:         GenerateRoomID(),
		CreatedAt:  now,
		session:    session,
		lastActive: now,
	}
}

// Do 持锁执行 fn
func (r *Room) Do(fn func(s *Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = time.Now()
	return fn(r.session)
}

// LastActive 最后一次访问时间
func (r *Room) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive
}

// Execute 解析并执行一行命令
func (r *Room) Execute(line string) (*Outcome, error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return nil, err
	}
	var out *Outcome
	err = r.Do(func(s *Session) error {
		out, err = s.Execute(cmd)
		return err
	})
	return out, err
}
