package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionRecord 一局交互会话的存档
// 只保存操作记号，读取时从头重放得到牌山和手牌
type SessionRecord struct {
	ID        string    `bson:"_id" json:"id"`
	Players   int       `bson:"players" json:"players"`
	Notations []string  `bson:"notations" json:"notations"`
	Hand      string    `bson:"hand" json:"hand"`   // 保存时的手牌
	Phase     string    `bson:"phase" json:"phase"` // 保存时的阶段
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// NewSessionRecord 创建会话存档
func NewSessionRecord(players int, notations []string, hand, phase string) *SessionRecord {
	return &SessionRecord{
		ID:        uuid.NewString(),
		Players:   players,
		Notations: notations,
		Hand:      hand,
		Phase:     phase,
		CreatedAt: time.Now(),
	}
}
