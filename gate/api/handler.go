package api

import (
	"context"
	"time"

	"github.com/Futarimiti/riichi-hairi/core/domain/repository"
	"github.com/Futarimiti/riichi-hairi/core/infrastructure/message"
	"github.com/Futarimiti/riichi-hairi/framework/game"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"

	hhttp "github.com/Futarimiti/riichi-hairi/common/http"
)

// Deps 处理器依赖，由 container 组装
type Deps struct {
	Rooms        *game.RoomManager
	Monitor      *game.Monitor
	Records      repository.SessionRecordRepository
	Publisher    message.Publisher
	Rules        mahjong.Rules
	Memo         mahjong.Memo
	StoreTimeout time.Duration
}

type Handler struct {
	Deps
}

func NewHandler(deps Deps) *Handler {
	if deps.Publisher == nil {
		deps.Publisher = message.NopPublisher{}
	}
	if deps.StoreTimeout <= 0 {
		deps.StoreTimeout = 5 * time.Second
	}
	return &Handler{Deps: deps}
}

func (h *Handler) storeContext(c *hhttp.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Ctx(), h.StoreTimeout)
}

// room 取路径中的房间，不存在时写出 404
func (h *Handler) room(c *hhttp.Context) (*game.Room, bool) {
	id := c.GetParam("id")
	room, ok := h.Rooms.GetRoom(id)
	if !ok {
		sessionNotFound(c, "会话不存在: "+id)
	}
	return room, ok
}
