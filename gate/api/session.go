package api

import (
	"github.com/Futarimiti/riichi-hairi/common/http"
	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/framework/game"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

type createSessionRequest struct {
	Players     int   `json:"players"`
	Interactive *bool `json:"interactive"`
}

type sessionResponse struct {
	ID       string         `json:"id"`
	Snapshot *game.Snapshot `json:"snapshot"`
}

// CreateSessionHandler 创建会话，默认进入交互模式
func (h *Handler) CreateSessionHandler(c *http.Context) error {
	var req createSessionRequest
	if c.Request().ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			c.BadRequest("请求参数错误")
			return nil
		}
	}
	interactive := req.Interactive == nil || *req.Interactive

	room, err := h.Rooms.CreateRoom(mahjong.PlayerCount(req.Players), interactive)
	if err != nil {
		writeError(c, err)
		return nil
	}
	c.Success(sessionResponse{ID: room.ID, Snapshot: snapshotOf(room)})
	return nil
}

func (h *Handler) GetSessionHandler(c *http.Context) error {
	room, ok := h.room(c)
	if !ok {
		return nil
	}
	c.Success(sessionResponse{ID: room.ID, Snapshot: snapshotOf(room)})
	return nil
}

func (h *Handler) DeleteSessionHandler(c *http.Context) error {
	if err := h.Rooms.DeleteRoom(c.GetParam("id")); err != nil {
		sessionNotFound(c, err.Error())
		return nil
	}
	c.Success(nil)
	return nil
}

type commandRequest struct {
	Command string `json:"command" binding:"required"`
}

// CommandHandler 在会话中执行一行命令，语法与命令行相同
func (h *Handler) CommandHandler(c *http.Context) error {
	var req commandRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}
	room, ok := h.room(c)
	if !ok {
		return nil
	}
	out, err := room.Execute(req.Command)
	if err != nil {
		writeError(c, err)
		return nil
	}
	h.publish(room.ID, out)
	c.Success(out)
	return nil
}

type undoRequest struct {
	IgnoreBounds bool `json:"ignoreBounds"`
}

func (h *Handler) UndoHandler(c *http.Context) error {
	var req undoRequest
	if c.Request().ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			c.BadRequest("请求参数错误")
			return nil
		}
	}
	room, ok := h.room(c)
	if !ok {
		return nil
	}
	var out *game.Outcome
	err := room.Do(func(s *game.Session) error {
		var err error
		out, err = s.Execute(game.Command{Kind: game.CmdUndo, IgnoreBounds: req.IgnoreBounds})
		return err
	})
	if err != nil {
		writeError(c, err)
		return nil
	}
	h.publish(room.ID, out)
	c.Success(out)
	return nil
}

func (h *Handler) HistoryHandler(c *http.Context) error {
	room, ok := h.room(c)
	if !ok {
		return nil
	}
	var records []game.Record
	_ = room.Do(func(s *game.Session) error {
		records = s.History()
		return nil
	})
	c.Success(records)
	return nil
}

func (h *Handler) publish(roomID string, out *game.Outcome) {
	if out == nil || out.Snapshot == nil {
		return
	}
	if err := h.Publisher.Publish(roomID, out.Snapshot); err != nil {
		log.Warn("会话 %s 快照推送失败: %v", roomID, err)
	}
}

func snapshotOf(room *game.Room) *game.Snapshot {
	var snap *game.Snapshot
	_ = room.Do(func(s *game.Session) error {
		snap = s.Snapshot()
		return nil
	})
	return snap
}
