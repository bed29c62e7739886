package api

import (
	"strconv"

	"github.com/Futarimiti/riichi-hairi/common/http"
	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/core/domain/entity"
	"github.com/Futarimiti/riichi-hairi/framework/game"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

// SaveRecordHandler 把会话的操作记录存档
func (h *Handler) SaveRecordHandler(c *http.Context) error {
	room, ok := h.room(c)
	if !ok {
		return nil
	}

	var record *entity.SessionRecord
	_ = room.Do(func(s *game.Session) error {
		records := s.History()
		notations := make([]string, len(records))
		for i, r := range records {
			notations[i] = r.Notation
		}
		snap := s.Snapshot()
		record = entity.NewSessionRecord(int(s.Players()), notations, snap.Hand, snap.Phase.String())
		return nil
	})

	ctx, cancel := h.storeContext(c)
	defer cancel()
	if err := h.Records.Save(ctx, record); err != nil {
		writeError(c, err)
		return nil
	}
	log.Info("会话 %s 存档成功, record: %s, 操作数: %d", room.ID, record.ID, len(record.Notations))
	c.Success(record)
	return nil
}

// ListRecordsHandler 分页列出存档，page 从 1 开始
func (h *Handler) ListRecordsHandler(c *http.Context) error {
	page, size := queryInt(c, "page", 1), queryInt(c, "size", 20)
	if page < 1 || size < 1 || size > 100 {
		c.BadRequest("分页参数错误")
		return nil
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()
	records, err := h.Records.List(ctx, size, (page-1)*size)
	if err != nil {
		writeError(c, err)
		return nil
	}
	c.Success(map[string]interface{}{
		"list": records,
		"page": page,
		"size": size,
	})
	return nil
}

func (h *Handler) GetRecordHandler(c *http.Context) error {
	ctx, cancel := h.storeContext(c)
	defer cancel()
	record, err := h.Records.FindByID(ctx, c.GetParam("rid"))
	if err != nil {
		writeError(c, err)
		return nil
	}
	c.Success(record)
	return nil
}

// ReplayHandler 读取存档并在新会话中从头重放
func (h *Handler) ReplayHandler(c *http.Context) error {
	ctx, cancel := h.storeContext(c)
	defer cancel()
	record, err := h.Records.FindByID(ctx, c.GetParam("rid"))
	if err != nil {
		writeError(c, err)
		return nil
	}

	players := mahjong.PlayerCount(record.Players)
	room, err := h.Rooms.CreateRoom(players, true)
	if err != nil {
		writeError(c, err)
		return nil
	}

	var snap *game.Snapshot
	err = room.Do(func(s *game.Session) error {
		var err error
		snap, err = game.Replay(s, players, record.Notations)
		return err
	})
	if err != nil {
		_ = h.Rooms.DeleteRoom(room.ID)
		writeError(c, err)
		return nil
	}
	c.Success(sessionResponse{ID: room.ID, Snapshot: snap})
	return nil
}

func queryInt(c *http.Context, key string, def int) int {
	v := c.GetQuery(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
