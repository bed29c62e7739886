package api

import (
	"fmt"

	"github.com/Futarimiti/riichi-hairi/common/http"
	"github.com/Futarimiti/riichi-hairi/framework/game"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

type analyzeRequest struct {
	Hand    string `json:"hand" binding:"required"`
	Players int    `json:"players"`
}

// AnalyzeHandler 无状态分析一手牌，不创建会话
func (h *Handler) AnalyzeHandler(c *http.Context) error {
	var req analyzeRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}

	rules := h.Rules
	if req.Players != 0 {
		rules.Players = mahjong.PlayerCount(req.Players)
		if !rules.Players.Valid() {
			writeError(c, fmt.Errorf("%w: got %d", game.ErrInvalidPlayerCount, req.Players))
			return nil
		}
	}

	hand, err := mahjong.ParseHand(req.Hand)
	if err != nil {
		writeError(c, err)
		return nil
	}
	out, err := game.NewSession(rules, h.Memo).Execute(game.Command{Kind: game.CmdAnalyze, Hand: hand})
	if err != nil {
		writeError(c, err)
		return nil
	}
	c.Success(out)
	return nil
}
