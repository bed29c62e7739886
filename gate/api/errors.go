package api

import (
	"errors"
	"net/http"

	"github.com/Futarimiti/riichi-hairi/core/domain/repository"
	"github.com/Futarimiti/riichi-hairi/framework/game"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"

	hhttp "github.com/Futarimiti/riichi-hairi/common/http"
)

// 业务错误码
const (
	CodeOutOfBounds       = 20001
	CodeInvalidHandSize   = 20002
	CodeIllegalTile       = 20003
	CodeIllegalMeldShape  = 20004
	CodeEmptyHistory      = 20005
	CodeModeViolation     = 20006
	CodeIllegalPhase      = 20007
	CodeInvalidNotation   = 20008
	CodeTileNotInHand     = 20009
	CodeUnknownCommand    = 20010
	CodeSessionNotFound   = 20011
	CodeStoreDisabled     = 30001
	CodeStoreUnavailable  = 30002
	CodeInvalidPlayerConf = hhttp.CodeInvalidParam
)

var errorCodes = []struct {
	err  error
	code int
}{
	{mahjong.ErrOutOfBounds, CodeOutOfBounds},
	{mahjong.ErrInvalidHandSize, CodeInvalidHandSize},
	{mahjong.ErrIllegalTileForConfig, CodeIllegalTile},
	{mahjong.ErrIllegalMeldShape, CodeIllegalMeldShape},
	{mahjong.ErrInvalidNotation, CodeInvalidNotation},
	{mahjong.ErrTileNotInHand, CodeTileNotInHand},
	{game.ErrEmptyHistory, CodeEmptyHistory},
	{game.ErrModeViolation, CodeModeViolation},
	{game.ErrIllegalPhase, CodeIllegalPhase},
	{game.ErrUnknownCommand, CodeUnknownCommand},
	{game.ErrInvalidPlayerCount, CodeInvalidPlayerConf},
}

// writeError 按错误种类写出统一响应
func writeError(c *hhttp.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrRecordNotFound):
		c.NotFound(err.Error())
		return
	case errors.Is(err, repository.ErrStoreDisabled):
		c.ErrorWithStatus(http.StatusServiceUnavailable, CodeStoreDisabled, err.Error())
		return
	case errors.Is(err, repository.ErrMongodb), errors.Is(err, repository.ErrRedis):
		c.ErrorWithStatus(http.StatusInternalServerError, CodeStoreUnavailable, "存储服务异常")
		return
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			c.ErrorWithStatus(http.StatusBadRequest, ec.code, err.Error())
			return
		}
	}
	c.InternalServerError(err.Error())
}

func sessionNotFound(c *hhttp.Context, message string) {
	c.ErrorWithStatus(http.StatusNotFound, CodeSessionNotFound, message)
}
