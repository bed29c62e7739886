package api

import (
	"time"

	"github.com/Futarimiti/riichi-hairi/common/http"
)

// PingHandler ping 检查
func PingHandler(c *http.Context) error {
	c.Success(map[string]interface{}{
		"message":   "pong",
		"timestamp": time.Now().Unix(),
		"service":   "hairi",
	})
	return nil
}

// HealthHandler 健康检查，返回最近一次负载采样
func (h *Handler) HealthHandler(c *http.Context) error {
	info := h.Monitor.Latest()
	if info.SampledAt.IsZero() {
		var err error
		if info, err = h.Monitor.Collect(); err != nil {
			c.ErrorWithCode(50001, "服务不健康")
			return nil
		}
	}
	resp := map[string]interface{}{
		"healthy":   true,
		"load":      info,
		"timestamp": time.Now().Unix(),
	}
	if m, ok := h.Memo.(interface{ Hits() uint64 }); ok {
		resp["memoHits"] = m.Hits()
	}
	c.Success(resp)
	return nil
}
