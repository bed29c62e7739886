package api

import (
	"github.com/Futarimiti/riichi-hairi/common/http"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(server *http.HttpServer, h *Handler) {
	server.GET("/ping", PingHandler)
	server.GET("/health", h.HealthHandler)

	// API v1 路由组
	v1 := server.Group("/api/v1")
	{
		v1.POST("/analyze", h.AnalyzeHandler)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", h.CreateSessionHandler)
			sessions.GET("/:id", h.GetSessionHandler)
			sessions.DELETE("/:id", h.DeleteSessionHandler)
			sessions.POST("/:id/commands", h.CommandHandler)
			sessions.POST("/:id/undo", h.UndoHandler)
			sessions.GET("/:id/history", h.HistoryHandler)
			sessions.POST("/:id/records", h.SaveRecordHandler)
		}

		records := v1.Group("/records")
		{
			records.GET("", h.ListRecordsHandler)
			records.GET("/:rid", h.GetRecordHandler)
			records.POST("/:rid/replay", h.ReplayHandler)
		}
	}
}
