package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"debate_arena/internal/api/handlers"
	"debate_arena/internal/config"
	"debate_arena/internal/middleware"
	"debate_arena/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services, cfg *config.Config) {
	jwtSecret := []byte(cfg.JWT.Secret)
	jwtExpire := time.Duration(cfg.JWT.ExpireHours) * time.Hour

	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User, jwtSecret, jwtExpire)
	roomHandler := handlers.NewRoomHandler(services.Room)
	wsHandler := handlers.NewWebSocketHandler(services.Hub, services.Room)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 用戶認證相關
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware(jwtSecret))
	{
		// 辯論室相關
		rooms := authorized.Group("/rooms")
		{
			// 基本操作
			rooms.GET("", roomHandler.ListRooms)     // 獲取房間列表
			rooms.POST("", roomHandler.CreateRoom)   // 創建房間
			rooms.GET("/:code", roomHandler.GetRoom) // 獲取房間信息

			// 房間參與
			rooms.POST("/:code/join", roomHandler.JoinRoom)   // 加入房間
			rooms.POST("/:code/leave", roomHandler.LeaveRoom) // 離開房間
			rooms.POST("/:code/end", roomHandler.EndDebate)   // 結束辯論

			// 記錄查詢與輸出
			rooms.GET("/:code/messages", roomHandler.GetMessages)  // 標準訊息列表
			rooms.GET("/:code/transcript", roomHandler.Transcript) // 逐字稿下載

			// WebSocket 連接點
			rooms.GET("/:code/ws", wsHandler.HandleWebSocket)
		}
	}
}
