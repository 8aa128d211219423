package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"debate_arena/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// WebSocketHandler 處理 WebSocket 連接
type WebSocketHandler struct {
	hub         *service.Hub
	roomService *service.RoomService
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(hub *service.Hub, roomService *service.RoomService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		roomService: roomService,
	}
}

// HandleWebSocket 處理 WebSocket 連接請求
// 連接期間的在線、心跳與離開事件都由 Hub 餵進會話狀態機
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	code := c.Param("code")

	// 房間必須存在且尚未結束才接受連接
	room, err := h.roomService.GetRoom(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
		return
	}
	if !room.IsActive {
		c.JSON(http.StatusConflict, gin.H{"error": "辯論已結束"})
		return
	}

	// 從上下文中獲取用戶身分
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	displayName, _ := c.Get("displayName")

	// 升級 HTTP 連接為 WebSocket 連接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "升級WebSocket失敗"})
		return
	}

	// 阻塞直到連接關閉，清理由 Hub 負責
	h.hub.HandleConnection(conn, code,
		participantID(userID.(uint)), displayName.(string), sideFromQuery(c))
}
