package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"debate_arena/internal/presence"
	"debate_arena/internal/service"
	"debate_arena/internal/session"
)

// RoomHandler 處理與辯論房間相關的請求
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input struct {
		Topic    string   `json:"topic" binding:"required"`
		Format   string   `json:"format"`
		Language string   `json:"language"`
		Tags     []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	displayName, _ := c.Get("displayName")

	room, err := h.roomService.CreateRoom(userID.(uint), displayName.(string),
		input.Topic, input.Format, input.Language, input.Tags)
	if err != nil {
		if errors.Is(err, service.ErrRoomConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "創建房間失敗"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListRooms 處理獲取房間列表的請求
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ListRooms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋房間列表"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom 處理獲取房間訊息的請求，附帶目前在線人數
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.roomService.GetRoom(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room":   room,
		"online": h.roomService.OnlineCount(room.Code),
	})
}

// JoinRoom 處理加入房間的請求
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	code := c.Param("code")
	userID, _ := c.Get("userID")
	displayName, _ := c.Get("displayName")

	err := h.roomService.JoinRoom(code, participantID(userID.(uint)), displayName.(string), sideFromQuery(c))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "成功加入房間"})
}

// LeaveRoom 處理離開房間的請求
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	code := c.Param("code")
	userID, _ := c.Get("userID")

	if err := h.roomService.LeaveRoom(code, participantID(userID.(uint))); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "成功離開房間"})
}

// EndDebate 處理結束辯論的請求
func (h *RoomHandler) EndDebate(c *gin.Context) {
	code := c.Param("code")
	userID, _ := c.Get("userID")

	err := h.roomService.EndDebate(code, userID.(uint))
	if err != nil {
		if errors.Is(err, session.ErrCompleted) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "辯論結束"})
}

// GetMessages 處理獲取房間訊息列表的請求
func (h *RoomHandler) GetMessages(c *gin.Context) {
	messages, err := h.roomService.GetMessages(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋辯論訊息"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// Transcript 處理逐字稿下載的請求，輸出純文字附件
func (h *RoomHandler) Transcript(c *gin.Context) {
	code := c.Param("code")
	text, err := h.roomService.Transcript(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="debate-%s.txt"`, code))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// participantID 把認證層的數字用戶 ID 轉為會話層的不透明參與者 ID
func participantID(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// sideFromQuery 解析 side 查詢參數，未知值視為未分配（觀察者）
func sideFromQuery(c *gin.Context) presence.Side {
	switch c.Query("side") {
	case "for":
		return presence.SideFor
	case "against":
		return presence.SideAgainst
	default:
		return presence.SideUnassigned
	}
}
