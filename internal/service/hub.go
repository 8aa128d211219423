package service

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"debate_arena/internal/messagelog"
	"debate_arena/internal/presence"
)

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	Conn          *websocket.Conn          // WebSocket 連接
	RoomCode      string                   // 房間代碼
	ParticipantID string                   // 參與者 ID
	DisplayName   string                   // 顯示名稱
	Side          presence.Side            // 立場 (FOR/AGAINST/未分配)
	SendChan      chan *messagelog.Message // 消息發送通道，用於異步傳送消息
}

// RoomEvents 接收即時頻道產生的房間事件
// 由 RoomService 實作，把頻道事件餵進會話狀態機
type RoomEvents interface {
	HandleJoin(roomCode, participantID, displayName string, side presence.Side)
	HandleHeartbeat(roomCode, participantID string)
	HandleLeave(roomCode, participantID string)
	HandleRawMessage(roomCode string, raw messagelog.RawMessage)
}

// Hub 管理所有的 WebSocket 連接和消息傳遞
// 頻道的投遞語意是 at-least-once 且跨發送者不保證順序，
// 重複投遞由訊息日誌的 ID 去重吸收
type Hub struct {
	clients    map[string]map[*Client]bool // 兩層 map: roomCode -> client -> bool
	clientsMux sync.RWMutex                // 用於保護 clients map 的讀寫鎖
	events     RoomEvents
}

// NewHub 創建並初始化新的 Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]bool),
	}
}

// Bind 設置房間事件的接收者，必須在第一個連接之前呼叫
func (h *Hub) Bind(events RoomEvents) {
	h.events = events
}

// HandleConnection 處理新的 WebSocket 連接請求，阻塞直到連接關閉
func (h *Hub) HandleConnection(conn *websocket.Conn, roomCode, participantID, displayName string, side presence.Side) {
	client := &Client{
		Conn:          conn,
		RoomCode:      roomCode,
		ParticipantID: participantID,
		DisplayName:   displayName,
		Side:          side,
		SendChan:      make(chan *messagelog.Message, 256), // 設置緩衝大小為 256 的消息通道
	}

	h.addClient(client)

	// 確保連接關閉時清理資源：取消心跳計時器、退訂頻道、標記離開
	// SendChan 由 removeClient 負責關閉
	defer func() {
		h.removeClient(client)
		conn.Close()
	}()

	// 啟動讀寫處理
	go h.writePump(client)
	h.readPump(client)
}

// readPump 持續監聽並處理從客戶端接收的消息
func (h *Hub) readPump(client *Client) {
	client.Conn.SetReadLimit(4096) // 設置最大消息大小為 4KB
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		// pong 視為在線心跳
		h.events.HandleHeartbeat(client.RoomCode, client.ParticipantID)
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close error: %v", err)
			}
			break
		}

		// 解析接收到的原始消息，兩種歷史格式都接受
		var raw messagelog.RawMessage
		if err := json.Unmarshal(message, &raw); err != nil {
			log.Printf("message parse error: %v", err)
			continue
		}

		// 發送者身分以連接為準，不信任消息內容
		raw.Sender = client.ParticipantID
		raw.SenderID = client.ParticipantID
		raw.SenderName = client.DisplayName
		raw.Side = string(client.Side)

		h.events.HandleRawMessage(client.RoomCode, raw)
	}
}

// writePump 處理向客戶端發送消息的邏輯
func (h *Hub) writePump(client *Client) {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.SendChan:
			// 設置寫入超時
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// 獲取寫入器並發送消息
			w, err := client.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			// JSON 編碼
			messageBytes, err := json.Marshal(message)
			if err != nil {
				log.Printf("message encoding error: %v", err)
				continue
			}

			if _, err := w.Write(messageBytes); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			// 發送心跳包
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastToRoom 向房間內的所有客戶端廣播標準消息
// 整段走訪都持有讀鎖：client 還在 map 裡就保證 SendChan 尚未被關閉，
// 發送是非阻塞的，所以讀鎖不會被長時間佔用
func (h *Hub) BroadcastToRoom(roomCode string, message *messagelog.Message) {
	var slow []*Client

	h.clientsMux.RLock()
	for client := range h.clients[roomCode] {
		select {
		case client.SendChan <- message:
			// 消息成功加入發送隊列
		default:
			// 客戶端消息隊列已滿，釋放讀鎖後再移除
			slow = append(slow, client)
		}
	}
	h.clientsMux.RUnlock()

	for _, client := range slow {
		h.removeClient(client)
		client.Conn.Close()
	}
}

// BroadcastSystemMessage 發送系統消息到指定房間
func (h *Hub) BroadcastSystemMessage(roomCode, content string) {
	msg := &messagelog.Message{
		SenderID:   "system",
		SenderName: "系統",
		Body:       content,
		Timestamp:  time.Now().UTC(),
	}
	h.BroadcastToRoom(roomCode, msg)
}

// addClient 安全地添加新的客戶端連接
func (h *Hub) addClient(client *Client) {
	h.clientsMux.Lock()
	if h.clients[client.RoomCode] == nil {
		h.clients[client.RoomCode] = make(map[*Client]bool)
	}
	h.clients[client.RoomCode][client] = true
	h.clientsMux.Unlock()

	// 把加入事件餵進會話，再發送用戶加入通知
	h.events.HandleJoin(client.RoomCode, client.ParticipantID, client.DisplayName, client.Side)
	h.BroadcastSystemMessage(client.RoomCode,
		fmt.Sprintf("%s 加入房間", client.DisplayName))
}

// removeClient 安全地移除客戶端連接
func (h *Hub) removeClient(client *Client) {
	h.clientsMux.Lock()
	removed := false
	if clients, ok := h.clients[client.RoomCode]; ok {
		if clients[client] {
			delete(clients, client)
			removed = true
			// 移出 map 後廣播者就看不到這個 client，此時關閉通道才安全
			close(client.SendChan)
		}
		// 如果房間空了，刪除房間
		if len(clients) == 0 {
			delete(h.clients, client.RoomCode)
		}
	}
	h.clientsMux.Unlock()

	if removed {
		h.events.HandleLeave(client.RoomCode, client.ParticipantID)
		h.BroadcastSystemMessage(client.RoomCode,
			fmt.Sprintf("%s 離開房間", client.DisplayName))
	}
}

// RoomClients 獲取指定房間的在線客戶端數量
func (h *Hub) RoomClients(roomCode string) int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	return len(h.clients[roomCode])
}
