// Package messagelog 維護辯論發言的標準化追加日誌。
//
// 上游存在兩種歷史訊息格式（sender/message/數字時間戳 與
// senderId/text/ISO 字串時間戳），在 Ingest 這個單一邊界統一
// 轉換為標準格式，其餘元件只接觸標準格式。
package messagelog

import (
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PlaceholderBody 兩個內文欄位都缺少時的替代文字
const PlaceholderBody = "No content"

// RawMessage 代表線路或儲存層上的原始訊息，兩種歷史格式的聯集
// Timestamp 可能是數字（epoch 毫秒）或 ISO-8601 字串
type RawMessage struct {
	ID         string `json:"id"`
	Sender     string `json:"sender"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Message    string `json:"message"`
	Text       string `json:"text"`
	Side       string `json:"side"`
	Timestamp  any    `json:"timestamp"`
}

// Message 標準化後的辯論發言
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Body       string    `json:"body"`
	Side       string    `json:"side"`
	Timestamp  time.Time `json:"timestamp"`
}

// Log 是按插入順序排列、以 ID 去重的追加日誌
// 插入順序即為預期的時間順序，但不強制；需要嚴格時間排序的
// 呼叫端應自行按 Timestamp 排序
type Log struct {
	mu       sync.RWMutex
	messages []Message
	index    map[string]int // 訊息 ID -> messages 中的位置
}

// NewLog 建立一個空的訊息日誌
func NewLog() *Log {
	return &Log{index: make(map[string]int)}
}

// Normalize 將原始訊息轉換為標準格式
// 缺少內文時填入替代文字而不是拒絕，寧可有損也不中斷
func Normalize(raw RawMessage) Message {
	senderID := raw.Sender
	if senderID == "" {
		senderID = raw.SenderID
	}

	body := raw.Message
	if body == "" {
		body = raw.Text
	}
	if body == "" {
		body = PlaceholderBody
	}

	id := raw.ID
	if id == "" {
		id = uuid.NewString()
	}

	return Message{
		ID:         id,
		SenderID:   senderID,
		SenderName: raw.SenderName,
		Body:       body,
		Side:       raw.Side,
		Timestamp:  normalizeTimestamp(raw.Timestamp),
	}
}

// normalizeTimestamp 將兩種歷史時間戳格式轉為絕對時刻
// 數字視為 epoch 毫秒，字串按 ISO-8601 解析；無法解析時退回當下
func normalizeTimestamp(v any) time.Time {
	switch ts := v.(type) {
	case float64: // JSON 數字解碼的預設型別
		return time.UnixMilli(int64(ts)).UTC()
	case int64:
		return time.UnixMilli(ts).UTC()
	case int:
		return time.UnixMilli(int64(ts)).UTC()
	case string:
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			return parsed.UTC()
		}
	case time.Time:
		return ts.UTC()
	}
	return time.Now().UTC()
}

// Ingest 標準化並追加一則原始訊息
// 相同 ID 已存在時不做任何事（冪等），回傳既有的標準訊息與 false
func (l *Log) Ingest(raw RawMessage) (Message, bool) {
	msg := Normalize(raw)
	appended := l.Append(msg)
	if !appended {
		l.mu.RLock()
		existing := l.messages[l.index[msg.ID]]
		l.mu.RUnlock()
		return existing, false
	}
	return msg, true
}

// Append 將標準訊息加到日誌末端，重複的 ID 視為無操作
func (l *Log) Append(msg Message) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.index[msg.ID]; exists {
		return false
	}
	l.index[msg.ID] = len(l.messages)
	l.messages = append(l.messages, msg)
	return true
}

// All 回傳按插入順序的惰性序列，可重複走訪
func (l *Log) All() iter.Seq[Message] {
	return func(yield func(Message) bool) {
		l.mu.RLock()
		snapshot := make([]Message, len(l.messages))
		copy(snapshot, l.messages)
		l.mu.RUnlock()

		for _, msg := range snapshot {
			if !yield(msg) {
				return
			}
		}
	}
}

// Messages 回傳按插入順序的完整複本
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]Message, len(l.messages))
	copy(result, l.messages)
	return result
}

// Len 回傳日誌中的訊息數量
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
