// Package presence 追蹤房間內參與者的在線狀態。
//
// 加入、心跳與離開事件來自即時頻道，傳遞順序不保證，
// 因此以逐欄位合併的方式處理：可變欄位後到者覆蓋，
// JoinedAt 一旦設定就不再往回移動。
package presence

import (
	"sort"
	"sync"
	"time"
)

// Side 代表參與者在辯論中的立場
type Side string

const (
	SideFor        Side = "FOR"     // 正方
	SideAgainst    Side = "AGAINST" // 反方
	SideUnassigned Side = ""        // 尚未分配
)

// Participant 代表房間內的一位參與者
// 離開後記錄不會被刪除，只標記為不活躍，保留完整的歷史
type Participant struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Side        Side       `json:"side"`
	IsActive    bool       `json:"isActive"`
	JoinedAt    time.Time  `json:"joinedAt"`
	LastSeen    time.Time  `json:"lastSeen"`
	LeftAt      *time.Time `json:"leftAt,omitempty"`
}

// Tracker 將非同步的在線事件整合為一致的參與者集合
type Tracker struct {
	mu           sync.RWMutex
	participants map[string]*Participant
	order        []string // 首次加入的順序，JoinedAt 相同時作為穩定排序依據
	now          func() time.Time
}

// NewTracker 建立一個空的追蹤器
func NewTracker() *Tracker {
	return &Tracker{
		participants: make(map[string]*Participant),
		now:          time.Now,
	}
}

// OnJoin 處理加入事件，已存在的參與者視為更新
// JoinedAt 只在尚未設定時寫入；重新加入會沿用原始的 JoinedAt
func (t *Tracker) OnJoin(p Participant) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	existing, ok := t.participants[p.ID]
	if !ok {
		record := p
		if record.JoinedAt.IsZero() {
			record.JoinedAt = now
		}
		record.IsActive = true
		record.LastSeen = now
		record.LeftAt = nil
		t.participants[p.ID] = &record
		t.order = append(t.order, p.ID)
		return
	}

	// 可變欄位後到者覆蓋，JoinedAt 維持單調下限
	if p.DisplayName != "" {
		existing.DisplayName = p.DisplayName
	}
	if p.Side != SideUnassigned {
		existing.Side = p.Side
	}
	existing.IsActive = true
	existing.LastSeen = now
	existing.LeftAt = nil
}

// OnHeartbeat 更新參與者的 LastSeen
// 未知的參與者視為隱含的加入事件
func (t *Tracker) OnHeartbeat(participantID string) {
	t.mu.Lock()
	existing, ok := t.participants[participantID]
	if ok {
		existing.LastSeen = t.now()
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.OnJoin(Participant{ID: participantID})
}

// OnLeave 標記參與者離開，記錄保留不刪除
func (t *Tracker) OnLeave(participantID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.participants[participantID]
	if !ok {
		return
	}
	now := t.now()
	existing.IsActive = false
	existing.LeftAt = &now
}

// Snapshot 回傳所有已知參與者（含不活躍），按 JoinedAt 排序
func (t *Tracker) Snapshot() []Participant {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Participant, 0, len(t.order))
	for _, id := range t.order {
		result = append(result, *t.participants[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].JoinedAt.Before(result[j].JoinedAt)
	})
	return result
}

// ActiveCount 回傳目前活躍的參與者數量
func (t *Tracker) ActiveCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, p := range t.participants {
		if p.IsActive {
			count++
		}
	}
	return count
}

// Len 回傳已知參與者總數（含不活躍）
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.participants)
}
