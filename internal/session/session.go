// Package session 驅動辯論會話的生命週期：open → active → completed。
//
// 會話聚合房間代碼、主題、參與者集合與訊息日誌，在本機裝置上
// 獨佔持有；結束時產生一份不可變的終態快照交給儲存層。
package session

import (
	"errors"
	"sync"
	"time"

	"debate_arena/internal/messagelog"
	"debate_arena/internal/presence"
)

// Status 會話的生命週期狀態
type Status string

const (
	StatusOpen      Status = "open"      // 房間已建立，尚無活動
	StatusActive    Status = "active"    // 已有訊息或第二位參與者
	StatusCompleted Status = "completed" // 已結束，凍結不再變更
)

// ErrCompleted 對已結束會話的任何變更都以此錯誤拒絕
var ErrCompleted = errors.New("辯論已結束，不再接受任何變更")

// Config 建立會話所需的初始資料
type Config struct {
	Code     string
	Topic    string
	Host     string
	Format   string
	Language string
	Tags     []string
}

// Session 單一辯論會話的狀態機
type Session struct {
	mu        sync.Mutex
	code      string
	topic     string
	host      string
	format    string
	language  string
	tags      []string
	createdAt time.Time
	endedAt   time.Time
	status    Status
	tracker   *presence.Tracker
	log       *messagelog.Log
	snapshot  *Snapshot // 終態快照，End 時寫入一次
}

// Snapshot 會話聚合的不可變快照
// status == completed 時 EndedAt 必定已設定且不早於 CreatedAt
type Snapshot struct {
	Code         string
	Topic        string
	Host         string
	Format       string
	Language     string
	Tags         []string
	Status       Status
	CreatedAt    time.Time
	EndedAt      time.Time
	Participants []presence.Participant
	Messages     []messagelog.Message
}

// New 建立一個處於 open 狀態的新會話
func New(cfg Config) *Session {
	return &Session{
		code:      cfg.Code,
		topic:     cfg.Topic,
		host:      cfg.Host,
		format:    cfg.Format,
		language:  cfg.Language,
		tags:      cfg.Tags,
		createdAt: time.Now().UTC(),
		status:    StatusOpen,
		tracker:   presence.NewTracker(),
		log:       messagelog.NewLog(),
	}
}

// Code 回傳房間代碼
func (s *Session) Code() string { return s.code }

// Topic 回傳辯論主題
func (s *Session) Topic() string { return s.topic }

// Status 回傳目前的生命週期狀態
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Join 處理參與者加入，第二位不同參與者的到來會啟動會話
func (s *Session) Join(p presence.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusCompleted {
		return ErrCompleted
	}
	s.tracker.OnJoin(p)
	if s.status == StatusOpen && s.tracker.Len() >= 2 {
		s.status = StatusActive
	}
	return nil
}

// Heartbeat 更新參與者的在線時間
func (s *Session) Heartbeat(participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusCompleted {
		return ErrCompleted
	}
	s.tracker.OnHeartbeat(participantID)
	return nil
}

// Leave 標記參與者離開
func (s *Session) Leave(participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusCompleted {
		return ErrCompleted
	}
	s.tracker.OnLeave(participantID)
	return nil
}

// Ingest 標準化並追加一則原始訊息，第一則訊息會啟動會話
// 回傳標準訊息與是否實際追加（重複 ID 為 false）
func (s *Session) Ingest(raw messagelog.RawMessage) (messagelog.Message, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusCompleted {
		return messagelog.Message{}, false, ErrCompleted
	}
	msg, appended := s.log.Ingest(raw)
	if appended && s.status == StatusOpen {
		s.status = StatusActive
	}
	return msg, appended, nil
}

// End 將會話轉為 completed，凍結訊息與參與者並產生終態快照
// 重複呼叫回傳 ErrCompleted，已產生的快照不會改變
func (s *Session) End() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusCompleted {
		return Snapshot{}, ErrCompleted
	}

	s.status = StatusCompleted
	s.endedAt = time.Now().UTC()
	if s.endedAt.Before(s.createdAt) {
		s.endedAt = s.createdAt
	}

	snap := s.buildSnapshot()
	s.snapshot = &snap
	return snap, nil
}

// View 回傳會話當下狀態的快照
// 已結束的會話回傳凍結的終態快照
func (s *Session) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil {
		return *s.snapshot
	}
	return s.buildSnapshot()
}

// buildSnapshot 複製目前的聚合狀態，呼叫端必須持有 s.mu
func (s *Session) buildSnapshot() Snapshot {
	tags := make([]string, len(s.tags))
	copy(tags, s.tags)

	return Snapshot{
		Code:         s.code,
		Topic:        s.topic,
		Host:         s.host,
		Format:       s.format,
		Language:     s.language,
		Tags:         tags,
		Status:       s.status,
		CreatedAt:    s.createdAt,
		EndedAt:      s.endedAt,
		Participants: s.tracker.Snapshot(),
		Messages:     s.log.Messages(),
	}
}
