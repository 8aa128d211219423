package service

import (
	"sync"
	"time"

	"debate_arena/internal/session"
)

// Registry 是進行中會話的記憶體存放處
// 會話在結束並持久化之前由本機獨佔持有，結束後移出
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*session.Session
	lastTouch map[string]time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:  make(map[string]*session.Session),
		lastTouch: make(map[string]time.Time),
	}
}

// Get 取得指定房間代碼的會話
func (r *Registry) Get(code string) (*session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[code]
	if ok {
		r.lastTouch[code] = time.Now()
	}
	return s, ok
}

// Put 放入一個會話
func (r *Registry) Put(s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.Code()] = s
	r.lastTouch[s.Code()] = time.Now()
}

// Delete 移除一個會話
func (r *Registry) Delete(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, code)
	delete(r.lastTouch, code)
}

// Stale 回傳已結束或閒置超過 maxIdle 的會話代碼
func (r *Registry) Stale(maxIdle time.Duration) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := time.Now().Add(-maxIdle)
	var codes []string
	for code, s := range r.sessions {
		if s.Status() == session.StatusCompleted || !r.lastTouch[code].After(cutoff) {
			codes = append(codes, code)
		}
	}
	return codes
}
