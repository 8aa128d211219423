package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"debate_arena/internal/messagelog"
	"debate_arena/internal/models"
	"debate_arena/internal/presence"
	"debate_arena/internal/repository"
	"debate_arena/internal/roomid"
	"debate_arena/internal/session"
	"debate_arena/internal/transcript"
)

// ErrRoomConflict 房間代碼撞上唯一索引且重試仍失敗
var ErrRoomConflict = errors.New("房間代碼衝突，請再試一次")

// ErrRoomNotFound 房間不存在
var ErrRoomNotFound = errors.New("房間不存在")

type RoomService struct {
	roomRepo        repository.RoomRepository
	messageRepo     repository.MessageRepository
	participantRepo repository.ParticipantRepository
	hub             *Hub
	sessions        *Registry
}

func NewRoomService(repos *repository.Repositories, hub *Hub) *RoomService {
	return &RoomService{
		roomRepo:        repos.Room,
		messageRepo:     repos.Message,
		participantRepo: repos.Participant,
		hub:             hub,
		sessions:        NewRegistry(),
	}
}

// CreateRoom 建立房間：產生代碼、寫入房間記錄、放入進行中會話
// 代碼在客戶端這一側不檢查唯一性，撞到唯一索引時換一個代碼重試一次
func (s *RoomService) CreateRoom(creatorID uint, hostName, topic, format, language string, tags []string) (*models.Room, error) {
	for attempt := 0; attempt < 2; attempt++ {
		code := roomid.Generate()
		room := &models.Room{
			Code:      code,
			CreatorID: creatorID,
			HostName:  hostName,
			Topic:     topic,
			Format:    format,
			Language:  language,
			Status:    models.RoomStatusOpen,
			IsActive:  true,
			Tags:      strings.Join(tags, ","),
		}

		err := s.roomRepo.Create(room)
		if err == nil {
			s.sessions.Put(session.New(session.Config{
				Code:     code,
				Topic:    topic,
				Host:     hostName,
				Format:   format,
				Language: language,
				Tags:     tags,
			}))
			return room, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, ErrRoomConflict
}

// GetRoom 查詢房間記錄
func (s *RoomService) GetRoom(code string) (*models.Room, error) {
	if !roomid.Valid(code) {
		return nil, ErrRoomNotFound
	}
	room, err := s.roomRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// ListRooms 查詢所有房間
func (s *RoomService) ListRooms() ([]models.Room, error) {
	return s.roomRepo.FindAll()
}

// JoinRoom 以指定立場加入房間
func (s *RoomService) JoinRoom(code, participantID, displayName string, side presence.Side) error {
	live, err := s.liveSession(code)
	if err != nil {
		return err
	}

	if err := live.Join(presence.Participant{
		ID:          participantID,
		DisplayName: displayName,
		Side:        side,
	}); err != nil {
		return err
	}

	s.syncRoomStatus(live)
	return nil
}

// LeaveRoom 標記參與者離開，記錄保留
func (s *RoomService) LeaveRoom(code, participantID string) error {
	live, err := s.liveSession(code)
	if err != nil {
		return err
	}
	return live.Leave(participantID)
}

// IngestMessage 標準化並追加一則訊息，成功追加時廣播標準訊息
func (s *RoomService) IngestMessage(code string, raw messagelog.RawMessage) (messagelog.Message, error) {
	live, err := s.liveSession(code)
	if err != nil {
		return messagelog.Message{}, err
	}

	msg, appended, err := live.Ingest(raw)
	if err != nil {
		return messagelog.Message{}, err
	}
	if appended {
		s.syncRoomStatus(live)
		s.hub.BroadcastToRoom(code, &msg)
	}
	return msg, nil
}

// EndDebate 由主持人結束辯論：凍結會話、持久化終態快照、廣播結束
// 持久化是盡力而為，失敗會記錄並回傳，但會話狀態不回滾
func (s *RoomService) EndDebate(code string, userID uint) error {
	room, err := s.GetRoom(code)
	if err != nil {
		return err
	}
	if room.CreatorID != userID {
		return errors.New("只有主持人可以結束辯論")
	}

	live, err := s.liveSession(code)
	if err != nil {
		return err
	}

	snap, err := live.End()
	if err != nil {
		return err
	}

	if err := s.persistSnapshot(room, snap); err != nil {
		log.Printf("persist snapshot for room %s: %v", code, err)
		return fmt.Errorf("儲存辯論記錄失敗: %w", err)
	}

	s.sessions.Delete(code)
	s.hub.BroadcastSystemMessage(code, "辯論結束")
	return nil
}

// Transcript 輸出房間的逐字稿
// 進行中的會話輸出當下狀態，已結束的從儲存層重建終態快照
func (s *RoomService) Transcript(code string) (string, error) {
	if live, ok := s.sessions.Get(code); ok {
		return transcript.Export(live.View()), nil
	}

	room, err := s.GetRoom(code)
	if err != nil {
		return "", err
	}
	snap, err := s.loadSnapshot(room)
	if err != nil {
		return "", err
	}
	return transcript.Export(snap), nil
}

// GetMessages 查詢房間的標準訊息
// 進行中的會話讀取記憶體日誌，結束的讀取儲存層
func (s *RoomService) GetMessages(code string) ([]messagelog.Message, error) {
	if live, ok := s.sessions.Get(code); ok {
		return live.View().Messages, nil
	}

	room, err := s.GetRoom(code)
	if err != nil {
		return nil, err
	}
	rows, err := s.messageRepo.FindByRoomCode(room.Code)
	if err != nil {
		return nil, err
	}
	messages := make([]messagelog.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, messagelog.Message{
			ID:         row.MessageID,
			SenderID:   row.SenderID,
			SenderName: row.SenderName,
			Body:       row.Body,
			Side:       row.Side,
			Timestamp:  row.Timestamp,
		})
	}
	return messages, nil
}

// SweepStaleSessions 清掃記憶體中的會話，由背景計時器定期呼叫
// 已結束的直接移除；閒置超過 maxIdle 的視為逾時，代為結束並持久化
func (s *RoomService) SweepStaleSessions(maxIdle time.Duration) int {
	count := 0
	for _, code := range s.sessions.Stale(maxIdle) {
		live, ok := s.sessions.Get(code)
		if !ok {
			continue
		}
		if live.Status() != session.StatusCompleted {
			snap, err := live.End()
			if err == nil {
				if len(snap.Messages) == 0 && len(snap.Participants) == 0 {
					// 完全沒有活動的房間不留終態快照，直接刪除
					if derr := s.roomRepo.Delete(code); derr != nil {
						log.Printf("delete abandoned room %s: %v", code, derr)
					}
				} else {
					if room, rerr := s.GetRoom(code); rerr == nil {
						if perr := s.persistSnapshot(room, snap); perr != nil {
							log.Printf("persist snapshot for room %s: %v", code, perr)
						}
					}
					s.hub.BroadcastSystemMessage(code, "辯論因閒置逾時結束")
				}
			}
		}
		s.sessions.Delete(code)
		count++
	}
	return count
}

// OnlineCount 回傳房間目前連接中的客戶端數量
func (s *RoomService) OnlineCount(code string) int {
	return s.hub.RoomClients(code)
}

// HandleJoin 實作 RoomEvents：把頻道的加入事件餵進會話
func (s *RoomService) HandleJoin(roomCode, participantID, displayName string, side presence.Side) {
	if err := s.JoinRoom(roomCode, participantID, displayName, side); err != nil {
		// 已結束會話的事件拒絕只記錄，不中斷連接
		log.Printf("join rejected for room %s: %v", roomCode, err)
	}
}

// HandleHeartbeat 實作 RoomEvents
func (s *RoomService) HandleHeartbeat(roomCode, participantID string) {
	live, err := s.liveSession(roomCode)
	if err != nil {
		return
	}
	if err := live.Heartbeat(participantID); err != nil {
		log.Printf("heartbeat rejected for room %s: %v", roomCode, err)
	}
}

// HandleLeave 實作 RoomEvents
func (s *RoomService) HandleLeave(roomCode, participantID string) {
	if err := s.LeaveRoom(roomCode, participantID); err != nil {
		log.Printf("leave rejected for room %s: %v", roomCode, err)
	}
}

// HandleRawMessage 實作 RoomEvents
func (s *RoomService) HandleRawMessage(roomCode string, raw messagelog.RawMessage) {
	if _, err := s.IngestMessage(roomCode, raw); err != nil {
		log.Printf("message rejected for room %s: %v", roomCode, err)
	}
}

// liveSession 取得進行中的會話，不在記憶體時從房間記錄重建
func (s *RoomService) liveSession(code string) (*session.Session, error) {
	if live, ok := s.sessions.Get(code); ok {
		return live, nil
	}

	room, err := s.GetRoom(code)
	if err != nil {
		return nil, err
	}
	if room.Status == models.RoomStatusCompleted {
		return nil, session.ErrCompleted
	}

	live := session.New(session.Config{
		Code:     room.Code,
		Topic:    room.Topic,
		Host:     room.HostName,
		Format:   room.Format,
		Language: room.Language,
		Tags:     splitTags(room.Tags),
	})
	s.sessions.Put(live)
	return live, nil
}

// syncRoomStatus 把會話的啟動狀態同步回房間記錄
func (s *RoomService) syncRoomStatus(live *session.Session) {
	if live.Status() != session.StatusActive {
		return
	}
	room, err := s.GetRoom(live.Code())
	if err != nil || room.Status != models.RoomStatusOpen {
		return
	}
	room.Status = models.RoomStatusActive
	if err := s.roomRepo.Update(room); err != nil {
		log.Printf("update room %s status: %v", live.Code(), err)
	}
}

// persistSnapshot 把終態快照寫進儲存層：房間一筆更新加兩批寫入
// 沒有交易保證，採 last-write-wins，中斷的寫入不自動重試
func (s *RoomService) persistSnapshot(room *models.Room, snap session.Snapshot) error {
	endedAt := snap.EndedAt
	room.Status = models.RoomStatusCompleted
	room.IsActive = false
	room.EndedAt = &endedAt
	if err := s.roomRepo.Update(room); err != nil {
		return err
	}

	participants := make([]models.Participant, 0, len(snap.Participants))
	for _, p := range snap.Participants {
		participants = append(participants, models.Participant{
			RoomCode:      snap.Code,
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Side:          string(p.Side),
			IsActive:      p.IsActive,
			JoinedAt:      p.JoinedAt,
			LastSeen:      p.LastSeen,
			LeftAt:        p.LeftAt,
		})
	}
	if err := s.participantRepo.CreateBatch(participants); err != nil {
		return err
	}

	messages := make([]models.Message, 0, len(snap.Messages))
	for _, m := range snap.Messages {
		messages = append(messages, models.Message{
			MessageID:  m.ID,
			RoomCode:   snap.Code,
			SenderID:   m.SenderID,
			SenderName: m.SenderName,
			Side:       m.Side,
			Body:       m.Body,
			Timestamp:  m.Timestamp,
		})
	}
	return s.messageRepo.CreateBatch(messages)
}

// loadSnapshot 從儲存層重建已結束房間的終態快照
func (s *RoomService) loadSnapshot(room *models.Room) (session.Snapshot, error) {
	participantRows, err := s.participantRepo.FindByRoomCode(room.Code)
	if err != nil {
		return session.Snapshot{}, err
	}
	messageRows, err := s.messageRepo.FindByRoomCode(room.Code)
	if err != nil {
		return session.Snapshot{}, err
	}

	participants := make([]presence.Participant, 0, len(participantRows))
	for _, row := range participantRows {
		participants = append(participants, presence.Participant{
			ID:          row.ParticipantID,
			DisplayName: row.DisplayName,
			Side:        presence.Side(row.Side),
			IsActive:    row.IsActive,
			JoinedAt:    row.JoinedAt,
			LastSeen:    row.LastSeen,
			LeftAt:      row.LeftAt,
		})
	}

	messages := make([]messagelog.Message, 0, len(messageRows))
	for _, row := range messageRows {
		messages = append(messages, messagelog.Message{
			ID:         row.MessageID,
			SenderID:   row.SenderID,
			SenderName: row.SenderName,
			Body:       row.Body,
			Side:       row.Side,
			Timestamp:  row.Timestamp,
		})
	}

	snap := session.Snapshot{
		Code:         room.Code,
		Topic:        room.Topic,
		Host:         room.HostName,
		Format:       room.Format,
		Language:     room.Language,
		Tags:         splitTags(room.Tags),
		Status:       session.Status(room.Status),
		CreatedAt:    room.CreatedAt,
		Participants: participants,
		Messages:     messages,
	}
	if room.EndedAt != nil {
		snap.EndedAt = *room.EndedAt
	}
	return snap, nil
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	return strings.Split(tags, ",")
}
