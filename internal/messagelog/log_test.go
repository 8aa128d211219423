package messagelog_test

import (
	"testing"
	"time"

	"debate_arena/internal/messagelog"
)

func TestIngestLegacyShape(t *testing.T) {
	l := messagelog.NewLog()
	msg, appended := l.Ingest(messagelog.RawMessage{
		ID:         "m1",
		Sender:     "p1",
		SenderName: "Alice",
		Message:    "開場陳述",
		Side:       "FOR",
		Timestamp:  float64(1700000000000),
	})
	if !appended {
		t.Fatal("first ingest should append")
	}
	if msg.SenderID != "p1" || msg.Body != "開場陳述" {
		t.Fatalf("unexpected canonical message: %+v", msg)
	}
	want := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	if !msg.Timestamp.Equal(want) {
		t.Fatalf("unexpected timestamp: got %v want %v", msg.Timestamp, want)
	}
}

func TestIngestCurrentShape(t *testing.T) {
	l := messagelog.NewLog()
	msg, _ := l.Ingest(messagelog.RawMessage{
		ID:        "m1",
		SenderID:  "p2",
		Text:      "反方回應",
		Side:      "AGAINST",
		Timestamp: "2023-11-14T22:13:20.000Z",
	})
	if msg.SenderID != "p2" || msg.Body != "反方回應" {
		t.Fatalf("unexpected canonical message: %+v", msg)
	}
}

// 數字 epoch 毫秒與 ISO 字串必須正規化為同一個絕對時刻
func TestTimestampShapesAgree(t *testing.T) {
	l := messagelog.NewLog()
	numeric, _ := l.Ingest(messagelog.RawMessage{ID: "a", Message: "x", Timestamp: float64(1700000000000)})
	textual, _ := l.Ingest(messagelog.RawMessage{ID: "b", Text: "y", Timestamp: "2023-11-14T22:13:20.000Z"})

	if !numeric.Timestamp.Equal(textual.Timestamp) {
		t.Fatalf("timestamps disagree: numeric %v textual %v", numeric.Timestamp, textual.Timestamp)
	}
}

func TestIngestIdempotent(t *testing.T) {
	l := messagelog.NewLog()
	raw := messagelog.RawMessage{ID: "m1", Sender: "p1", Message: "first", Timestamp: float64(1)}
	l.Ingest(raw)

	// 同一個 ID 帶著不同內容再送一次
	dup := messagelog.RawMessage{ID: "m1", Sender: "p9", Message: "second", Timestamp: float64(2)}
	msg, appended := l.Ingest(dup)
	if appended {
		t.Fatal("duplicate id should not append")
	}
	if msg.Body != "first" {
		t.Fatalf("duplicate ingest returned new content: %q", msg.Body)
	}
	if l.Len() != 1 {
		t.Fatalf("log length changed on duplicate: got %d", l.Len())
	}
}

func TestMissingBodyFallsBack(t *testing.T) {
	l := messagelog.NewLog()
	msg, _ := l.Ingest(messagelog.RawMessage{ID: "m1", Sender: "p1", Timestamp: float64(0)})
	if msg.Body != messagelog.PlaceholderBody {
		t.Fatalf("missing body should use placeholder: got %q", msg.Body)
	}
	for m := range l.All() {
		if m.Body == "" {
			t.Fatal("canonical body must never be empty")
		}
	}
}

func TestMissingIDGetsGenerated(t *testing.T) {
	l := messagelog.NewLog()
	a, _ := l.Ingest(messagelog.RawMessage{Sender: "p1", Message: "x"})
	b, _ := l.Ingest(messagelog.RawMessage{Sender: "p1", Message: "x"})
	if a.ID == "" || b.ID == "" {
		t.Fatal("generated id missing")
	}
	if a.ID == b.ID {
		t.Fatal("generated ids should differ")
	}
	if l.Len() != 2 {
		t.Fatalf("unexpected length: got %d", l.Len())
	}
}

func TestUnparseableTimestampFallsBack(t *testing.T) {
	l := messagelog.NewLog()
	before := time.Now().Add(-time.Second)
	msg, _ := l.Ingest(messagelog.RawMessage{ID: "m1", Message: "x", Timestamp: "not-a-date"})
	if msg.Timestamp.Before(before) {
		t.Fatalf("fallback timestamp should be near now: got %v", msg.Timestamp)
	}
}

func TestAllIsRestartableAndOrdered(t *testing.T) {
	l := messagelog.NewLog()
	l.Append(messagelog.Message{ID: "m1", Body: "one"})
	l.Append(messagelog.Message{ID: "m2", Body: "two"})
	l.Append(messagelog.Message{ID: "m3", Body: "three"})

	seq := l.All()
	for round := 0; round < 2; round++ {
		var got []string
		for m := range seq {
			got = append(got, m.ID)
		}
		want := []string{"m1", "m2", "m3"}
		if len(got) != len(want) {
			t.Fatalf("round %d: got %d messages want %d", round, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("round %d: position %d = %q, want %q", round, i, got[i], want[i])
			}
		}
	}
}

func TestAllEarlyBreak(t *testing.T) {
	l := messagelog.NewLog()
	l.Append(messagelog.Message{ID: "m1"})
	l.Append(messagelog.Message{ID: "m2"})

	count := 0
	for range l.All() {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("early break consumed %d messages", count)
	}
}
