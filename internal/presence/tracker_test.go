package presence_test

import (
	"testing"
	"time"

	"debate_arena/internal/presence"
)

func TestOnJoinCreatesActiveRecord(t *testing.T) {
	tr := presence.NewTracker()
	tr.OnJoin(presence.Participant{ID: "p1", DisplayName: "Alice", Side: presence.SideFor})

	snap := tr.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("unexpected participant count: got %d want 1", len(snap))
	}
	p := snap[0]
	if !p.IsActive {
		t.Fatal("joined participant should be active")
	}
	if p.JoinedAt.IsZero() || p.LastSeen.IsZero() {
		t.Fatal("JoinedAt and LastSeen should be set on join")
	}
	if p.Side != presence.SideFor {
		t.Fatalf("unexpected side: got %q", p.Side)
	}
}

func TestJoinedAtNeverMovesBackward(t *testing.T) {
	tr := presence.NewTracker()
	tr.OnJoin(presence.Participant{ID: "p1", DisplayName: "Alice"})
	first := tr.Snapshot()[0].JoinedAt

	// 亂序送達的第二個加入事件帶著更早的 JoinedAt
	tr.OnJoin(presence.Participant{
		ID:          "p1",
		DisplayName: "Alice Cooper",
		JoinedAt:    first.Add(-time.Hour),
	})
	tr.OnHeartbeat("p1")

	snap := tr.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("duplicate join created a second record: got %d", len(snap))
	}
	if !snap[0].JoinedAt.Equal(first) {
		t.Fatalf("JoinedAt moved: got %v want %v", snap[0].JoinedAt, first)
	}
	// 可變欄位由後到的事件覆蓋
	if snap[0].DisplayName != "Alice Cooper" {
		t.Fatalf("display name not updated: got %q", snap[0].DisplayName)
	}
}

func TestHeartbeatUpdatesLastSeen(t *testing.T) {
	tr := presence.NewTracker()
	tr.OnJoin(presence.Participant{ID: "p1"})
	before := tr.Snapshot()[0].LastSeen

	time.Sleep(5 * time.Millisecond)
	tr.OnHeartbeat("p1")

	after := tr.Snapshot()[0].LastSeen
	if !after.After(before) {
		t.Fatalf("LastSeen not advanced: before %v after %v", before, after)
	}
}

func TestHeartbeatUnknownIsImplicitJoin(t *testing.T) {
	tr := presence.NewTracker()
	tr.OnHeartbeat("ghost")

	snap := tr.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("implicit join missing: got %d records", len(snap))
	}
	if snap[0].ID != "ghost" || !snap[0].IsActive {
		t.Fatalf("unexpected implicit join record: %+v", snap[0])
	}
}

func TestLeaveRetainsRecord(t *testing.T) {
	tr := presence.NewTracker()
	tr.OnJoin(presence.Participant{ID: "p1", DisplayName: "Alice"})
	tr.OnLeave("p1")

	snap := tr.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("leave should retain the record: got %d", len(snap))
	}
	if snap[0].IsActive {
		t.Fatal("left participant should be inactive")
	}
	if snap[0].LeftAt == nil {
		t.Fatal("LeftAt should be set on leave")
	}
	if tr.ActiveCount() != 0 {
		t.Fatalf("unexpected active count: got %d", tr.ActiveCount())
	}
}

func TestRejoinReusesRecord(t *testing.T) {
	tr := presence.NewTracker()
	tr.OnJoin(presence.Participant{ID: "p1", DisplayName: "Alice", Side: presence.SideFor})
	original := tr.Snapshot()[0].JoinedAt

	tr.OnLeave("p1")
	tr.OnJoin(presence.Participant{ID: "p1", DisplayName: "Alice"})

	snap := tr.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("rejoin created a second record: got %d", len(snap))
	}
	p := snap[0]
	if !p.IsActive {
		t.Fatal("rejoined participant should be active")
	}
	if p.LeftAt != nil {
		t.Fatal("LeftAt should be cleared on rejoin")
	}
	if !p.JoinedAt.Equal(original) {
		t.Fatalf("rejoin changed JoinedAt: got %v want %v", p.JoinedAt, original)
	}
}

func TestSnapshotOrderedByJoinedAt(t *testing.T) {
	tr := presence.NewTracker()
	tr.OnJoin(presence.Participant{ID: "p1", DisplayName: "Alice"})
	time.Sleep(2 * time.Millisecond)
	tr.OnJoin(presence.Participant{ID: "p2", DisplayName: "Bob"})
	time.Sleep(2 * time.Millisecond)
	tr.OnJoin(presence.Participant{ID: "p3", DisplayName: "Carol"})

	snap := tr.Snapshot()
	want := []string{"p1", "p2", "p3"}
	for i, id := range want {
		if snap[i].ID != id {
			t.Fatalf("snapshot[%d] = %q, want %q", i, snap[i].ID, id)
		}
	}
}
