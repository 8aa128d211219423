// Package transcript 將結束的辯論會話輸出為純文字逐字稿。
package transcript

import (
	"fmt"
	"strings"

	"debate_arena/internal/presence"
	"debate_arena/internal/session"
)

// Header 逐字稿的固定起始行
const Header = "DEBATE TRANSCRIPT"

// Export 將會話快照輸出為 UTF-8 純文字逐字稿
// 純函式：同一份快照必定產生相同的輸出，訊息按插入順序排列
func Export(snap session.Snapshot) string {
	var b strings.Builder

	b.WriteString(Header)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Topic: %s\n", snap.Topic)
	fmt.Fprintf(&b, "Room: %s\n", snap.Code)
	if snap.Host != "" {
		fmt.Fprintf(&b, "Host: %s\n", snap.Host)
	}
	if len(snap.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(snap.Tags, ", "))
	}

	fmt.Fprintf(&b, "Participants (%d):\n", len(snap.Participants))
	for _, p := range snap.Participants {
		b.WriteString("  - ")
		b.WriteString(participantLabel(p))
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "Created: %s\n", snap.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
	if !snap.EndedAt.IsZero() {
		fmt.Fprintf(&b, "Ended: %s\n", snap.EndedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
	}

	// 每則發言一行，發言之間以空行分隔
	for _, msg := range snap.Messages {
		b.WriteByte('\n')
		speaker := msg.SenderName
		if speaker == "" {
			speaker = msg.SenderID
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, msg.Body)
	}

	return b.String()
}

func participantLabel(p presence.Participant) string {
	name := p.DisplayName
	if name == "" {
		name = p.ID
	}
	if p.Side == presence.SideUnassigned {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, p.Side)
}
