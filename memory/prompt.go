package memory

import (
	"fmt"
	"strings"
)

// BuildContextualPrompt assembles the companion-LLM prompt from the user
// context, the most recent exchanges, the top-scored relevant past
// exchanges, and any extra recall lines supplied by the vector memory.
func (l *Ledger) BuildContextualPrompt(currentMessage string, recall []string) string {
	ctx := l.Context()
	recent := l.Recent(3)
	relevant := l.Search(currentMessage, 2)

	var b strings.Builder

	b.WriteString("사용자 정보:\n")
	fmt.Fprintf(&b, "- 이름: %s\n", ctx.Name)
	fmt.Fprintf(&b, "- 최근 건강 상태: %s\n", lastJoined(ctx.HealthKeywords, 3))
	fmt.Fprintf(&b, "- 최근 언급한 가족: %s\n", lastJoined(ctx.FamilyKeywords, 3))

	b.WriteString("\n최근 대화:\n")
	for i, entry := range recent {
		fmt.Fprintf(&b, "%d. 사용자: %q → AI: %q\n", i+1, entry.Utterance, entry.Response)
	}

	b.WriteString("\n관련 과거 대화:\n")
	for i, entry := range relevant {
		fmt.Fprintf(&b, "%d. %q (%s)\n", i+1, entry.Utterance, entry.Timestamp.Format("2006-01-02"))
	}

	if len(recall) > 0 {
		b.WriteString("\n장기 기억:\n")
		for i, line := range recall {
			fmt.Fprintf(&b, "%d. %s\n", i+1, line)
		}
	}

	fmt.Fprintf(&b, "\n현재 사용자 메시지: %q\n", currentMessage)
	b.WriteString("\n위 컨텍스트를 참고하여 따뜻하고 공감하는 답변을 생성하세요.")

	return b.String()
}

func lastJoined(items []string, n int) string {
	if len(items) == 0 {
		return "정보 없음"
	}
	if len(items) > n {
		items = items[len(items)-n:]
	}
	return strings.Join(items, ", ")
}
