// Package memory implements the conversation ledger: a bounded,
// most-recent-first history of exchanges plus the user-context projection
// maintained over it. A Ledger is constructor-injected, never a package
// singleton, and is owned by a single session goroutine; Record performs a
// read-modify-write, so concurrent callers need their own discipline.
package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zzonde-labs/zzonde-go-sdk/engine"
	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

const (
	// DefaultCapacity bounds the number of retained exchanges.
	DefaultCapacity = 100

	maxConcerns = 10

	// Distinct health/family keyword sets get the same cap-and-evict
	// treatment as concerns so no projection list grows without bound.
	maxProjectionKeywords = 50
)

// DefaultUserName is used until the caller sets a real name.
const DefaultUserName = "사용자"

// Ledger is the bounded conversation history plus its UserContext
// projection. Entries are stored oldest-first so insertion is an
// amortized O(1) append; Recent, Search, and Export all present
// most-recent-first order. The oldest entry is evicted once the
// capacity is exceeded.
type Ledger struct {
	capacity int
	entries  []models.ConversationEntry
	context  models.UserContext
}

// NewLedger creates an empty ledger. A non-positive capacity falls back
// to DefaultCapacity.
func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{
		capacity: capacity,
		context: models.UserContext{
			Name: DefaultUserName,
		},
	}
}

// Capacity returns the configured entry bound.
func (l *Ledger) Capacity() int { return l.capacity }

// Len returns the number of retained entries.
func (l *Ledger) Len() int { return len(l.entries) }

// SetName records the user's name in the context projection.
func (l *Ledger) SetName(name string) {
	if name != "" {
		l.context.Name = name
	}
}

// Context returns a copy of the current user-context projection.
func (l *Ledger) Context() models.UserContext {
	ctx := l.context
	ctx.HealthKeywords = append([]string(nil), l.context.HealthKeywords...)
	ctx.FamilyKeywords = append([]string(nil), l.context.FamilyKeywords...)
	ctx.Concerns = append([]models.Concern(nil), l.context.Concerns...)
	return ctx
}

// Record appends one exchange. Emotion and category come from the
// supplied metadata when present and valid, otherwise from the
// classifier. The oldest entry is evicted past capacity and the
// user-context projection updated. Metadata carrying values outside the
// closed enumerations still records the raw entry (classified from
// scratch) but skips the context update.
func (l *Ledger) Record(utterance, response string, meta *models.EntryMetadata) models.ConversationEntry {
	entry := models.ConversationEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Utterance: utterance,
		Response:  response,
		Emotion:   engine.ClassifyEmotion(utterance),
		Category:  engine.Categorize(utterance),
		Keywords:  engine.ExtractKeywords(utterance),
	}

	updateContext := true
	if meta != nil {
		if !validMetadata(meta) {
			updateContext = false
		} else {
			if meta.Emotion != "" {
				entry.Emotion = meta.Emotion
			}
			if meta.Category != "" {
				entry.Category = meta.Category
			}
		}
	}

	l.entries = append(l.entries, entry)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[1:]
	}

	if updateContext {
		l.updateContext(entry)
	}

	return entry
}

// Recent returns up to count entries, most recent first.
func (l *Ledger) Recent(count int) []models.ConversationEntry {
	if count < 0 {
		count = 0
	}
	if count > len(l.entries) {
		count = len(l.entries)
	}
	recent := make([]models.ConversationEntry, count)
	for i := 0; i < count; i++ {
		recent[i] = l.entries[len(l.entries)-1-i]
	}
	return recent
}

// ScoredEntry is one search result with its relevance score.
type ScoredEntry struct {
	models.ConversationEntry
	Score int
}

// Search scores every entry against the query: 10 per query keyword
// found in the utterance plus response, plus 5 when the query's topic
// category matches the entry's. It drops zero scores, sorts descending
// (ties keep most-recent-first order), and truncates to limit.
func (l *Ledger) Search(query string, limit int) []ScoredEntry {
	keywords := engine.ExtractKeywords(query)
	queryCategory := engine.Categorize(query)

	// Walk newest to oldest so the stable sort keeps ties
	// most-recent-first
	var scored []ScoredEntry
	for i := len(l.entries) - 1; i >= 0; i-- {
		entry := l.entries[i]
		text := strings.ToLower(entry.Utterance + " " + entry.Response)

		score := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				score += 10
			}
		}
		if entry.Category == queryCategory {
			score += 5
		}

		if score > 0 {
			scored = append(scored, ScoredEntry{ConversationEntry: entry, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func validMetadata(meta *models.EntryMetadata) bool {
	switch meta.Emotion {
	case "", models.EmotionSad, models.EmotionHappy, models.EmotionAngry,
		models.EmotionWorried, models.EmotionNeutral:
	default:
		return false
	}
	switch meta.Category {
	case "", models.CategoryHealth, models.CategoryFamily, models.CategoryEmotion,
		models.CategoryDaily, models.CategoryWork, models.CategorySocial,
		models.CategoryGeneral:
	default:
		return false
	}
	return true
}

func (l *Ledger) updateContext(entry models.ConversationEntry) {
	switch entry.Category {
	case models.CategoryHealth:
		l.context.HealthKeywords = addDistinct(l.context.HealthKeywords, entry.Keywords)
	case models.CategoryFamily:
		l.context.FamilyKeywords = addDistinct(l.context.FamilyKeywords, entry.Keywords)
	}

	if entry.Emotion.IsNegative() {
		l.context.Concerns = append(l.context.Concerns, models.Concern{
			Text:      entry.Utterance,
			Timestamp: entry.Timestamp,
		})
		if len(l.context.Concerns) > maxConcerns {
			l.context.Concerns = l.context.Concerns[len(l.context.Concerns)-maxConcerns:]
		}
	}

	l.context.LastUpdated = entry.Timestamp
}

func addDistinct(existing []string, keywords []string) []string {
	for _, kw := range keywords {
		found := false
		for _, have := range existing {
			if have == kw {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, kw)
		}
	}
	if len(existing) > maxProjectionKeywords {
		existing = existing[len(existing)-maxProjectionKeywords:]
	}
	return existing
}
