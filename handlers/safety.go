package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zzonde-labs/zzonde-go-sdk/engine"
	"github.com/zzonde-labs/zzonde-go-sdk/memory"
	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

const maxActionLog = 50

// Spoken prompts surfaced with assessments. The engine only classifies;
// these belong to the caller side of that boundary.
const (
	criticalPrompt      = "위급 상황이 감지되었습니다. 도움이 필요하신가요?"
	warningPrompt       = "많이 힘드신 것 같아요. 괜찮으신가요?"
	periodicCheckPrompt = "요즘 많이 힘드신 것 같아요. 제가 도와드릴 수 있을까요?"
)

type safetyAction struct {
	Timestamp time.Time   `json:"timestamp"`
	Action    string      `json:"action"`
	Data      interface{} `json:"data,omitempty"`
}

// SafetyHandler owns emergency triage for a session: the inline
// per-exchange check and the coarser periodic background check. It never
// dials or messages anyone itself - critical and warning assessments are
// surfaced to the client and the emergency action collaborator.
type SafetyHandler struct {
	session *CompanionSession

	mu        sync.Mutex
	contacts  []models.EmergencyContact
	history   []models.EmergencyEvent
	actionLog []safetyAction

	intervalCh chan time.Duration
	isActive   bool
}

func InitSafetyHandler(session *CompanionSession) *SafetyHandler {
	session.Logger.Info("Initializing Safety Handler...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	contacts, err := session.Store.LoadContacts(ctx, session.UserID)
	cancel()
	if err != nil {
		session.Logger.Warn("Failed to load emergency contacts, using defaults", zap.Error(err))
		contacts = models.DefaultEmergencyContacts()
	}

	safetyHandler := &SafetyHandler{
		session:    session,
		contacts:   contacts,
		intervalCh: make(chan time.Duration, 1),
		isActive:   true,
	}

	session.Logger.Info("Safety Handler initialized")

	go safetyHandler.run()

	return safetyHandler
}

// run is the periodic background check: a warning when 3 of the last 5
// exchanges were sad or worried. Its window and threshold are distinct
// from the inline per-message check and stay that way.
func (h *SafetyHandler) run() {
	h.session.Logger.Info("Safety monitor started", zap.Duration("interval", h.session.SafetyInterval))

	ticker := time.NewTicker(h.session.SafetyInterval)
	defer ticker.Stop()

	for h.isActive {
		select {
		case <-ticker.C:
			h.periodicCheck()
		case interval := <-h.intervalCh:
			ticker.Reset(interval)
		case <-h.session.CurrentContext.Done():
			// Context rolls over between utterances; keep monitoring
		}
		if !h.session.IsActive {
			break
		}
	}

	h.session.Logger.Info("Safety monitor stopped")
}

func (h *SafetyHandler) periodicCheck() {
	var recent []models.ConversationEntry
	h.session.WithLedger(func(l *memory.Ledger) {
		recent = l.Recent(5)
	})

	assessment := engine.PeriodicAssess(recent)
	if !assessment.IsEmergency() {
		return
	}

	h.session.Logger.Info("Periodic safety check raised warning")
	h.logAction("periodic_warning", nil)
	h.session.sendWebSocketMessage("safety_check", map[string]interface{}{
		"level":  assessment.Level,
		"prompt": periodicCheckPrompt,
	})
}

// Assess runs the inline triage for one utterance against the 3 most
// recent ledger entries and handles any emergency it finds.
func (h *SafetyHandler) Assess(text string) models.EmergencyAssessment {
	var recent []models.ConversationEntry
	h.session.WithLedger(func(l *memory.Ledger) {
		recent = l.Recent(3)
	})

	assessment := engine.AssessEmergency(text, recent)
	if assessment.IsEmergency() {
		h.handleEmergency(assessment, text)
	}
	return assessment
}

func (h *SafetyHandler) handleEmergency(assessment models.EmergencyAssessment, text string) {
	event := models.EmergencyEvent{
		ID:         uuid.New().String(),
		Timestamp:  time.Now(),
		Assessment: assessment,
		Text:       text,
	}

	h.mu.Lock()
	h.history = append(h.history, event)
	contacts := h.contacts
	h.mu.Unlock()

	prompt := warningPrompt
	if assessment.Level == models.EmergencyCritical {
		prompt = criticalPrompt
	}

	h.session.Logger.Error("Emergency detected",
		zap.String("level", string(assessment.Level)),
		zap.String("keyword", assessment.Keyword),
		zap.String("emotion", string(assessment.Emotion)))

	h.session.sendWebSocketMessage("emergency", map[string]interface{}{
		"event_id": event.ID,
		"level":    assessment.Level,
		"emotion":  assessment.Emotion,
		"keyword":  assessment.Keyword,
		"reason":   assessment.Reason,
		"prompt":   prompt,
		"contacts": contacts,
	})

	h.logAction("emergency_detected", map[string]interface{}{
		"event_id": event.ID,
		"level":    assessment.Level,
	})

	go h.notifyEmergencyWebhook(event)
}

// notifyEmergencyWebhook posts the event to the emergency action
// collaborator, which decides about calls, SMS, or modals.
func (h *SafetyHandler) notifyEmergencyWebhook(event models.EmergencyEvent) {
	webhookEndpoint := os.Getenv("EMERGENCY_WEBHOOK")
	apiKey := os.Getenv("EMERGENCY_WEBHOOK_API_KEY")

	if webhookEndpoint == "" {
		h.session.Logger.Debug("No emergency webhook configured")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h.mu.Lock()
	contacts := h.contacts
	h.mu.Unlock()

	payload := map[string]interface{}{
		"session_id": h.session.ID,
		"user_id":    h.session.UserID,
		"event":      event,
		"contacts":   contacts,
		"timestamp":  time.Now(),
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		h.session.Logger.Error("Failed to marshal emergency payload", zap.Error(err))
		return
	}

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, "POST", webhookEndpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		h.session.Logger.Error("Failed to create emergency webhook request", zap.Error(err))
		return
	}

	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		h.session.Logger.Error("Failed to call emergency webhook", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		h.session.Logger.Info("Emergency webhook notified")
		h.logAction("webhook_notified", map[string]interface{}{"event_id": event.ID})
	} else {
		h.session.Logger.Error("Emergency webhook returned error status", zap.Int("status", resp.StatusCode))
	}
}

// ResolveEvent marks an emergency event as handled.
func (h *SafetyHandler) ResolveEvent(eventID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.history {
		if h.history[i].ID == eventID && !h.history[i].Resolved {
			h.history[i].Resolved = true
			h.history[i].ResolvedAt = time.Now()
			h.logActionLocked("emergency_resolved", map[string]interface{}{"event_id": eventID})
			return
		}
	}
}

// UnresolvedEvents returns the emergency events not yet marked resolved.
func (h *SafetyHandler) UnresolvedEvents() []models.EmergencyEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	var unresolved []models.EmergencyEvent
	for _, event := range h.history {
		if !event.Resolved {
			unresolved = append(unresolved, event)
		}
	}
	return unresolved
}

// SaveContacts replaces the emergency contact list and persists it.
func (h *SafetyHandler) SaveContacts(contacts []models.EmergencyContact) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.session.Store.SaveContacts(ctx, h.session.UserID, contacts); err != nil {
		return err
	}
	h.mu.Lock()
	h.contacts = contacts
	h.mu.Unlock()
	return nil
}

// SetInterval changes the background check cadence.
func (h *SafetyHandler) SetInterval(interval time.Duration) {
	select {
	case h.intervalCh <- interval:
	default:
	}
}

func (h *SafetyHandler) logAction(action string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logActionLocked(action, data)
}

func (h *SafetyHandler) logActionLocked(action string, data interface{}) {
	h.actionLog = append(h.actionLog, safetyAction{
		Timestamp: time.Now(),
		Action:    action,
		Data:      data,
	})
	if len(h.actionLog) > maxActionLog {
		h.actionLog = h.actionLog[len(h.actionLog)-maxActionLog:]
	}
}

func (h *SafetyHandler) Close() {
	h.session.Logger.Info("Closing Safety Handler")
	h.isActive = false
}
