package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zzonde-labs/zzonde-go-sdk/memory"
	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

// SessionStore is the persistence collaborator for a session: ledger
// exports and emergency contacts, keyed by user.
type SessionStore interface {
	Save(ctx context.Context, userID string, export []byte) error
	Load(ctx context.Context, userID string, ledger *memory.Ledger) error
	SaveContacts(ctx context.Context, userID string, contacts []models.EmergencyContact) error
	LoadContacts(ctx context.Context, userID string) ([]models.EmergencyContact, error)
}

type CompanionSession struct {
	ID                   string
	UserID               string
	CurrentContext       context.Context
	CancelCurrentContext context.CancelFunc
	Connection           *websocket.Conn
	RedisClient          *redis.Client
	Logger               *zap.Logger

	// Channels for communication between handlers
	TranscriptionCh chan string
	AssessmentCh    chan models.EmergencyAssessment

	// Session state
	IsActive     bool
	StartTime    time.Time
	LastActivity time.Time

	// Configuration
	SafetyInterval time.Duration // How often the background safety check runs

	// Current transcript buffer
	CurrentTranscript string

	// Conversation state. The ledger is a read-modify-write structure,
	// so all access goes through RecordExchange / WithLedger under the mutex.
	Ledger   *memory.Ledger
	Store    SessionStore
	ledgerMu sync.Mutex

	SpeechHandler  *SpeechHandler
	CommandHandler *CommandHandler
	SafetyHandler  *SafetyHandler
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow connections from any origin
	},
}

func NewCompanionSession(id, userID string, conn *websocket.Conn, redisClient *redis.Client) *CompanionSession {
	ctx, cancel := context.WithCancel(context.Background())

	// Create a logger with session ID context
	logger := zap.L().With(zap.String("session_id", id), zap.String("user_id", userID))

	session := &CompanionSession{
		ID:                   id,
		UserID:               userID,
		CurrentContext:       ctx,
		CancelCurrentContext: cancel,
		Connection:           conn,
		RedisClient:          redisClient,
		Logger:               logger,

		TranscriptionCh: make(chan string, 100),
		AssessmentCh:    make(chan models.EmergencyAssessment, 10),

		IsActive:     true,
		StartTime:    time.Now(),
		LastActivity: time.Now(),

		SafetyInterval: time.Minute, // Default: background safety check every minute

		CurrentTranscript: "",

		Ledger: memory.NewLedger(memory.DefaultCapacity),
		Store:  memory.NewRedisStore(redisClient),
	}

	return session
}

func (cs *CompanionSession) UpdateContext() {
	cs.CancelCurrentContext()
	cs.CurrentContext, cs.CancelCurrentContext = context.WithCancel(context.Background())
	cs.LastActivity = time.Now()
}

// RecordExchange appends one exchange to the ledger and persists the
// updated state, returning the entry. Both the Record and the Export
// snapshot happen under the ledger lock; only the redis round trip runs
// outside it, on the already-serialized bytes.
func (cs *CompanionSession) RecordExchange(utterance, response string, meta *models.EntryMetadata) models.ConversationEntry {
	cs.ledgerMu.Lock()
	entry := cs.Ledger.Record(utterance, response, meta)
	export, err := cs.Ledger.Export()
	cs.ledgerMu.Unlock()

	if err != nil {
		cs.Logger.Error("Failed to export memory", zap.Error(err))
		return entry
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cs.Store.Save(ctx, cs.UserID, export); err != nil {
		cs.Logger.Error("Failed to persist memory", zap.Error(err))
	}

	return entry
}

// WithLedger runs fn while holding the ledger lock, for reads that need a
// consistent view (recent history, search, context).
func (cs *CompanionSession) WithLedger(fn func(l *memory.Ledger)) {
	cs.ledgerMu.Lock()
	defer cs.ledgerMu.Unlock()
	fn(cs.Ledger)
}

func (cs *CompanionSession) Stop() {
	cs.Logger.Info("Stopping session")
	cs.IsActive = false

	// Send SESSION_END to stop all goroutines
	select {
	case cs.TranscriptionCh <- models.SESSION_END:
	default:
	}

	cs.CancelCurrentContext()

	close(cs.TranscriptionCh)
	close(cs.AssessmentCh)

	if cs.Connection != nil {
		cs.Connection.Close()
	}
}

type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// HandleCompanionSession upgrades the connection and runs one companion
// session: speech in, resolved commands and safety assessments out.
func HandleCompanionSession(w http.ResponseWriter, r *http.Request, redisClient *redis.Client) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Error("Failed to upgrade to websocket", zap.Error(err))
		return
	}
	defer conn.Close()

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = "anonymous"
	}

	sessionID := uuid.New().String()
	session := NewCompanionSession(sessionID, userID, conn, redisClient)
	session.Logger.Info("New companion session started")

	// Restore persisted memory before any classification uses history
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Second)
	if err := session.Store.Load(loadCtx, userID, session.Ledger); err != nil {
		session.Logger.Warn("Failed to restore memory, starting empty", zap.Error(err))
	}
	cancelLoad()

	commandHandler := InitCommandHandler(session)
	session.CommandHandler = commandHandler

	safetyHandler := InitSafetyHandler(session)
	session.SafetyHandler = safetyHandler

	speechHandler := InitSpeechHandler(session)
	session.SpeechHandler = speechHandler

	session.listenWebsocketMessages(conn)

	session.Logger.Info("Companion session ended")
	speechHandler.Close()
	safetyHandler.Close()
	commandHandler.Close()
	session.Stop()
}

func (session *CompanionSession) listenWebsocketMessages(conn *websocket.Conn) {
	for {
		var msg WebSocketMessage
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				session.Logger.Error("WebSocket error", zap.Error(err))
			}
			return
		}
		session.LastActivity = time.Now()

		switch msg.Type {
		case "voice_command":
			if text, ok := msg.Data.(string); ok {
				session.CommandHandler.ProcessCommand(text)
			} else {
				session.Logger.Error("Invalid voice_command data format")
			}
		case "chat":
			if text, ok := msg.Data.(string); ok {
				session.CommandHandler.ProcessChat(text)
			} else {
				session.Logger.Error("Invalid chat data format")
			}
		case "audio_data":
			session.handleAudioData(msg.Data)
		case "set_name":
			if name, ok := msg.Data.(string); ok {
				session.WithLedger(func(l *memory.Ledger) { l.SetName(name) })
			}
		case "config":
			session.handleConfigMessage(msg.Data)
		case "resolve_emergency":
			if id, ok := msg.Data.(string); ok {
				session.SafetyHandler.ResolveEvent(id)
			}
		case "set_contacts":
			session.handleSetContacts(msg.Data)
		case "emergency_status":
			session.sendWebSocketMessage("emergency_status", map[string]interface{}{
				"unresolved": session.SafetyHandler.UnresolvedEvents(),
			})
		case "ping":
			session.sendWebSocketMessage("pong", nil)
		case "stop":
			session.Logger.Info("Received stop command from client")
			session.sendWebSocketMessage("stop_confirmation", map[string]interface{}{
				"session_id": session.ID,
				"message":    "Session stopped successfully",
			})
			return
		default:
			session.Logger.Warn("Unknown message type", zap.String("type", msg.Type))
		}
	}
}

func (session *CompanionSession) handleConfigMessage(data interface{}) {
	configData, ok := data.(map[string]interface{})
	if !ok {
		session.Logger.Error("Invalid config data format")
		return
	}

	if safetyFreq, exists := configData["safety_interval"]; exists {
		if freqStr, ok := safetyFreq.(string); ok {
			if duration, err := time.ParseDuration(freqStr); err == nil {
				session.SafetyInterval = duration
				session.SafetyHandler.SetInterval(duration)
				session.Logger.Info("Updated safety check interval", zap.Duration("interval", duration))
			}
		}
	}

	session.sendWebSocketMessage("config_updated", map[string]interface{}{
		"safety_interval": session.SafetyInterval.String(),
	})
}

func (session *CompanionSession) handleSetContacts(data interface{}) {
	// Data arrives as generic JSON; round-trip through encoding/json to
	// get typed contacts
	raw, err := json.Marshal(data)
	if err != nil {
		session.Logger.Error("Invalid contacts data", zap.Error(err))
		return
	}
	var contacts []models.EmergencyContact
	if err := json.Unmarshal(raw, &contacts); err != nil {
		session.Logger.Error("Invalid contacts format", zap.Error(err))
		return
	}

	if err := session.SafetyHandler.SaveContacts(contacts); err != nil {
		session.Logger.Error("Failed to save emergency contacts", zap.Error(err))
		return
	}
	session.sendWebSocketMessage("contacts_updated", map[string]interface{}{
		"count": len(contacts),
	})
}

func (session *CompanionSession) handleAudioData(data interface{}) {
	session.Logger.Debug("Received audio data")

	var audioBytes []byte
	switch v := data.(type) {
	case string:
		audioBytes = []byte(v)
	case []byte:
		audioBytes = v
	case map[string]interface{}:
		if payload, ok := v["payload"].(string); ok {
			audioBytes = []byte(payload)
		}
	default:
		session.Logger.Warn("Unknown audio data format")
		return
	}

	if err := session.SpeechHandler.ProcessAudioData(audioBytes); err != nil {
		session.Logger.Error("Failed to process audio data", zap.Error(err))
	}
}

func (session *CompanionSession) sendWebSocketMessage(msgType string, data interface{}) {
	msg := WebSocketMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now(),
	}

	err := session.Connection.WriteJSON(msg)
	if err != nil {
		session.Logger.Error("Failed to send websocket message", zap.Error(err), zap.String("type", msgType))
	}
}
