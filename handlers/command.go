package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"go.uber.org/zap"

	"github.com/zzonde-labs/zzonde-go-sdk/engine"
	"github.com/zzonde-labs/zzonde-go-sdk/memory"
	"github.com/zzonde-labs/zzonde-go-sdk/models"
	"github.com/zzonde-labs/zzonde-go-sdk/utils"
)

// remoteConfidenceThreshold gates the remote classifier: anything below
// it is treated the same as an explicit fallback signal.
const remoteConfidenceThreshold = 0.7

// CommandClassifier is the remote intent classifier collaborator. The
// deterministic resolver is always available behind it.
type CommandClassifier interface {
	ClassifyCommand(ctx context.Context, command string) (*models.IntentResult, error)
}

// ReplyGenerator produces the companion chat response from a contextual
// prompt.
type ReplyGenerator interface {
	GenerateCompanionReply(ctx context.Context, contextualPrompt string) (string, error)
}

type CommandHandler struct {
	session     *CompanionSession
	classifier  CommandClassifier
	generator   ReplyGenerator
	pineconeIdx *pinecone.IndexConnection
	isActive    bool
}

func InitCommandHandler(session *CompanionSession) *CommandHandler {
	session.Logger.Info("Initializing Command Handler...")

	openaiClient := utils.NewOpenAIClient()

	pineconeIdx, err := utils.GetPineconeIndex(&session.UserID)
	if err != nil {
		session.Logger.Warn("Failed to initialize Pinecone connection", zap.Error(err))
		// Continue without vector recall - keyword search still works
	}

	commandHandler := &CommandHandler{
		session:     session,
		classifier:  openaiClient,
		generator:   openaiClient,
		pineconeIdx: pineconeIdx,
		isActive:    true,
	}

	session.Logger.Info("Command Handler initialized")

	return commandHandler
}

// ProcessCommand resolves one voice/text command to an intent, records
// the exchange, and reports the result plus any safety assessment to the
// client. The remote classifier is tried first; on any failure, explicit
// fallback signal, low confidence, or unknown answer the deterministic
// resolver decides.
func (h *CommandHandler) ProcessCommand(command string) {
	if command == "" {
		return
	}

	h.session.Logger.Info("Processing command", zap.String("command", command))

	resolved := h.resolve(command)

	if resolved.Intent == models.IntentUnknown {
		resolved.Response = clarifyingResponse(command)
	}

	assessment := h.session.SafetyHandler.Assess(command)

	entry := h.session.RecordExchange(command, resolved.Response, &models.EntryMetadata{
		Emotion: assessment.Emotion,
	})
	go h.indexExchange(entry)

	h.session.sendWebSocketMessage("command_resolved", resolved)
}

// ProcessChat runs one free-form companion exchange: triage, contextual
// reply, record.
func (h *CommandHandler) ProcessChat(message string) {
	if message == "" {
		return
	}

	h.session.Logger.Info("Processing chat message", zap.String("message", message))

	assessment := h.session.SafetyHandler.Assess(message)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	recall, err := utils.FetchRelevantMemories(ctx, h.pineconeIdx, message)
	if err != nil {
		h.session.Logger.Error("Failed to fetch vector memories", zap.Error(err))
		recall = nil
	}

	var prompt string
	h.session.WithLedger(func(l *memory.Ledger) {
		prompt = l.BuildContextualPrompt(message, recall)
	})

	reply, err := h.generator.GenerateCompanionReply(ctx, prompt)
	if err != nil {
		h.session.Logger.Error("Failed to generate companion reply", zap.Error(err))
		reply = "죄송해요, 잠시 생각이 안 나네요. 다시 말씀해 주시겠어요?"
	}

	entry := h.session.RecordExchange(message, reply, &models.EntryMetadata{
		Emotion: assessment.Emotion,
	})
	go h.indexExchange(entry)

	h.session.sendWebSocketMessage("chat_response", map[string]interface{}{
		"response": reply,
		"emotion":  assessment.Emotion,
	})
}

// resolve tries the remote classifier, then the deterministic resolver.
func (h *CommandHandler) resolve(command string) models.ResolvedCommand {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.classifier.ClassifyCommand(ctx, command)
	if err == nil && !result.Fallback &&
		result.Intent != models.IntentUnknown &&
		result.Confidence >= remoteConfidenceThreshold {
		h.session.Logger.Info("Remote classifier resolved command",
			zap.String("intent", string(result.Intent)),
			zap.Float64("confidence", result.Confidence))
		return models.ResolvedCommand{
			Command:    command,
			Intent:     result.Intent,
			Route:      routeForIntent(result.Intent),
			Response:   result.Response,
			Confidence: result.Confidence,
			Source:     "remote",
			Timestamp:  time.Now(),
		}
	}
	if err != nil {
		h.session.Logger.Warn("Remote classifier failed, using rule-based resolver", zap.Error(err))
	} else {
		h.session.Logger.Debug("Remote classifier deferred to rule-based resolver",
			zap.Bool("fallback", result.Fallback),
			zap.Float64("confidence", result.Confidence))
	}

	intent := engine.ResolveIntent(command)
	return models.ResolvedCommand{
		Command:    command,
		Intent:     intent,
		Route:      routeForIntent(intent),
		Response:   spokenResponse(intent),
		Confidence: 1.0,
		Source:     "rules",
		Timestamp:  time.Now(),
	}
}

// indexExchange upserts the exchange into vector memory, best effort.
func (h *CommandHandler) indexExchange(entry models.ConversationEntry) {
	if h.pineconeIdx == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := utils.IndexConversation(ctx, h.pineconeIdx, entry); err != nil {
		h.session.Logger.Error("Failed to index exchange", zap.Error(err))
	}
}

func (h *CommandHandler) Close() {
	h.session.Logger.Info("Closing Command Handler")
	h.isActive = false
}

// routeForIntent maps each intent to the page the navigation collaborator
// should open. Text-size intents are UI effects, not navigations.
func routeForIntent(intent models.Intent) string {
	switch intent {
	case models.IntentJobs:
		return "/jobs"
	case models.IntentCommunity:
		return "/community"
	case models.IntentMarketplace:
		return "/marketplace"
	case models.IntentMedicine, models.IntentTodo, models.IntentHealth:
		return "/health"
	case models.IntentNews:
		return "/news"
	case models.IntentWeather:
		return "/weather"
	case models.IntentSettings:
		return "/settings"
	case models.IntentHome:
		return "/"
	default:
		return ""
	}
}

func spokenResponse(intent models.Intent) string {
	switch intent {
	case models.IntentJobs:
		return "네, 알겠습니다. 일거리 찾기 페이지로 이동합니다."
	case models.IntentCommunity:
		return "네, 알겠습니다. 동네 이야기 페이지로 이동합니다."
	case models.IntentMarketplace:
		return "네, 알겠습니다. 나눔 장터 페이지로 이동합니다."
	case models.IntentMedicine:
		return "오늘 저녁 6시에 비타민을 드실 시간입니다. 건강 페이지로 이동합니다."
	case models.IntentTodo:
		return "오늘 할 일을 알려드립니다. 복약 1건이 남아있고, 공원 산책 일정이 있습니다. 건강 페이지로 이동합니다."
	case models.IntentTextSizeLarge:
		return "네, 알겠습니다. 글씨를 크게 변경합니다."
	case models.IntentTextSizeSmall:
		return "네, 알겠습니다. 글씨를 작게 변경합니다."
	case models.IntentTextSizeMedium:
		return "네, 알겠습니다. 글씨를 보통 크기로 변경합니다."
	case models.IntentNews:
		return "네, 알겠습니다. 뉴스 페이지로 이동합니다."
	case models.IntentWeather:
		return "네, 알겠습니다. 날씨 정보를 확인합니다."
	case models.IntentHealth:
		return "네, 알겠습니다. 건강 페이지로 이동합니다."
	case models.IntentSettings:
		return "네, 알겠습니다. 설정 페이지로 이동합니다."
	case models.IntentHome:
		return "네, 알겠습니다. 홈 화면으로 이동합니다."
	default:
		return ""
	}
}

func clarifyingResponse(command string) string {
	return fmt.Sprintf("%q 명령을 이해하지 못했습니다. 다시 말씀해주시거나, 일자리 찾기, 동네 이야기, 나눔 장터, 복약 시간 알려줘 등을 말씀해주세요.", command)
}
