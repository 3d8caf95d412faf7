package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/zzonde-labs/zzonde-go-sdk/engine"
	"github.com/zzonde-labs/zzonde-go-sdk/models"
	"github.com/zzonde-labs/zzonde-go-sdk/utils"
)

type intentRequest struct {
	Command string `json:"command"`
}

// HandleIntentAPI is the request/response counterpart of the websocket
// command flow: POST {"command": ...} returns {intent, confidence,
// response, fallback}. The remote classifier answers when it can; any
// failure, low confidence, or explicit fallback is answered by the
// deterministic resolver with the fallback flag set.
func HandleIntentAPI(w http.ResponseWriter, r *http.Request, openaiClient *utils.OpenAIClient) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Command == "" {
		http.Error(w, "Command is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := openaiClient.ClassifyCommand(ctx, req.Command)
	if err != nil || result.Fallback ||
		result.Intent == models.IntentUnknown ||
		result.Confidence < remoteConfidenceThreshold {
		if err != nil {
			zap.L().Warn("Remote classifier failed on intent API", zap.Error(err))
		}
		intent := engine.ResolveIntent(req.Command)
		response := spokenResponse(intent)
		if intent == models.IntentUnknown {
			response = clarifyingResponse(req.Command)
		}
		result = &models.IntentResult{
			Intent:     intent,
			Confidence: 1.0,
			Response:   response,
			Fallback:   true,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
