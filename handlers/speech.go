package handlers

import (
	"strings"

	"go.uber.org/zap"

	"github.com/zzonde-labs/zzonde-go-sdk/models"
	"github.com/zzonde-labs/zzonde-go-sdk/utils"
)

// SpeechHandler is the speech I/O boundary: raw audio in, accumulated
// utterance text out to the command handler. The engine itself never
// touches audio.
type SpeechHandler struct {
	session        *CompanionSession
	deepgramClient *utils.DeepgramClient
	isActive       bool
}

func InitSpeechHandler(session *CompanionSession) *SpeechHandler {
	session.Logger.Info("Initializing Speech Handler...")

	deepgramClient := utils.InitDeepgramClient(
		"ko",  // Korean transcription
		"0.3", // Default confidence threshold
		session.TranscriptionCh,
	)

	deepgramClient.Connect()

	speechHandler := &SpeechHandler{
		session:        session,
		deepgramClient: deepgramClient,
		isActive:       true,
	}

	session.Logger.Info("Speech Handler initialized and connected to Deepgram")

	go speechHandler.handleTranscript()

	return speechHandler
}

func (h *SpeechHandler) handleTranscript() {
	for h.session.IsActive {
		transcript := <-h.session.TranscriptionCh
		if transcript == models.SESSION_END {
			h.session.Logger.Info("Speech handler received SESSION_END")
			return
		}

		h.session.Logger.Debug("Received transcript", zap.String("transcript", transcript))

		if transcript == models.END_OF_SPEECH {
			if h.session.CurrentTranscript == "" {
				continue
			}
			utterance := strings.TrimSpace(h.session.CurrentTranscript)
			h.session.Logger.Info("End of speech detected, processing utterance", zap.String("utterance", utterance))
			h.session.sendWebSocketMessage("transcript_final", map[string]string{
				"transcript": utterance,
			})
			h.session.UpdateContext()

			// A spoken utterance is treated as a voice command; the
			// command handler routes chit-chat to the companion reply
			// when no intent resolves.
			h.session.CommandHandler.ProcessCommand(utterance)

			h.session.CurrentTranscript = ""
		} else {
			// Accumulate transcript (filter out empty/whitespace)
			if strings.TrimSpace(transcript) != "" {
				h.session.CurrentTranscript += transcript + " "

				h.session.sendWebSocketMessage("transcript_interim", map[string]string{
					"transcript": strings.TrimSpace(h.session.CurrentTranscript),
				})
			}
		}
	}
}

// ProcessAudioData forwards audio to Deepgram (called from the WebSocket
// message loop).
func (h *SpeechHandler) ProcessAudioData(audioData []byte) error {
	err := h.deepgramClient.Send(audioData)
	if err != nil {
		h.session.Logger.Error("Failed to send audio data to Deepgram", zap.Error(err))
		return err
	}
	return nil
}

func (h *SpeechHandler) Close() {
	h.session.Logger.Info("Closing Speech Handler")
	h.isActive = false

	if h.deepgramClient != nil {
		h.deepgramClient.Close()
	}
}
