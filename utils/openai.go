package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

type OpenAIClient struct {
	APIKey string
	Client *http.Client
}

type GPTMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GPTResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAIClient() *OpenAIClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		zap.L().Fatal("OPENAI_API_KEY environment variable not set")
	}

	return &OpenAIClient{
		APIKey: apiKey,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

const intentSystemPrompt = `당신은 시니어를 위한 음성 어시스턴트 ZZonde의 인텐트 분류기입니다.

사용자의 음성 명령을 분석하여 다음 중 하나의 인텐트로 분류하세요:

**인텐트 목록:**
1. "jobs" - 일자리, 알바, 돈벌기, 일거리 관련
2. "community" - 심심함, 대화, 이야기, 친구, 이웃 관련
3. "marketplace" - 장터, 쇼핑, 구매, 판매, 나눔 관련
4. "medicine" - 복약, 약, 약시간, 건강관리 관련
5. "todo" - 오늘 할 일, 일정, 계획 관련
6. "news" - 뉴스, 소식 관련
7. "weather" - 날씨 관련
8. "health" - 건강, 운동, 식단 관련
9. "text_size_large" - 글씨 크게
10. "text_size_small" - 글씨 작게
11. "text_size_medium" - 글씨 보통
12. "settings" - 설정 관련
13. "home" - 홈, 처음으로
14. "unknown" - 위 카테고리에 해당하지 않음

**응답 형식 (JSON만 반환):**
{
  "intent": "인텐트명",
  "confidence": 0.95,
  "response": "사용자에게 들려줄 친근한 응답 (존댓말)"
}

**예시:**
입력: "일자리 찾고 싶어요"
출력: {"intent": "jobs", "confidence": 0.95, "response": "일자리를 찾아드릴게요"}

입력: "심심한데 누구 없나"
출력: {"intent": "community", "confidence": 0.90, "response": "동네 이웃들과 이야기 나눠보세요"}`

const companionSystemPrompt = `당신은 시니어를 위한 따뜻한 AI 동반자 '존디'입니다. 존댓말로, 짧고 공감하는 답변을 합니다.`

// jsonBlockRe pulls the first JSON object out of a completion that wraps
// its answer in prose or a code fence.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// ClassifyCommand asks the remote model to classify a voice command into
// one of the closed intents. Any transport or parse failure is returned
// as an error so the caller can fall back to the deterministic resolver;
// this client never guesses.
func (c *OpenAIClient) ClassifyCommand(ctx context.Context, command string) (*models.IntentResult, error) {
	messages := []GPTMessage{
		{Role: "system", Content: intentSystemPrompt},
		{Role: "user", Content: command},
	}

	requestBody := map[string]interface{}{
		"model":       "gpt-4.1-2025-04-14",
		"messages":    messages,
		"temperature": 0.3,
		"max_tokens":  150,
	}

	content, err := c.sendChat(ctx, requestBody)
	if err != nil {
		return nil, err
	}

	block := jsonBlockRe.FindString(content)
	if block == "" {
		return nil, fmt.Errorf("no JSON object in classifier response: %q", content)
	}

	var result models.IntentResult
	if err := json.Unmarshal([]byte(block), &result); err != nil {
		return nil, fmt.Errorf("failed to parse classifier response: %w", err)
	}

	result.Intent = models.NormalizeIntent(string(result.Intent))
	return &result, nil
}

// GenerateCompanionReply produces the empathetic chat response from the
// contextual prompt assembled by the ledger.
func (c *OpenAIClient) GenerateCompanionReply(ctx context.Context, contextualPrompt string) (string, error) {
	messages := []GPTMessage{
		{Role: "system", Content: companionSystemPrompt},
		{Role: "user", Content: contextualPrompt},
	}

	requestBody := map[string]interface{}{
		"model":       "gpt-4.1-2025-04-14",
		"messages":    messages,
		"temperature": 0.7,
		"max_tokens":  300,
	}

	return c.sendChat(ctx, requestBody)
}

func (c *OpenAIClient) sendChat(ctx context.Context, requestBody map[string]interface{}) (string, error) {
	requestBodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var response GPTResponse
	if err := json.Unmarshal(bodyBytes, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response JSON: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI API response")
	}

	content := response.Choices[0].Message.Content
	zap.L().Debug("OpenAI response content", zap.String("content", content))
	return content, nil
}
