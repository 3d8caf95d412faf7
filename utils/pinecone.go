package utils

import (
	"context"
	"fmt"
	"os"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

const embeddingModel = "text-embedding-ada-002"

// GetPineconeIndex opens the per-user long-term memory namespace. The
// keyword ledger is the source of truth; the vector index is an optional
// recall layer on top of it, so a nil userID or missing configuration is
// reported to the caller, who continues without recall.
func GetPineconeIndex(userID *string) (*pinecone.IndexConnection, error) {
	ctx := context.Background()
	if userID == nil {
		return nil, nil
	}

	indexName := os.Getenv("PINECONE_INDEX")
	if indexName == "" {
		return nil, fmt.Errorf("PINECONE_INDEX environment variable is not set")
	}

	pineconeAPIKey := os.Getenv("PINECONE_API_KEY")
	if pineconeAPIKey == "" {
		return nil, fmt.Errorf("PINECONE_API_KEY environment variable is not set")
	}

	clientParams := pinecone.NewClientParams{
		ApiKey: pineconeAPIKey,
	}

	client, err := pinecone.NewClient(clientParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	idx, err := client.DescribeIndex(ctx, indexName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index %q: %v", indexName, err)
	}

	namespace := fmt.Sprintf("zzonde-%s", *userID)
	idxConnection, err := client.Index(pinecone.NewIndexConnParams{Host: idx.Host, Namespace: namespace})
	if err != nil {
		return nil, fmt.Errorf("failed to create IndexConnection for Host %v: %v", idx.Host, err)
	}

	return idxConnection, nil
}

// IndexConversation upserts one recorded exchange into the user's vector
// memory so it can be recalled semantically later.
func IndexConversation(ctx context.Context, index *pinecone.IndexConnection, entry models.ConversationEntry) error {
	if index == nil {
		return nil
	}

	text := fmt.Sprintf("사용자: %s / AI: %s", entry.Utterance, entry.Response)
	embedding, err := VectorizePrompt(embeddingModel, ctx, text)
	if err != nil {
		return fmt.Errorf("error vectorizing conversation: %w", err)
	}

	metadata, err := structpb.NewStruct(map[string]interface{}{
		"text":     text,
		"emotion":  string(entry.Emotion),
		"category": string(entry.Category),
	})
	if err != nil {
		return fmt.Errorf("error building vector metadata: %w", err)
	}

	vector := &pinecone.Vector{
		Id:       entry.ID,
		Values:   embedding,
		Metadata: metadata,
	}

	if _, err := index.UpsertVectors(ctx, []*pinecone.Vector{vector}); err != nil {
		return fmt.Errorf("error upserting to Pinecone index: %w", err)
	}
	return nil
}

// FetchRelevantMemories returns the text of past exchanges semantically
// close to the prompt.
func FetchRelevantMemories(ctx context.Context, index *pinecone.IndexConnection, promptText string) ([]string, error) {
	if index == nil {
		return []string{}, nil
	}

	embedding, err := VectorizePrompt(embeddingModel, ctx, promptText)
	if err != nil {
		return nil, fmt.Errorf("error vectorizing prompt: %w", err)
	}
	return QueryPinecone(ctx, embedding, index, 3)
}

func QueryPinecone(ctx context.Context, embedding []float32, index *pinecone.IndexConnection, topK int) ([]string, error) {
	queryRequest := &pinecone.QueryByVectorValuesRequest{
		Vector:          embedding,
		TopK:            uint32(topK),
		IncludeValues:   false,
		IncludeMetadata: true,
	}

	queryResponse, err := index.QueryByVectorValues(ctx, queryRequest)
	if err != nil {
		return nil, fmt.Errorf("error querying Pinecone index: %w", err)
	}

	var matches []string
	for _, match := range queryResponse.Matches {
		if match.Vector == nil || match.Vector.Metadata == nil {
			continue
		}

		value, ok := match.Vector.Metadata.Fields["text"]
		if ok {
			text := value.GetStringValue()
			if text != "" {
				matches = append(matches, text)
			}
		}
	}

	return matches, nil
}
