package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/supportdesk/inquiry-service/internal/config"
	"github.com/supportdesk/inquiry-service/internal/domain"
)

// Result is a category/urgency pair drawn from the fixed vocabularies.
type Result struct {
	Category string `json:"category"`
	Urgency  string `json:"urgency"`
}

// DefaultResult is substituted whenever classification fails or returns a
// value outside the vocabularies. Classification is advisory, never blocking.
var DefaultResult = Result{Category: domain.CategoryGeneral, Urgency: domain.UrgencyMedium}

// Classifier determines an inquiry's category and urgency.
type Classifier interface {
	Classify(ctx context.Context, title, content string) Result
}

const prompt = "You are an assistant that classifies customer inquiries.\n" +
	"Respond ONLY with a JSON object containing exactly two keys: category and urgency.\n" +
	"category must be one of the following: ['Billing', 'Technical', 'General', 'Account'].\n" +
	"urgency must be one of the following: ['Low', 'Medium', 'High'].\n" +
	"Do NOT include any additional text, explanation, or fields.\n" +
	"Return valid JSON only.\n\n" +
	"Inquiry Title: %s\nInquiry Content: %s\n"

type openAIClassifier struct {
	client   *openai.Client
	model    string
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewOpenAIClassifier builds the production classifier. The redis client is
// optional; when present, results are cached by content hash so repeated
// submissions skip the external call.
func NewOpenAIClassifier(cfg config.ClassifierConfig, cache *redis.Client, logger *zap.Logger) Classifier {
	return &openAIClassifier{
		client:   openai.NewClient(cfg.APIKey),
		model:    cfg.Model,
		cache:    cache,
		cacheTTL: time.Duration(cfg.CacheTTLMin) * time.Minute,
		logger:   logger,
	}
}

func (c *openAIClassifier) Classify(ctx context.Context, title, content string) Result {
	key := cacheKey(title, content)
	if cached, ok := c.fromCache(ctx, key); ok {
		return cached
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(prompt, title, content),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.logger.Warn("classification call failed; using default", zap.Error(err))
		return DefaultResult
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn("classification returned no choices; using default")
		return DefaultResult
	}

	result := ParseResult([]byte(resp.Choices[0].Message.Content))
	c.toCache(ctx, key, result)
	return result
}

// ParseResult decodes a raw classifier response and enforces the vocabulary.
// Anything malformed or out of vocabulary collapses to DefaultResult.
func ParseResult(raw []byte) Result {
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return DefaultResult
	}
	if !validCategory(result.Category) || !validUrgency(result.Urgency) {
		return DefaultResult
	}
	return result
}

func validCategory(category string) bool {
	switch category {
	case domain.CategoryBilling, domain.CategoryTechnical, domain.CategoryGeneral, domain.CategoryAccount:
		return true
	}
	return false
}

func validUrgency(urgency string) bool {
	switch urgency {
	case domain.UrgencyLow, domain.UrgencyMedium, domain.UrgencyHigh:
		return true
	}
	return false
}

func cacheKey(title, content string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + content))
	return "classify:" + hex.EncodeToString(sum[:])
}

func (c *openAIClassifier) fromCache(ctx context.Context, key string) (Result, bool) {
	if c.cache == nil {
		return Result{}, false
	}
	raw, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		return Result{}, false
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return Result{}, false
	}
	return result, true
}

func (c *openAIClassifier) toCache(ctx context.Context, key string, result Result) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.cacheTTL).Err(); err != nil {
		c.logger.Debug("classification cache write failed", zap.Error(err))
	}
}
