package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/shouni/project-sheet-analyzer/pkg/domain"
)

// DefaultOpenAIModel は OpenAI プロバイダーの既定モデルです。
const DefaultOpenAIModel = "gpt-4o"

// OpenAIConfig は OpenAI 互換 API への接続設定です。
type OpenAIConfig struct {
	APIKey string
	// BaseURL が空の場合は SDK の既定値を使用します。
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// OpenAIVisionModel は Chat Completions API で画像を解析する VisionModel です。
type OpenAIVisionModel struct {
	client ChatCompleter
	model  string
}

// NewOpenAIVisionModel は設定から go-openai クライアントを生成して初期化します。
func NewOpenAIVisionModel(cfg OpenAIConfig) (*OpenAIVisionModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is required", domain.ErrConfiguration)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = httpClientOrDefault(cfg.HTTPClient)

	return NewOpenAIVisionModelWithClient(openai.NewClientWithConfig(clientCfg), cfg.Model)
}

// NewOpenAIVisionModelWithClient は既存のクライアントを注入して初期化します。
func NewOpenAIVisionModelWithClient(client ChatCompleter, model string) (*OpenAIVisionModel, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", domain.ErrConfiguration)
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIVisionModel{client: client, model: model}, nil
}

// Analyze はテキスト指示と data URI 画像を含む 1 件のユーザーメッセージを送信します。
func (m *OpenAIVisionModel) Analyze(ctx context.Context, req domain.EncodedRequest) (*domain.Completion, error) {
	resp, err := m.client.CreateChatCompletion(ctx, m.buildRequest(req))
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			slog.WarnContext(ctx, "OpenAI API がエラーを返しました",
				"status", apiErr.HTTPStatusCode, "type", apiErr.Type, "model", m.model)
		}
		return nil, serviceError(ProviderOpenAI, err)
	}

	if len(resp.Choices) == 0 {
		return nil, serviceError(ProviderOpenAI, errors.New("response contains no choices"))
	}

	model := resp.Model
	if model == "" {
		model = m.model
	}
	return &domain.Completion{
		Text:  resp.Choices[0].Message.Content,
		Model: model,
	}, nil
}

func (m *OpenAIVisionModel) buildRequest(req domain.EncodedRequest) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: req.Prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: req.DataURI(),
						},
					},
				},
			},
		},
	}
}
