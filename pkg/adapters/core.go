package adapters

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/shouni/project-sheet-analyzer/pkg/analyzer"
	"github.com/shouni/project-sheet-analyzer/pkg/domain"
	"google.golang.org/genai"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ChatCompleter は go-openai クライアントのうち、本パッケージが利用するメソッドです。
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ContentGenerator は genai.Models のうち、本パッケージが利用するメソッドです。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config はプロバイダーの選択と各プロバイダーの接続設定をまとめたものです。
type Config struct {
	Provider string
	OpenAI   OpenAIConfig
	Gemini   GeminiConfig
}

// NewVisionModel は Provider に応じた VisionModel を生成します。
// 資格情報が欠けている場合、ネットワークに接続する前に ErrConfiguration を返します。
func NewVisionModel(ctx context.Context, cfg Config) (analyzer.VisionModel, error) {
	var (
		model analyzer.VisionModel
		err   error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		model, err = NewOpenAIVisionModel(cfg.OpenAI)
	case ProviderGemini:
		model, err = NewGeminiVisionModel(ctx, cfg.Gemini)
	default:
		err = fmt.Errorf("%w: unknown provider %q", domain.ErrConfiguration, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return model, nil
}

// serviceError は SDK のエラーを ErrService でラップします。
func serviceError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrService, provider, err)
}

func httpClientOrDefault(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}
