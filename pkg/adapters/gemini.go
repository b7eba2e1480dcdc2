package adapters

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/shouni/project-sheet-analyzer/pkg/domain"
	"google.golang.org/genai"
)

// DefaultGeminiModel は Gemini プロバイダーの既定モデルです。
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig は Gemini API への接続設定です。
type GeminiConfig struct {
	APIKey string
	// BaseURL が空の場合は SDK の既定エンドポイントを使用します。
	BaseURL string
	Model   string
}

// GeminiVisionModel は Gemini の GenerateContent で画像を解析する VisionModel です。
type GeminiVisionModel struct {
	models ContentGenerator
	model  string
}

// NewGeminiVisionModel は genai クライアントを生成して初期化します。
func NewGeminiVisionModel(ctx context.Context, cfg GeminiConfig) (*GeminiVisionModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is required", domain.ErrConfiguration)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create genai client: %w", domain.ErrConfiguration, err)
	}

	return NewGeminiVisionModelWithClient(client.Models, cfg.Model)
}

// NewGeminiVisionModelWithClient は既存の ContentGenerator を注入して初期化します。
func NewGeminiVisionModelWithClient(models ContentGenerator, model string) (*GeminiVisionModel, error) {
	if models == nil {
		return nil, fmt.Errorf("%w: genai models client is required", domain.ErrConfiguration)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiVisionModel{models: models, model: model}, nil
}

// Analyze はテキストパーツと JPEG の InlineData パーツを 1 件の Content として送信します。
func (m *GeminiVisionModel) Analyze(ctx context.Context, req domain.EncodedRequest) (*domain.Completion, error) {
	data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		return nil, serviceError(ProviderGemini, fmt.Errorf("invalid base64 payload in request: %w", err))
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: req.Prompt},
				{InlineData: &genai.Blob{MIMEType: req.MIMEType, Data: data}},
			},
		},
	}

	resp, err := m.models.GenerateContent(ctx, m.model, contents, nil)
	if err != nil {
		return nil, serviceError(ProviderGemini, err)
	}

	text, err := parseText(resp)
	if err != nil {
		return nil, serviceError(ProviderGemini, err)
	}

	model := resp.ModelVersion
	if model == "" {
		model = m.model
	}
	return &domain.Completion{Text: text, Model: model}, nil
}

// parseText は最初の候補 (Candidate) のテキストパーツを連結して返します。
func parseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("Geminiからの有効な応答がありませんでした")
	}

	candidate := resp.Candidates[0]

	var sb strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() > 0 {
		return sb.String(), nil
	}

	// 安全フィルター等によるブロックの確認
	switch candidate.FinishReason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
	default:
		return "", fmt.Errorf("応答生成が異常終了しました (FinishReason: %s)", candidate.FinishReason)
	}
	return "", errors.New("テキストが見つかりませんでした")
}
