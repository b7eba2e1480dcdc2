package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/project-sheet-analyzer/pkg/domain"
	"github.com/shouni/project-sheet-analyzer/pkg/utils"
)

// Flow はアップロード 1 件ごとの要求/応答サイクルを担当します。
// 構築後は不変なので、複数のリクエストから同時に呼び出しても安全です。
type Flow struct {
	model VisionModel
	cfg   FlowConfig
}

// NewFlow は VisionModel を注入して Flow を初期化します。
func NewFlow(model VisionModel, cfg FlowConfig) (*Flow, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: vision model is required", domain.ErrConfiguration)
	}
	cfg = cfg.withDefaults()
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return nil, fmt.Errorf("%w: jpeg quality must be between 1 and 100, got %d", domain.ErrConfiguration, cfg.JPEGQuality)
	}
	if cfg.MaxDimension < 0 {
		return nil, fmt.Errorf("%w: max dimension must not be negative", domain.ErrConfiguration)
	}

	return &Flow{model: model, cfg: cfg}, nil
}

// HandleUpload は画像を JPEG に正規化して外部サービスへ送信し、応答テキストを返します。
// デコードに失敗した場合は外部呼び出しを行いません。
func (f *Flow) HandleUpload(ctx context.Context, raw []byte, declared domain.ImageFormat) (*domain.DisplayResult, error) {
	req, err := f.Encode(domain.UploadedImage{Data: raw, Format: declared})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "外部サービスへ解析をリクエストします",
		"declared_format", declared, "payload_b64_len", len(req.ImageBase64))

	completion, err := f.model.Analyze(ctx, *req)
	if err != nil {
		if !errors.Is(err, domain.ErrService) {
			err = fmt.Errorf("%w: %w", domain.ErrService, err)
		}
		return nil, err
	}

	text, err := trimCompletion(completion)
	if err != nil {
		return nil, err
	}

	result := &domain.DisplayResult{
		Text:         text,
		Model:        completion.Model,
		SourceFormat: declared,
		WordCount:    utils.WordCount(text),
	}
	slog.InfoContext(ctx, "解析が完了しました", "model", result.Model, "words", result.WordCount)
	slog.DebugContext(ctx, "解析結果", "text", utils.Truncate(text, 80))

	return result, nil
}

// Encode はアップロード画像を API 送信用の EncodedRequest に変換します。
// 同じ入力に対しては常に同じ結果を返します。
func (f *Flow) Encode(img domain.UploadedImage) (*domain.EncodedRequest, error) {
	if img.Format != domain.FormatJPEG && img.Format != domain.FormatPNG {
		return nil, fmt.Errorf("%w: declared format %q is not supported", domain.ErrDecode, img.Format)
	}

	jpg, err := f.normalize(img.Data)
	if err != nil {
		return nil, err
	}

	return &domain.EncodedRequest{
		Prompt:      f.cfg.Prompt,
		ImageBase64: encodeBase64(jpg),
		MIMEType:    domain.JPEGMIMEType,
	}, nil
}
