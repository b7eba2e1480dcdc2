package analyzer

import (
	"context"

	"github.com/shouni/project-sheet-analyzer/pkg/domain"
)

// VisionModel は画像とプロンプトからテキストを生成する外部サービスの抽象です。
type VisionModel interface {
	// Analyze は 1 件のメッセージ（テキスト指示 + 画像）を送信し、最初の候補を返します。
	Analyze(ctx context.Context, req domain.EncodedRequest) (*domain.Completion, error)
}

// Analyzer はプレゼンテーション層が利用する統合窓口です。
type Analyzer interface {
	HandleUpload(ctx context.Context, raw []byte, declared domain.ImageFormat) (*domain.DisplayResult, error)
}
