package analyzer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/shouni/project-sheet-analyzer/pkg/domain"
)

// --- Mocks ---

type mockVisionModel struct {
	calls       int
	requests    []domain.EncodedRequest
	analyzeFunc func(ctx context.Context, req domain.EncodedRequest) (*domain.Completion, error)
}

func (m *mockVisionModel) Analyze(ctx context.Context, req domain.EncodedRequest) (*domain.Completion, error) {
	m.calls++
	m.requests = append(m.requests, req)
	if m.analyzeFunc != nil {
		return m.analyzeFunc(ctx, req)
	}
	return &domain.Completion{Text: "ok", Model: "mock"}, nil
}

func fixedReply(text string) func(context.Context, domain.EncodedRequest) (*domain.Completion, error) {
	return func(context.Context, domain.EncodedRequest) (*domain.Completion, error) {
		return &domain.Completion{Text: text, Model: "mock-model"}, nil
	}
}

// solidImage は w x h の単色画像を指定フォーマットでエンコードします。
func solidImage(t *testing.T, format domain.ImageFormat, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{30, 120, 200, 255})
		}
	}
	buf := new(bytes.Buffer)
	var err error
	switch format {
	case domain.FormatPNG:
		err = png.Encode(buf, img)
	case domain.FormatJPEG:
		err = jpeg.Encode(buf, img, nil)
	}
	if err != nil {
		t.Fatalf("failed to encode dummy image: %v", err)
	}
	return buf.Bytes()
}
