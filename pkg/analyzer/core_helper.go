package analyzer

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shouni/project-sheet-analyzer/pkg/domain"
	"github.com/shouni/project-sheet-analyzer/pkg/imgutil"
)

func (f *Flow) normalize(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrDecode)
	}
	out, err := imgutil.NormalizeToJPEG(data, imgutil.Options{
		Quality:      f.cfg.JPEGQuality,
		MaxDimension: f.cfg.MaxDimension,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return out.Data, nil
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// trimCompletion は候補テキストの前後の空白を取り除きます。空の応答は不正な応答として扱います。
func trimCompletion(c *domain.Completion) (string, error) {
	if c == nil {
		return "", fmt.Errorf("%w: no completion returned", domain.ErrService)
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return "", fmt.Errorf("%w: completion text is empty", domain.ErrService)
	}
	return text, nil
}
