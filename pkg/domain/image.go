package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// JPEGMIMEType は外部サービスへ送信する画像の MIME タイプです。
// 入力フォーマットに関わらず送信形式は JPEG に統一されます。
const JPEGMIMEType = "image/jpeg"

// ImageFormat はアップロード時に宣言された画像フォーマットです。
type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
)

// ParseImageFormat は拡張子、MIME タイプ、フォーマット名のいずれかから ImageFormat を判定します。
// JPEG と PNG 以外はエラーになります。
func ParseImageFormat(s string) (ImageFormat, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if ext := filepath.Ext(v); ext != "" && !strings.Contains(v, "/") {
		v = ext
	}
	v = strings.TrimPrefix(v, ".")
	v = strings.TrimPrefix(v, "image/")

	switch v {
	case "jpg", "jpeg", "pjpeg":
		return FormatJPEG, nil
	case "png", "x-png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unsupported image format %q (supported: jpg, jpeg, png)", s)
}

// UploadedImage はユーザーがアップロードした画像の生データです。
type UploadedImage struct {
	Data   []byte
	Format ImageFormat
}

// EncodedRequest は外部サービスへ渡す直前の API 形式の表現です。
type EncodedRequest struct {
	Prompt      string
	ImageBase64 string
	MIMEType    string
}

// DataURI は画像を data URI 形式で返します。
func (r EncodedRequest) DataURI() string {
	return "data:" + r.MIMEType + ";base64," + r.ImageBase64
}

// Completion は外部サービスが返した最初の候補です。
type Completion struct {
	Text  string
	Model string
}

// DisplayResult はプレゼンテーション層へ渡す解析結果です。
// Text は整形や検証を行わず、そのまま表示されます。
type DisplayResult struct {
	Text         string
	Model        string
	SourceFormat ImageFormat
	WordCount    int
}
