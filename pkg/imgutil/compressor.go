package imgutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// ErrUnsupportedFormat はデコード可能でも JPEG/PNG 以外の画像が渡された場合のエラーです。
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Options は JPEG 正規化のパラメータです。
type Options struct {
	// Quality は JPEG 品質 (1-100) です。
	Quality int
	// MaxDimension が 0 より大きい場合、長辺がこの値を超える画像を縮小します。
	MaxDimension int
}

// Normalized は JPEG へ正規化された画像です。
type Normalized struct {
	Data         []byte
	SourceFormat string
	Width        int
	Height       int
}

// DetectFormat は画像ヘッダーを読み取り、フォーマット名（"jpeg", "png"）を返します。
func DetectFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	if format != "jpeg" && format != "png" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return format, nil
}

// NormalizeToJPEG は JPEG または PNG の画像データをデコードし、JPEG として再エンコードします。
// EXIF の向き情報は適用され、透過部分は白背景に合成されます。
func NormalizeToJPEG(data []byte, opts Options) (*Normalized, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	if opts.MaxDimension > 0 {
		b := img.Bounds()
		if b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension {
			img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
		}
	}

	img = flatten(img)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(opts.Quality)); err != nil {
		return nil, err
	}

	b := img.Bounds()
	return &Normalized{
		Data:         buf.Bytes(),
		SourceFormat: format,
		Width:        b.Dx(),
		Height:       b.Dy(),
	}, nil
}

// flatten は不透明でない画像を白背景に合成します（JPEG はアルファを持たないため）。
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
