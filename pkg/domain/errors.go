package domain

import "errors"

var (
	// ErrDecode はアップロードされたバイト列を画像として解釈できない場合のエラーです。
	ErrDecode = errors.New("decode error")
	// ErrService は外部サービス呼び出しの失敗（通信、認証、クォータ、不正な応答）です。
	ErrService = errors.New("service error")
	// ErrConfiguration は起動時に必要な設定（API キーなど）が欠けている場合のエラーです。
	ErrConfiguration = errors.New("configuration error")
)

// ErrorKind はエラーを表示用の種別文字列に変換します。
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrDecode):
		return "decode_error"
	case errors.Is(err, ErrService):
		return "service_error"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	default:
		return "internal_error"
	}
}
