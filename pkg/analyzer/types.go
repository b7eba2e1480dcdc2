package analyzer

const (
	// DefaultJPEGQuality は再エンコード時の JPEG 品質です。
	DefaultJPEGQuality = 75

	// DefaultPrompt は外部サービスへ送る固定の指示文です。
	DefaultPrompt = "Analyze this image carefully. Extract the following information:\n" +
		"1. Problem Statement\n" +
		"2. Solution\n" +
		"3. Student Names\n\n" +
		"Be concise. Your entire answer must be under 200 words."
)

// FlowConfig は Flow の動作パラメータです。ゼロ値の項目はデフォルト値になります。
type FlowConfig struct {
	Prompt       string
	JPEGQuality  int
	MaxDimension int
}

func (c FlowConfig) withDefaults() FlowConfig {
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = DefaultJPEGQuality
	}
	return c
}
