package adapters

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"github.com/shouni/project-sheet-analyzer/pkg/domain"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockChatCompleter は ChatCompleter のテスト用モックです。
type mockChatCompleter struct {
	lastRequest openai.ChatCompletionRequest
	createFunc  func(req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

func (m *mockChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.lastRequest = req
	if m.createFunc != nil {
		return m.createFunc(req)
	}
	return openai.ChatCompletionResponse{}, nil
}

// mockContentGenerator は ContentGenerator のテスト用モックです。
type mockContentGenerator struct {
	lastModel    string
	lastContents []*genai.Content
	generateFunc func(contents []*genai.Content) (*genai.GenerateContentResponse, error)
}

func (m *mockContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.lastModel = model
	m.lastContents = contents
	if m.generateFunc != nil {
		return m.generateFunc(contents)
	}
	return nil, nil
}

// "ABC" を base64 にしたダミーペイロード
var sampleRequest = domain.EncodedRequest{
	Prompt:      "Extract Problem Statement, Solution, Student Names",
	ImageBase64: "QUJD",
	MIMEType:    domain.JPEGMIMEType,
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}
