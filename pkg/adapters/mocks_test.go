package adapters

import (
	"context"
	"net/http"

	"google.golang.org/genai"

	"github.com/shouni/gemini-style-kit/pkg/domain"
)

// mockCore は GeminiCore インターフェースのテスト用モックなのだ。
type mockCore struct {
	toPartFunc func(img *domain.ImageData) *genai.Part
	parseFunc  func(resp *genai.GenerateContentResponse, seed int64) (*ImageOutput, error)
	textFunc   func(resp *genai.GenerateContentResponse) (string, error)
}

func (m *mockCore) ToPart(img *domain.ImageData) *genai.Part {
	if m.toPartFunc != nil {
		return m.toPartFunc(img)
	}
	return nil
}

func (m *mockCore) ParseToResponse(resp *genai.GenerateContentResponse, seed int64) (*ImageOutput, error) {
	if m.parseFunc != nil {
		return m.parseFunc(resp, seed)
	}
	return nil, nil
}

func (m *mockCore) ParseText(resp *genai.GenerateContentResponse) (string, error) {
	if m.textFunc != nil {
		return m.textFunc(resp)
	}
	return "", nil
}

// mockAIClient は GenerativeModel のテスト用モックなのだ。
type mockAIClient struct {
	generateFunc func(model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	calls        int
}

func (m *mockAIClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	if m.generateFunc != nil {
		return m.generateFunc(model, contents, config)
	}
	return &genai.GenerateContentResponse{}, nil
}

// mockHTTPClient は httpkit.ClientInterface を実装します。
type mockHTTPClient struct {
	fetchFunc func(ctx context.Context, url string) ([]byte, error)
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return m.fetchFunc(ctx, url)
}

// インターフェースを満たすための空実装群なのだ
func (m *mockHTTPClient) DoRequest(req *http.Request) ([]byte, error) {
	return nil, nil
}

func (m *mockHTTPClient) FetchAndDecodeJSON(ctx context.Context, url string, v any) error {
	return nil
}

func (m *mockHTTPClient) PostJSONAndFetchBytes(ctx context.Context, url string, data any) ([]byte, error) {
	return nil, nil
}

func (m *mockHTTPClient) PostRawBodyAndFetchBytes(ctx context.Context, url string, body []byte, contentType string) ([]byte, error) {
	return nil, nil
}

func imageResponse(data string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte(data)}}},
			},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, &genai.Part{Text: t})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}
