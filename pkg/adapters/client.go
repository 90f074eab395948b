package adapters

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// ClientOptions は認証情報ごとに生成するクライアントの共通設定です。
type ClientOptions struct {
	TextModel   string
	ImageModel  string
	AspectRatio string
	HTTPClient  *http.Client
}

// GeminiBackend は1つの認証情報に紐づくテキスト・画像生成の窓口です。
type GeminiBackend struct {
	*GeminiTextGenerator
	*GeminiImageGenerator
}

// GeminiClientFactory はリクエストごとに新しい genai.Client を生成します。
// クライアントを使い回さないため、呼び出し間で状態を共有しません。
type GeminiClientFactory struct {
	core *GeminiImageCore
	opts ClientOptions
	// newModel はテストで差し替えるための生成関数です。
	newModel func(ctx context.Context, credential string) (GenerativeModel, error)
}

// NewGeminiClientFactory はファクトリを初期化します。
func NewGeminiClientFactory(core *GeminiImageCore, opts ClientOptions) *GeminiClientFactory {
	f := &GeminiClientFactory{core: core, opts: opts}
	f.newModel = f.newGenAIModel
	return f
}

func (f *GeminiClientFactory) newGenAIModel(ctx context.Context, credential string) (GenerativeModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: f.opts.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// Open は credential 用の GeminiBackend を生成します。
func (f *GeminiClientFactory) Open(ctx context.Context, credential string) (*GeminiBackend, error) {
	if credential == "" {
		return nil, fmt.Errorf("Geminiクライアントの生成には認証情報が必要です")
	}

	model, err := f.newModel(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの生成に失敗しました: %w", err)
	}

	text, err := NewGeminiTextGenerator(f.core, model, f.opts.TextModel)
	if err != nil {
		return nil, err
	}
	image, err := NewGeminiImageGenerator(f.core, model, f.opts.ImageModel, f.opts.AspectRatio)
	if err != nil {
		return nil, err
	}
	return &GeminiBackend{GeminiTextGenerator: text, GeminiImageGenerator: image}, nil
}
