package adapters

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/shouni/gemini-style-kit/pkg/domain"
)

// DefaultTextModel はテキスト生成に使うモデルの既定値です。
const DefaultTextModel = "gemini-2.5-flash"

// TextGenerator はテキストを1件生成するためのインターフェースです。
type TextGenerator interface {
	GenerateText(ctx context.Context, req domain.TextGenerationRequest) (string, error)
}

// GeminiTextGenerator はアドバイス文・推薦文の生成を担うアダプターです。
type GeminiTextGenerator struct {
	core     GeminiCore
	aiClient GenerativeModel
	model    string
}

// NewGeminiTextGenerator は依存関係を注入して初期化します。
func NewGeminiTextGenerator(core GeminiCore, aiClient GenerativeModel, modelName string) (*GeminiTextGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (GeminiCore) is required")
	}
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (GenerativeModel) is required")
	}
	if modelName == "" {
		modelName = DefaultTextModel
	}
	return &GeminiTextGenerator{core: core, aiClient: aiClient, model: modelName}, nil
}

// GenerateText はプロンプト（と任意の参照画像）を送り、生成されたテキストをそのまま返します。
func (a *GeminiTextGenerator) GenerateText(ctx context.Context, req domain.TextGenerationRequest) (string, error) {
	parts := []*genai.Part{{Text: req.Prompt}}
	if imgPart := a.core.ToPart(req.Reference); imgPart != nil {
		parts = append(parts, imgPart)
	}

	model := req.Model
	if model == "" {
		model = a.model
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	resp, err := a.aiClient.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Geminiテキスト生成エラー: %w", err)
	}

	return a.core.ParseText(resp)
}
