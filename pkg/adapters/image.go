package adapters

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/shouni/gemini-style-kit/pkg/domain"
	"github.com/shouni/gemini-style-kit/pkg/utils"
)

// DefaultImageModel は画像生成に使うモデルの既定値です。
const DefaultImageModel = "gemini-2.5-flash-image"

// ImageGenerator はコーディネート画像を1枚生成するためのインターフェースです。
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
}

// GeminiImageGenerator はコーディネート画像の生成を管理するアダプター層です。
type GeminiImageGenerator struct {
	core        GeminiCore      // 共通ロジック保持（コンポジション）
	aiClient    GenerativeModel // 通信クライアント
	model       string          // 使用するモデル名
	aspectRatio string
}

// NewGeminiImageGenerator は GeminiImageCore と依存関係を注入して初期化します。
func NewGeminiImageGenerator(core GeminiCore, aiClient GenerativeModel, modelName, aspectRatio string) (*GeminiImageGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (GeminiCore) is required")
	}
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (GenerativeModel) is required")
	}
	if modelName == "" {
		modelName = DefaultImageModel
	}
	return &GeminiImageGenerator{
		core:        core,
		aiClient:    aiClient,
		model:       modelName,
		aspectRatio: aspectRatio,
	}, nil
}

// GenerateImage はドメインのリクエストを Gemini API の形式に変換して実行します。
func (a *GeminiImageGenerator) GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	parts := []*genai.Part{{Text: req.Prompt}}
	if imgPart := a.core.ToPart(req.Reference); imgPart != nil {
		parts = append(parts, imgPart)
	}

	model := req.Model
	if model == "" {
		model = a.model
	}
	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = a.aspectRatio
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		Seed:               utils.SeedToPtrInt32(req.Seed),
	}
	if aspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: aspectRatio}
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	resp, err := a.aiClient.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini画像生成エラー: %w", err)
	}

	out, err := a.core.ParseToResponse(resp, utils.DereferenceSeed(req.Seed))
	if err != nil {
		return nil, err
	}

	return &domain.ImageResponse{
		Data:     out.Data,
		MimeType: out.MimeType,
		UsedSeed: out.UsedSeed,
	}, nil
}
