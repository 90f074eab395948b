package stylist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shouni/gemini-style-kit/pkg/domain"
	"github.com/shouni/gemini-style-kit/pkg/imgutil"
	"github.com/shouni/gemini-style-kit/pkg/prompts"
	"github.com/shouni/gemini-style-kit/pkg/utils"
)

// 画面に表示するメッセージです。
const (
	WarnMissingCredential = "⚠️ Enter your API key!"
	WarnEmptyQuery        = "⚠️ Ask a question!"
	WarnMissingReference  = "⚠️ Upload a reference photo!"
	ErrorPrefix           = "❌ Error: "
)

// Backend は1つの認証情報に紐づく生成 API の窓口です。
type Backend interface {
	GenerateText(ctx context.Context, req domain.TextGenerationRequest) (string, error)
	GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
}

// Opener は認証情報から新しい Backend を生成します。呼び出しごとに新しいクライアントを作る想定です。
type Opener func(ctx context.Context, credential string) (Backend, error)

// ReferenceFetcher は URL で指定された参照画像を取得します。
type ReferenceFetcher interface {
	FetchReference(ctx context.Context, url string) (*domain.ImageData, error)
}

// ReferencePreparer は参照画像を送信用に整えます。送れない画像はエラーを返します。
type ReferencePreparer interface {
	PrepareReference(img *domain.ImageData) (*domain.ImageData, error)
}

// ReferencePreparerFunc は関数を ReferencePreparer として使うためのアダプターです。
type ReferencePreparerFunc func(img *domain.ImageData) (*domain.ImageData, error)

func (f ReferencePreparerFunc) PrepareReference(img *domain.ImageData) (*domain.ImageData, error) {
	return f(img)
}

// Orchestrator はユーザー入力から生成リクエストを組み立て、結果を1つにまとめます。
// 呼び出し間で状態を持たないため、複数の goroutine から同時に使えます。
type Orchestrator struct {
	open        Opener
	fetcher     ReferenceFetcher
	preparer    ReferencePreparer
	textModel   string
	imageModel  string
	aspectRatio string
	parallel    bool
	policy      TextFailurePolicy
}

// New は Orchestrator を初期化します。
func New(open Opener, opts ...Option) (*Orchestrator, error) {
	if open == nil {
		return nil, fmt.Errorf("opener is required")
	}
	o := &Orchestrator{
		open:     open,
		preparer: ReferencePreparerFunc(requireImage),
		policy:   DiscardImagesOnTextFailure,
	}
	for _, opt := range opts {
		opt(o)
	}
	if !o.policy.Valid() {
		return nil, fmt.Errorf("unknown text failure policy: %q", o.policy)
	}
	return o, nil
}

// GetTextAdvice は質問に対するファッションアドバイスを返します。
// 失敗はすべて表示用の文字列に変換され、呼び出し元にエラーは返りません。
func (o *Orchestrator) GetTextAdvice(ctx context.Context, req domain.AdviceRequest) string {
	if err := req.Validate(); err != nil {
		return warning(err)
	}

	logger := invocationLogger(ctx, "advice")
	start := time.Now()

	backend, err := o.open(ctx, strings.TrimSpace(req.Credential))
	if err != nil {
		logger.Error().Err(err).Msg("生成クライアントの初期化に失敗しました")
		return errorMessage(err)
	}

	profile := req.Profile.WithDefaults()
	text, err := backend.GenerateText(ctx, domain.TextGenerationRequest{
		Model:  o.textModel,
		Prompt: prompts.BuildAdvicePrompt(req.Query, profile),
	})
	if err != nil {
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("アドバイス生成に失敗しました")
		return errorMessage(err)
	}

	logger.Info().Int("response_length", len(text)).Dur("duration", time.Since(start)).Msg("アドバイスを生成しました")
	return text
}

// GenerateOutfitImages は参照画像とプロフィールから画像3枚と推薦文を生成します。
//
// 参照画像は最初に一度だけ送信用に変換し、使えなければ外部呼び出しの前にエラー文字列を返します。
// 画像は枠ごとに失敗を切り離し、失敗した枠は nil とキャプションで表します。
// 推薦文の生成は3枠すべての試行が終わってから行います。推薦文が失敗した場合の
// 扱いは TextFailurePolicy に従います。
func (o *Orchestrator) GenerateOutfitImages(ctx context.Context, req domain.OutfitRequest) domain.OutfitResult {
	if err := req.Validate(); err != nil {
		return emptyResult(warning(err), err)
	}

	logger := invocationLogger(ctx, "outfits")
	start := time.Now()

	reference, err := o.resolveReference(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("参照画像の取得に失敗しました")
		return emptyResult(errorMessage(err), err)
	}
	reference, err = o.preparer.PrepareReference(reference)
	if err != nil {
		logger.Error().Err(err).Msg("参照画像を送信用に変換できませんでした")
		return emptyResult(errorMessage(err), err)
	}

	backend, err := o.open(ctx, strings.TrimSpace(req.Credential))
	if err != nil {
		logger.Error().Err(err).Msg("生成クライアントの初期化に失敗しました")
		return emptyResult(errorMessage(err), err)
	}

	profile := req.Profile.WithDefaults()
	slots := o.generateSlots(ctx, logger, backend, reference, profile, req.Seed)

	text, err := backend.GenerateText(ctx, domain.TextGenerationRequest{
		Model:     o.textModel,
		Prompt:    prompts.BuildRecommendationPrompt(profile),
		Reference: reference,
	})
	if err != nil {
		logger.Error().Err(err).Str("policy", string(o.policy)).Msg("推薦文の生成に失敗しました")
		if o.policy == KeepImagesOnTextFailure {
			return domain.OutfitResult{Slots: slots, Recommendation: errorMessage(err)}
		}
		return emptyResult(errorMessage(err), err)
	}

	logger.Info().
		Int("failed_slots", countFailed(slots)).
		Dur("duration", time.Since(start)).
		Msg("コーディネート画像を生成しました")

	return domain.OutfitResult{Slots: slots, Recommendation: text}
}

// Advise は GetTextAdvice の結果を GenerationResult にまとめます。
func (o *Orchestrator) Advise(ctx context.Context, req domain.AdviceRequest) domain.GenerationResult {
	return domain.GenerationResult{Kind: domain.ResultKindText, Text: o.GetTextAdvice(ctx, req)}
}

// Outfits は GenerateOutfitImages の結果を GenerationResult にまとめます。
func (o *Orchestrator) Outfits(ctx context.Context, req domain.OutfitRequest) domain.GenerationResult {
	res := o.GenerateOutfitImages(ctx, req)
	return domain.GenerationResult{
		Kind:   domain.ResultKindImages,
		Text:   res.Recommendation,
		Images: res.Slots[:],
	}
}

func (o *Orchestrator) resolveReference(ctx context.Context, req domain.OutfitRequest) (*domain.ImageData, error) {
	if !req.ReferenceImage.IsEmpty() {
		return req.ReferenceImage, nil
	}
	if o.fetcher == nil {
		return nil, fmt.Errorf("reference URL is not supported: no fetcher configured")
	}
	return o.fetcher.FetchReference(ctx, strings.TrimSpace(req.ReferenceURL))
}

// generateSlots は3枠の画像生成を行います。並列実行時も全枠の完了を待ってから返します。
func (o *Orchestrator) generateSlots(ctx context.Context, logger zerolog.Logger, backend Backend, reference *domain.ImageData, profile domain.StyleProfile, seed *int64) [domain.SlotCount]domain.SlotResult {
	var slots [domain.SlotCount]domain.SlotResult

	if !o.parallel {
		for i := range slots {
			slots[i] = o.generateSlot(ctx, logger, backend, i, reference, profile, seed)
		}
		return slots
	}

	var wg sync.WaitGroup
	for i := range slots {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			slots[i] = o.generateSlot(ctx, logger, backend, i, reference, profile, seed)
		}(i)
	}
	wg.Wait()
	return slots
}

func (o *Orchestrator) generateSlot(ctx context.Context, logger zerolog.Logger, backend Backend, slot int, reference *domain.ImageData, profile domain.StyleProfile, seed *int64) domain.SlotResult {
	start := time.Now()
	img, err := backend.GenerateImage(ctx, domain.ImageGenerationRequest{
		Model:       o.imageModel,
		Prompt:      prompts.BuildOutfitImagePrompt(slot, profile),
		AspectRatio: o.aspectRatio,
		Reference:   reference,
		Seed:        utils.SeedForSlot(seed, slot),
	})
	if err == nil && (img == nil || len(img.Data) == 0) {
		err = domain.ErrNoImageData
	}
	if err != nil {
		logger.Warn().Err(err).Int("slot", slot+1).Dur("duration", time.Since(start)).Msg("画像生成に失敗しました。次の枠に進みます")
		return domain.SlotResult{Index: slot, Caption: prompts.FailureCaption(slot, err), Err: err}
	}

	logger.Debug().Int("slot", slot+1).Int("bytes", len(img.Data)).Dur("duration", time.Since(start)).Msg("画像を生成しました")
	return domain.SlotResult{Index: slot, Image: img, Caption: prompts.Caption(slot, profile)}
}

// requireImage は ReferencePreparer 未設定時の既定値で、画像かどうかだけを確認します。
func requireImage(img *domain.ImageData) (*domain.ImageData, error) {
	if img.IsEmpty() {
		return nil, domain.ErrMissingReference
	}
	if mimeType := imgutil.DetectMimeType(img.Data, img.MimeType); !imgutil.IsImageMimeType(mimeType) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedReference, mimeType)
	}
	return img, nil
}

func emptyResult(message string, err error) domain.OutfitResult {
	res := domain.OutfitResult{Recommendation: message}
	for i := range res.Slots {
		res.Slots[i] = domain.SlotResult{Index: i, Err: err}
	}
	return res
}

// warning は入力不足のエラーを画面用の警告文に変換します。
func warning(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return WarnMissingCredential
	case errors.Is(err, domain.ErrEmptyQuery):
		return WarnEmptyQuery
	case errors.Is(err, domain.ErrMissingReference):
		return WarnMissingReference
	default:
		return errorMessage(err)
	}
}

func errorMessage(err error) string {
	return ErrorPrefix + err.Error()
}

func countFailed(slots [domain.SlotCount]domain.SlotResult) int {
	n := 0
	for _, s := range slots {
		if s.Failed() {
			n++
		}
	}
	return n
}

// invocationLogger は呼び出しごとの ID を付与したロガーを返します。
// ctx にロガーがあればそれを引き継ぎます。
func invocationLogger(ctx context.Context, op string) zerolog.Logger {
	base := log.Logger
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		base = *l
	}
	return base.With().Str("op", op).Str("invocation_id", uuid.NewString()).Logger()
}
