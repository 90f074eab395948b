package adapters

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"google.golang.org/genai"

	"github.com/shouni/gemini-style-kit/pkg/domain"
	"github.com/shouni/gemini-style-kit/pkg/imgutil"
)

const (
	DefaultImageQuality = 75
	DefaultMaxDimension = 1024
)

// GenerativeModel は Gemini の生成 API を抽象化するインターフェースです。
// *genai.Models がそのまま満たします。
type GenerativeModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiCore はテキスト・画像アダプターが共有する Part 変換とレスポンス解析を抽象化するインターフェースです。
type GeminiCore interface {
	ToPart(img *domain.ImageData) *genai.Part
	ParseToResponse(resp *genai.GenerateContentResponse, seed int64) (*ImageOutput, error)
	ParseText(resp *genai.GenerateContentResponse) (string, error)
}

var _ GeminiCore = (*GeminiImageCore)(nil)

// ImageOutput はプロジェクト固有のドメインに依存しない汎用的なレスポンス構造体です。
type ImageOutput struct {
	Data     []byte
	MimeType string
	UsedSeed int64
}

// GeminiImageCore は参照画像の準備とレスポンス解析を担うコンポーネントです。
type GeminiImageCore struct {
	httpClient   httpkit.ClientInterface
	maxDimension int
	quality      int
}

// NewGeminiImageCore は依存関係を注入して GeminiImageCore のインスタンスを生成します。
// httpClient は参照画像を URL で受け取る場合にのみ使われます。
func NewGeminiImageCore(httpClient httpkit.ClientInterface, maxDimension, quality int) *GeminiImageCore {
	if quality <= 0 || quality > 100 {
		quality = DefaultImageQuality
	}
	return &GeminiImageCore{
		httpClient:   httpClient,
		maxDimension: maxDimension,
		quality:      quality,
	}
}

// FetchReference は URL から参照画像をダウンロードします。
func (c *GeminiImageCore) FetchReference(ctx context.Context, rawURL string) (*domain.ImageData, error) {
	if c.httpClient == nil {
		return nil, fmt.Errorf("参照画像のHTTPクライアントが設定されていません")
	}

	// SSRF対策のバリデーション
	if safe, err := isSafeURL(rawURL); !safe || err != nil {
		log.Warn().Str("url", rawURL).Err(err).Msg("SSRFの可能性がある、または不正なURLをブロックしました")
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsafeURL, err)
	}

	data, err := c.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("参照画像のダウンロードに失敗しました: %w", err)
	}

	mimeType := imgutil.DetectMimeType(data, "")
	if !imgutil.IsImageMimeType(mimeType) {
		return nil, fmt.Errorf("参照画像のMIMEタイプが画像ではありません: %s", mimeType)
	}
	return &domain.ImageData{Data: data, MimeType: mimeType}, nil
}

// PrepareReference は参照画像を縮小・圧縮し、送信用の ImageData を返します。
// 1回の生成で複数の API 呼び出しに同じ画像を使うため、呼び出し元で一度だけ実行します。
// 圧縮できない形式は画像であればそのまま返し、画像でなければエラーを返します。
func (c *GeminiImageCore) PrepareReference(img *domain.ImageData) (*domain.ImageData, error) {
	if img.IsEmpty() {
		return nil, domain.ErrMissingReference
	}

	if compressed, err := imgutil.ShrinkToJPEG(img.Data, c.maxDimension, c.quality); err == nil {
		return &domain.ImageData{Data: compressed, MimeType: imgutil.JPEGMimeType}, nil
	}

	mimeType := imgutil.DetectMimeType(img.Data, img.MimeType)
	if !imgutil.IsImageMimeType(mimeType) {
		log.Warn().Str("detected_mime_type", mimeType).Msg("参照画像が画像として扱えません")
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedReference, mimeType)
	}
	return &domain.ImageData{Data: img.Data, MimeType: mimeType}, nil
}

// ToPart は準備済みの参照画像を genai.Part (InlineData) に変換します。画像でなければ nil を返します。
func (c *GeminiImageCore) ToPart(img *domain.ImageData) *genai.Part {
	if img.IsEmpty() {
		return nil
	}

	mimeType := imgutil.DetectMimeType(img.Data, img.MimeType)
	if !imgutil.IsImageMimeType(mimeType) {
		log.Warn().Str("detected_mime_type", mimeType).Msg("MIMEタイプが画像ではないためPartに変換できませんでした")
		return nil
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: img.Data}}
}

// ParseToResponse は Gemini のレスポンスを解析して ImageOutput に変換します。
func (c *GeminiImageCore) ParseToResponse(resp *genai.GenerateContentResponse, seed int64) (*ImageOutput, error) {
	candidate, err := firstCandidate(resp)
	if err != nil {
		return nil, err
	}

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ImageOutput{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
					UsedSeed: seed,
				}, nil
			}
		}
	}

	if err := finishError(candidate); err != nil {
		return nil, err
	}
	return nil, domain.ErrNoImageData
}

// ParseText はレスポンスからテキストパーツを連結して返します。思考パーツは除外します。
func (c *GeminiImageCore) ParseText(resp *genai.GenerateContentResponse) (string, error) {
	candidate, err := firstCandidate(resp)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" && !part.Thought {
				sb.WriteString(part.Text)
			}
		}
	}
	if sb.Len() > 0 {
		return sb.String(), nil
	}

	if err := finishError(candidate); err != nil {
		return "", err
	}
	return "", domain.ErrNoText
}

// 現在の仕様では、Geminiからの最初の候補 (Candidate) のみを利用する。
func firstCandidate(resp *genai.GenerateContentResponse) (*genai.Candidate, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, fmt.Errorf("Geminiからの有効な応答がありませんでした")
	}
	return resp.Candidates[0], nil
}

// 安全フィルター等によるブロックの確認
func finishError(candidate *genai.Candidate) error {
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return fmt.Errorf("%w (FinishReason: %s)", domain.ErrBlocked, candidate.FinishReason)
	}
	return nil
}

// isSafeURL は SSRF 対策として URL を検証します。
// 名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func isSafeURL(rawURL string) (bool, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLパース失敗: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return false, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	var ips []net.IP
	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		resolvedIPs, err := net.LookupIP(host)
		if err != nil {
			return false, fmt.Errorf("名前解決失敗: %w", err)
		}
		ips = resolvedIPs
	}

	if len(ips) == 0 {
		return false, fmt.Errorf("IPが見つかりません")
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return false, fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return true, nil
}
