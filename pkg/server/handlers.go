package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"github.com/shouni/gemini-style-kit/pkg/domain"
)

const (
	// CredentialHeader は API キーを受け取るヘッダーです。フォームの api_key より優先します。
	CredentialHeader = "X-Api-Key"
	referenceField   = "reference"
)

// Service はハンドラーが利用するオーケストレーターの窓口です。
type Service interface {
	Advise(ctx context.Context, req domain.AdviceRequest) domain.GenerationResult
	Outfits(ctx context.Context, req domain.OutfitRequest) domain.GenerationResult
}

// Handler は HTTP リクエストを Service の呼び出しに変換します。
type Handler struct {
	svc            Service
	policy         *bluemonday.Policy
	maxUploadBytes int64
	timeout        time.Duration
}

// NewHandler は Handler を初期化します。timeout が 0 以下の場合はリクエストのコンテキストをそのまま使います。
func NewHandler(svc Service, maxUploadBytes int64, timeout time.Duration) *Handler {
	return &Handler{
		svc:            svc,
		policy:         bluemonday.UGCPolicy(),
		maxUploadBytes: maxUploadBytes,
		timeout:        timeout,
	}
}

type adviceInput struct {
	Query    string `json:"query"`
	Style    string `json:"style"`
	Occasion string `json:"occasion"`
	Colors   string `json:"colors"`
	Budget   string `json:"budget"`
	APIKey   string `json:"api_key"`
}

type imageJSON struct {
	Slot     int     `json:"slot"`
	MimeType string  `json:"mime_type,omitempty"`
	Data     *string `json:"data"`
	Caption  string  `json:"caption"`
	Error    string  `json:"error,omitempty"`
}

type resultJSON struct {
	Kind   domain.ResultKind `json:"kind"`
	Text   string            `json:"text"`
	HTML   string            `json:"html"`
	Images []imageJSON       `json:"images,omitempty"`
}

// HandleHealth はヘルスチェックに応答します。
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleOptions はフォームの選択肢を返します。
func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"styles":    domain.Styles,
		"occasions": domain.Occasions,
		"budgets":   domain.Budgets,
		"defaults":  domain.StyleProfile{}.WithDefaults(),
	})
}

// HandleAdvice はテキストアドバイスを生成します。フォームと JSON の両方を受け付けます。
func (h *Handler) HandleAdvice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var in adviceInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		in = adviceInput{
			Query:    r.FormValue("query"),
			Style:    r.FormValue("style"),
			Occasion: r.FormValue("occasion"),
			Colors:   r.FormValue("colors"),
			Budget:   r.FormValue("budget"),
			APIKey:   r.FormValue("api_key"),
		}
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	res := h.svc.Advise(ctx, domain.AdviceRequest{
		Query: in.Query,
		Profile: domain.StyleProfile{
			Style:    domain.Style(in.Style),
			Occasion: domain.Occasion(in.Occasion),
			Colors:   in.Colors,
			Budget:   domain.Budget(in.Budget),
		},
		Credential: credential(r, in.APIKey),
	})
	writeJSON(w, http.StatusOK, h.render(res))
}

// HandleOutfits は参照画像（multipart の reference または reference_url）から画像3枚と推薦文を生成します。
func (h *Handler) HandleOutfits(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ref, err := readReference(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var seed *int64
	if v := r.FormValue("seed"); v != "" {
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid seed: %w", err))
			return
		}
		seed = &s
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	res := h.svc.Outfits(ctx, domain.OutfitRequest{
		ReferenceImage: ref,
		ReferenceURL:   r.FormValue("reference_url"),
		Profile: domain.StyleProfile{
			Style:    domain.Style(r.FormValue("style")),
			Occasion: domain.Occasion(r.FormValue("occasion")),
			Colors:   r.FormValue("colors"),
			Budget:   domain.Budget(r.FormValue("budget")),
		},
		Credential: credential(r, r.FormValue("api_key")),
		Seed:       seed,
	})
	writeJSON(w, http.StatusOK, h.render(res))
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.timeout)
}

// render は結果を JSON 用に変換します。html は生成テキストをブラウザに埋め込めるよう無害化したものです。
func (h *Handler) render(res domain.GenerationResult) resultJSON {
	out := resultJSON{
		Kind: res.Kind,
		Text: res.Text,
		HTML: h.policy.Sanitize(res.Text),
	}
	for _, slot := range res.Images {
		img := imageJSON{Slot: slot.Index + 1, Caption: slot.Caption}
		if slot.Image != nil {
			data := base64.StdEncoding.EncodeToString(slot.Image.Data)
			img.Data = &data
			img.MimeType = slot.Image.MimeType
		}
		if slot.Err != nil {
			img.Error = slot.Err.Error()
		}
		out.Images = append(out.Images, img)
	}
	return out
}

func readReference(r *http.Request) (*domain.ImageData, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(referenceField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference image: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return &domain.ImageData{Data: data, MimeType: mimeType}, nil
}

func credential(r *http.Request, fallback string) string {
	if v := strings.TrimSpace(r.Header.Get(CredentialHeader)); v != "" {
		return v
	}
	return strings.TrimSpace(fallback)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("レスポンスの書き込みに失敗しました")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
