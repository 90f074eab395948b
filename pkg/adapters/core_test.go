package adapters

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/shouni/gemini-style-kit/pkg/domain"
)

// heicHeader は標準ライブラリでデコードできない HEIC の先頭バイトなのだ。
var heicHeader = []byte("\x00\x00\x00\x18ftypheic\x00\x00\x00\x00mif1heic")

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestGeminiImageCore_PrepareReference(t *testing.T) {
	core := NewGeminiImageCore(nil, 64, 80)

	t.Run("画像はJPEGに縮小・圧縮されるのだ", func(t *testing.T) {
		got, err := core.PrepareReference(&domain.ImageData{Data: pngBytes(t, 200, 100), MimeType: "image/png"})
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", got.MimeType)

		cfg, _, err := image.DecodeConfig(bytes.NewReader(got.Data))
		require.NoError(t, err)
		assert.Equal(t, 64, cfg.Width)
		assert.Equal(t, 32, cfg.Height)
	})

	t.Run("デコードできない画像は宣言されたMIMEタイプのまま送るのだ", func(t *testing.T) {
		got, err := core.PrepareReference(&domain.ImageData{Data: heicHeader, MimeType: "image/heic"})
		require.NoError(t, err)
		assert.Equal(t, "image/heic", got.MimeType)
		assert.Equal(t, heicHeader, got.Data)
	})

	t.Run("画像として扱えないデータはエラーなのだ", func(t *testing.T) {
		for _, img := range []*domain.ImageData{
			{Data: heicHeader, MimeType: "application/octet-stream"},
			{Data: []byte("plain text, not an image"), MimeType: "text/plain"},
		} {
			_, err := core.PrepareReference(img)
			assert.ErrorIs(t, err, domain.ErrUnsupportedReference)
		}
	})

	t.Run("空の画像はエラーなのだ", func(t *testing.T) {
		_, err := core.PrepareReference(nil)
		assert.ErrorIs(t, err, domain.ErrMissingReference)
	})
}

func TestGeminiImageCore_ToPart(t *testing.T) {
	core := NewGeminiImageCore(nil, 64, 80)

	t.Run("準備済みの画像は再圧縮せずにそのまま変換するのだ", func(t *testing.T) {
		data := pngBytes(t, 200, 100)
		part := core.ToPart(&domain.ImageData{Data: data, MimeType: "image/png"})
		require.NotNil(t, part)
		require.NotNil(t, part.InlineData)
		assert.Equal(t, "image/png", part.InlineData.MIMEType)
		assert.Equal(t, data, part.InlineData.Data)
	})

	t.Run("空の画像はnilなのだ", func(t *testing.T) {
		assert.Nil(t, core.ToPart(nil))
		assert.Nil(t, core.ToPart(&domain.ImageData{}))
	})

	t.Run("画像でないデータはnilなのだ", func(t *testing.T) {
		assert.Nil(t, core.ToPart(&domain.ImageData{Data: []byte("plain text, not an image")}))
	})
}

func TestGeminiImageCore_ParseToResponse(t *testing.T) {
	core := &GeminiImageCore{}
	seed := int64(9999)

	t.Run("正常系: 画像が含まれるレスポンスを正しく解析するのだ", func(t *testing.T) {
		out, err := core.ParseToResponse(imageResponse("dummy-data"), seed)
		require.NoError(t, err)
		assert.Equal(t, "dummy-data", string(out.Data))
		assert.Equal(t, "image/png", out.MimeType)
		assert.Equal(t, seed, out.UsedSeed)
	})

	t.Run("異常系: FinishReason が異常（SAFETY等）な場合", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		}
		_, err := core.ParseToResponse(resp, seed)
		assert.ErrorIs(t, err, domain.ErrBlocked)
	})

	t.Run("異常系: テキストのみで画像がない場合", func(t *testing.T) {
		_, err := core.ParseToResponse(textResponse("sorry"), seed)
		assert.ErrorIs(t, err, domain.ErrNoImageData)
	})

	t.Run("異常系: 候補が空の場合", func(t *testing.T) {
		_, err := core.ParseToResponse(&genai.GenerateContentResponse{}, seed)
		assert.Error(t, err)
		_, err = core.ParseToResponse(nil, seed)
		assert.Error(t, err)
	})
}

func TestGeminiImageCore_ParseText(t *testing.T) {
	core := &GeminiImageCore{}

	t.Run("テキストパーツを連結するのだ", func(t *testing.T) {
		got, err := core.ParseText(textResponse("Wear a ", "linen suit."))
		require.NoError(t, err)
		assert.Equal(t, "Wear a linen suit.", got)
	})

	t.Run("思考パーツは除外するのだ", func(t *testing.T) {
		resp := textResponse("answer")
		resp.Candidates[0].Content.Parts = append(
			[]*genai.Part{{Text: "thinking...", Thought: true}},
			resp.Candidates[0].Content.Parts...,
		)
		got, err := core.ParseText(resp)
		require.NoError(t, err)
		assert.Equal(t, "answer", got)
	})

	t.Run("テキストがない場合はエラーなのだ", func(t *testing.T) {
		_, err := core.ParseText(imageResponse("img"))
		assert.ErrorIs(t, err, domain.ErrNoText)
	})
}

func TestGeminiImageCore_FetchReference(t *testing.T) {
	ctx := context.Background()
	validPng := pngBytes(t, 2, 2)

	t.Run("公開URLからダウンロードできるのだ", func(t *testing.T) {
		httpClient := &mockHTTPClient{fetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			return validPng, nil
		}}
		core := NewGeminiImageCore(httpClient, 0, 0)

		img, err := core.FetchReference(ctx, "http://93.184.216.34/me.png")
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.MimeType)
		assert.Equal(t, validPng, img.Data)
	})

	t.Run("プライベートアドレスはブロックするのだ", func(t *testing.T) {
		called := false
		httpClient := &mockHTTPClient{fetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			called = true
			return validPng, nil
		}}
		core := NewGeminiImageCore(httpClient, 0, 0)

		for _, u := range []string{"http://127.0.0.1/me.png", "http://10.0.0.5/me.png", "file:///etc/passwd"} {
			_, err := core.FetchReference(ctx, u)
			assert.ErrorIs(t, err, domain.ErrUnsafeURL, u)
		}
		assert.False(t, called, "unsafe URLs must not be fetched")
	})

	t.Run("ダウンロード失敗はエラーを返すのだ", func(t *testing.T) {
		expected := errors.New("timeout")
		httpClient := &mockHTTPClient{fetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			return nil, expected
		}}
		core := NewGeminiImageCore(httpClient, 0, 0)

		_, err := core.FetchReference(ctx, "https://93.184.216.34/me.png")
		assert.ErrorIs(t, err, expected)
	})

	t.Run("画像でないレスポンスは拒否するのだ", func(t *testing.T) {
		httpClient := &mockHTTPClient{fetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			return []byte("<html></html>"), nil
		}}
		core := NewGeminiImageCore(httpClient, 0, 0)

		_, err := core.FetchReference(ctx, "https://93.184.216.34/me.png")
		assert.Error(t, err)
	})
}
