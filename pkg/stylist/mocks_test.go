package stylist

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shouni/gemini-style-kit/pkg/domain"
)

// fakeBackend は呼び出しを記録し、指定した枠だけ失敗させるテスト用バックエンドなのだ。
type fakeBackend struct {
	mu        sync.Mutex
	calls     []string
	failSlots map[int]bool
	textErr   error
	textReply string
	textReqs  []domain.TextGenerationRequest
	imageReqs []domain.ImageGenerationRequest
}

func (f *fakeBackend) GenerateText(ctx context.Context, req domain.TextGenerationRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "text")
	f.textReqs = append(f.textReqs, req)
	if f.textErr != nil {
		return "", f.textErr
	}
	if f.textReply != "" {
		return f.textReply, nil
	}
	return "recommendation for " + req.Model, nil
}

func (f *fakeBackend) GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	slot := slotOf(req.Prompt)

	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("image-%d", slot))
	f.imageReqs = append(f.imageReqs, req)
	fail := f.failSlots[slot]
	f.mu.Unlock()

	if fail {
		return nil, fmt.Errorf("slot %d quota exceeded", slot)
	}
	return &domain.ImageResponse{Data: []byte(fmt.Sprintf("image-%d", slot)), MimeType: "image/png"}, nil
}

func (f *fakeBackend) textCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == "text" {
			n++
		}
	}
	return n
}

// slotOf はプロンプトの "suggestion N of 3" から0始まりの枠番号を取り出すのだ。
func slotOf(prompt string) int {
	for i := 0; i < domain.SlotCount; i++ {
		if strings.Contains(prompt, fmt.Sprintf("suggestion %d of %d", i+1, domain.SlotCount)) {
			return i
		}
	}
	return -1
}

// countingOpener は Open の回数を数える Opener を返すのだ。
func countingOpener(b Backend, err error, opens *int, credentials *[]string) Opener {
	return func(ctx context.Context, credential string) (Backend, error) {
		*opens++
		if credentials != nil {
			*credentials = append(*credentials, credential)
		}
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

type fakeFetcher struct {
	img  *domain.ImageData
	err  error
	urls []string
}

func (f *fakeFetcher) FetchReference(ctx context.Context, url string) (*domain.ImageData, error) {
	f.urls = append(f.urls, url)
	return f.img, f.err
}
