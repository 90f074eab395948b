package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/spf13/cobra"

	"github.com/shouni/gemini-style-kit/pkg/adapters"
	"github.com/shouni/gemini-style-kit/pkg/config"
	"github.com/shouni/gemini-style-kit/pkg/domain"
	"github.com/shouni/gemini-style-kit/pkg/stylist"
)

// newOrchestrator は設定から Gemini バックエンドを組み立てます。
func newOrchestrator(c config.Config) (*stylist.Orchestrator, error) {
	core := adapters.NewGeminiImageCore(newFetchClient(c.FetchTimeout), c.Image.MaxDimension, c.Image.Quality)
	factory := adapters.NewGeminiClientFactory(core, adapters.ClientOptions{
		TextModel:   c.Models.Text,
		ImageModel:  c.Models.Image,
		AspectRatio: c.AspectRatio,
		HTTPClient:  &http.Client{Timeout: c.RequestTimeout},
	})

	open := func(ctx context.Context, credential string) (stylist.Backend, error) {
		return factory.Open(ctx, credential)
	}

	return stylist.New(open,
		stylist.WithReferenceFetcher(core),
		stylist.WithReferencePreparer(core),
		stylist.WithModels(c.Models.Text, c.Models.Image),
		stylist.WithAspectRatio(c.AspectRatio),
		stylist.WithParallelSlots(c.ParallelSlots),
		stylist.WithTextFailurePolicy(stylist.TextFailurePolicy(c.TextFailurePolicy)),
	)
}

// fetchRetryInterval は参照画像ダウンロードの再試行待ち時間です。
const fetchRetryInterval = 200 * time.Millisecond

// newFetchClient は参照画像ダウンロード用のクライアントを生成します。
// httpkit の再試行回数は1回が下限なので、その1回も短い待ち時間にします。
func newFetchClient(timeout time.Duration) httpkit.ClientInterface {
	return httpkit.New(timeout,
		httpkit.WithMaxRetries(1),
		httpkit.WithInitialInterval(fetchRetryInterval),
	)
}

type profileFlags struct {
	style    string
	occasion string
	colors   string
	budget   string
	apiKey   string
}

func (p *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.style, "style", string(domain.StyleCasual), "Style preference (Casual, Formal, Business Casual, Streetwear, Minimalist, Bohemian)")
	cmd.Flags().StringVar(&p.occasion, "occasion", string(domain.OccasionDailyWear), "Occasion (Daily Wear, Office, Party, Wedding, Date Night, Workout)")
	cmd.Flags().StringVar(&p.colors, "colors", domain.DefaultColors, "Preferred colors, e.g. \"Navy, Beige, Pastels\"")
	cmd.Flags().StringVar(&p.budget, "budget", string(domain.BudgetMedium), "Budget (Budget-Friendly, Medium, Premium, Luxury)")
	cmd.Flags().StringVar(&p.apiKey, "api-key", "", "Gemini API key (defaults to $GEMINI_API_KEY)")
}

func (p *profileFlags) profile() domain.StyleProfile {
	return domain.StyleProfile{
		Style:    domain.Style(p.style),
		Occasion: domain.Occasion(p.occasion),
		Colors:   p.colors,
		Budget:   domain.Budget(p.budget),
	}
}

func (p *profileFlags) credential(lookup func(string) string) string {
	if key := strings.TrimSpace(p.apiKey); key != "" {
		return key
	}
	return strings.TrimSpace(lookup("GEMINI_API_KEY"))
}
