package stylist

// TextFailurePolicy は推薦文の生成に失敗したときの画像の扱いです。
type TextFailurePolicy string

const (
	// DiscardImagesOnTextFailure は生成済みの画像を捨て、エラー文だけを返します。
	DiscardImagesOnTextFailure TextFailurePolicy = "discard"
	// KeepImagesOnTextFailure は画像を残し、推薦文の位置にエラー文を入れます。
	KeepImagesOnTextFailure TextFailurePolicy = "keep"
)

// Valid は既知のポリシーかどうかを返します。
func (p TextFailurePolicy) Valid() bool {
	return p == DiscardImagesOnTextFailure || p == KeepImagesOnTextFailure
}

// Option は Orchestrator の設定を変更します。
type Option func(*Orchestrator)

// WithReferenceFetcher は参照画像 URL の取得に使う ReferenceFetcher を設定します。
func WithReferenceFetcher(f ReferenceFetcher) Option {
	return func(o *Orchestrator) { o.fetcher = f }
}

// WithReferencePreparer は参照画像の変換に使う ReferencePreparer を設定します。nil の場合は画像かどうかの確認だけを行います。
func WithReferencePreparer(p ReferencePreparer) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.preparer = p
		}
	}
}

// WithModels はテキスト・画像生成のモデル名を設定します。空文字はバックエンドの既定値を使います。
func WithModels(textModel, imageModel string) Option {
	return func(o *Orchestrator) {
		o.textModel = textModel
		o.imageModel = imageModel
	}
}

// WithAspectRatio は生成画像のアスペクト比を設定します。
func WithAspectRatio(ratio string) Option {
	return func(o *Orchestrator) { o.aspectRatio = ratio }
}

// WithParallelSlots は3枠の画像生成を並列に行うかを設定します。
func WithParallelSlots(parallel bool) Option {
	return func(o *Orchestrator) { o.parallel = parallel }
}

// WithTextFailurePolicy は推薦文失敗時のポリシーを設定します。
func WithTextFailurePolicy(p TextFailurePolicy) Option {
	return func(o *Orchestrator) { o.policy = p }
}
