package domain

// SlotCount は1回の要求で生成する画像の枚数です。
const SlotCount = 3

// ResultKind は GenerationResult の種類です。
type ResultKind string

const (
	ResultKindText   ResultKind = "text"
	ResultKindImages ResultKind = "images"
)

// SlotResult は1枠分の画像生成結果です。Image が nil の場合は生成失敗を表します。
type SlotResult struct {
	Index   int
	Image   *ImageResponse
	Caption string
	Err     error
}

// Failed は枠の生成が失敗したかどうかを返します。
func (s SlotResult) Failed() bool {
	return s.Image == nil
}

// OutfitResult は画像3枚と推薦文をまとめた結果です。
type OutfitResult struct {
	Slots          [SlotCount]SlotResult
	Recommendation string
}

// Tuple は (画像1, 画像2, 画像3, 推薦文) の形で結果を返します。
func (r OutfitResult) Tuple() (*ImageResponse, *ImageResponse, *ImageResponse, string) {
	return r.Slots[0].Image, r.Slots[1].Image, r.Slots[2].Image, r.Recommendation
}

// Images は枠順に画像を返します。失敗した枠は nil です。
func (r OutfitResult) Images() []*ImageResponse {
	out := make([]*ImageResponse, SlotCount)
	for i, s := range r.Slots {
		out[i] = s.Image
	}
	return out
}

// GenerationResult はプレゼンテーション層に渡す統合結果です。
type GenerationResult struct {
	Kind   ResultKind
	Text   string
	Images []SlotResult
}
