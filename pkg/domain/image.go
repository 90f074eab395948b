package domain

// ImageData はリクエストに添付される画像バイナリです。
type ImageData struct {
	Data     []byte
	MimeType string
}

// IsEmpty は画像データが空かどうかを返します。
func (d *ImageData) IsEmpty() bool {
	return d == nil || len(d.Data) == 0
}

// ImageGenerationRequest は単一の画像生成要求です。
// Reference は参照画像（ユーザーの写真など）で、nil の場合はテキストのみで生成します。
type ImageGenerationRequest struct {
	Model       string
	Prompt      string
	AspectRatio string
	Reference   *ImageData
	Seed        *int64
}

// TextGenerationRequest は単一のテキスト生成要求です。
type TextGenerationRequest struct {
	Model     string
	Prompt    string
	Reference *ImageData
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
	UsedSeed int64 // 戻り値は情報欠落を防ぐため int64
}
