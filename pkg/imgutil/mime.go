package imgutil

import (
	"net/http"
	"strings"
)

// DetectMimeType は宣言された MIME タイプが画像ならそれを、そうでなければ内容から判定した値を返します。
func DetectMimeType(data []byte, declared string) string {
	if IsImageMimeType(declared) {
		return declared
	}
	return http.DetectContentType(data)
}

// IsImageMimeType は image/ で始まる MIME タイプかどうかを返します。
func IsImageMimeType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}
