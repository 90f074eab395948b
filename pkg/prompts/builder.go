package prompts

import (
	"fmt"

	"github.com/shouni/gemini-style-kit/pkg/domain"
)

// slotDirections は枠ごとに変える撮影指示です。3枠それぞれが異なる提案になるようにします。
var slotDirections = [domain.SlotCount]string{
	"a full-body look styled as a head-to-toe outfit, standing pose, clean studio background",
	"an alternative look with a different key piece and silhouette, walking pose, natural outdoor light",
	"a flat-lay of the garments, shoes and accessories for one more look, top-down view on a neutral surface",
}

// BuildAdvicePrompt は質問とプロフィールをそのまま埋め込んだスタイリスト向けのプロンプトを返します。
func BuildAdvicePrompt(query string, p domain.StyleProfile) string {
	return fmt.Sprintf(`You are a fashion stylist. User asks: "%s"

Style preference: %s
Occasion: %s
Preferred colors: %s
Budget: %s

Provide specific fashion advice with outfit suggestions.`, query, p.Style, p.Occasion, p.Colors, p.Budget)
}

// BuildOutfitImagePrompt は slot 番目（0始まり）の画像生成プロンプトを返します。
// 範囲外の slot はパニックせず、先頭の指示を使います。
func BuildOutfitImagePrompt(slot int, p domain.StyleProfile) string {
	direction := slotDirections[0]
	if slot >= 0 && slot < len(slotDirections) {
		direction = slotDirections[slot]
	}

	return fmt.Sprintf(`Generate outfit suggestion %d of %d for the person in the reference photo.
Show %s.
Style: %s
Occasion: %s
Color palette: %s
Budget level: %s
Keep the person's appearance consistent with the reference photo. Photorealistic fashion photography, no text or watermarks.`,
		slot+1, domain.SlotCount, direction, p.Style, p.Occasion, p.Colors, p.Budget)
}

// BuildRecommendationPrompt は生成画像に添える推薦文のプロンプトを返します。
func BuildRecommendationPrompt(p domain.StyleProfile) string {
	return fmt.Sprintf(`You are a fashion stylist. Look at the reference photo of the user and recommend %d outfits.

Style preference: %s
Occasion: %s
Preferred colors: %s
Budget: %s

For each outfit list the key pieces, colors, shoes and accessories, and explain why it suits the person and the occasion.`,
		domain.SlotCount, p.Style, p.Occasion, p.Colors, p.Budget)
}

// Caption は成功した枠のキャプションを返します。
func Caption(slot int, p domain.StyleProfile) string {
	return fmt.Sprintf("Look %d: %s for %s", slot+1, p.Style, p.Occasion)
}

// FailureCaption は失敗した枠のキャプションを返します。
func FailureCaption(slot int, err error) string {
	return fmt.Sprintf("Look %d could not be generated: %v", slot+1, err)
}
