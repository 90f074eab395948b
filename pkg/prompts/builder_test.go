package prompts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shouni/gemini-style-kit/pkg/domain"
)

var profile = domain.StyleProfile{
	Style:    domain.StyleFormal,
	Occasion: domain.OccasionWedding,
	Colors:   "Pastels",
	Budget:   domain.BudgetMedium,
}

func TestBuildAdvicePrompt(t *testing.T) {
	got := BuildAdvicePrompt("What to wear to a summer wedding?", profile)

	assert.Contains(t, got, `User asks: "What to wear to a summer wedding?"`)
	assert.Contains(t, got, "Style preference: Formal")
	assert.Contains(t, got, "Occasion: Wedding")
	assert.Contains(t, got, "Preferred colors: Pastels")
	assert.Contains(t, got, "Budget: Medium")
}

func TestBuildAdvicePrompt_NoEscaping(t *testing.T) {
	got := BuildAdvicePrompt(`say "hi" <b>`, profile)
	assert.Contains(t, got, `User asks: "say "hi" <b>"`, "input is interpolated verbatim")
}

func TestBuildOutfitImagePrompt(t *testing.T) {
	t.Run("3枠のプロンプトはすべて異なるのだ", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < domain.SlotCount; i++ {
			p := BuildOutfitImagePrompt(i, profile)
			assert.False(t, seen[p], "slot %d prompt duplicates another slot", i)
			seen[p] = true

			assert.Contains(t, p, "Style: Formal")
			assert.Contains(t, p, "Occasion: Wedding")
			assert.Contains(t, p, "Color palette: Pastels")
			assert.Contains(t, p, "Budget level: Medium")
		}
	})

	t.Run("範囲外の枠でもパニックしないのだ", func(t *testing.T) {
		assert.NotPanics(t, func() { BuildOutfitImagePrompt(7, profile) })
		assert.NotPanics(t, func() { BuildOutfitImagePrompt(-1, profile) })
	})
}

func TestBuildRecommendationPrompt(t *testing.T) {
	got := BuildRecommendationPrompt(profile)
	assert.Contains(t, got, "recommend 3 outfits")
	assert.Contains(t, got, "Preferred colors: Pastels")
}

func TestCaptions(t *testing.T) {
	assert.Equal(t, "Look 2: Formal for Wedding", Caption(1, profile))
	assert.Equal(t, "Look 3 could not be generated: boom", FailureCaption(2, errors.New("boom")))
}
