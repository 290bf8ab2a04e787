package review

import (
	"fmt"
	"strings"

	"github.com/ikehiro79/RakutenROOM/internal/models"
)

// MaxLength is the ROOM form limit the generated text must fit into,
// counted in runes.
const MaxLength = 400

// Generate builds the review text for a product: a summary line joining the
// title with optional price and shop phrases, a blank line, and three fixed
// bullet points. Output never exceeds MaxLength runes; longer text is cut at
// MaxLength-3 and terminated with an ellipsis.
func Generate(info *models.ProductInfo) string {
	parts := []string{info.Title}
	if info.Price != "" {
		parts = append(parts, info.Price+"で手に入る")
	}
	if info.ShopName != "" {
		parts = append(parts, info.ShopName+"の人気アイテム")
	}

	bullets := []string{
		fmt.Sprintf("デザイン: %sの魅力を活かした上質な仕上がり。", info.Title),
		"使い勝手: 日常から特別なシーンまで幅広く活躍。",
		"満足度: 口コミでも高評価で贈り物にもおすすめ。",
	}

	lines := []string{
		"要点: " + strings.Join(parts, "・"),
		"",
	}
	for _, bullet := range bullets {
		lines = append(lines, "・"+bullet)
	}

	text := strings.Join(lines, "\n")
	if runes := []rune(text); len(runes) > MaxLength {
		text = string(runes[:MaxLength-3]) + "…"
	}

	return text
}
