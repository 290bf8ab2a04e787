package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikehiro79/RakutenROOM/internal/models"
)

func TestGenerateFullProduct(t *testing.T) {
	info := &models.ProductInfo{
		Title:    "フード付きブランケット",
		Price:    "¥3,980",
		ShopName: "○○ショップ",
	}

	text := Generate(info)
	lines := strings.Split(text, "\n")

	require.Len(t, lines, 5)
	assert.Equal(t, "要点: フード付きブランケット・¥3,980で手に入る・○○ショップの人気アイテム", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "・デザイン: フード付きブランケットの魅力を活かした上質な仕上がり。", lines[2])
	assert.Equal(t, "・使い勝手: 日常から特別なシーンまで幅広く活躍。", lines[3])
	assert.Equal(t, "・満足度: 口コミでも高評価で贈り物にもおすすめ。", lines[4])
	assert.LessOrEqual(t, len([]rune(text)), MaxLength)
}

func TestGenerateOmitsMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		info     *models.ProductInfo
		expected string
	}{
		{
			name:     "title only",
			info:     &models.ProductInfo{Title: "楽天の商品"},
			expected: "要点: 楽天の商品",
		},
		{
			name:     "title and price",
			info:     &models.ProductInfo{Title: "商品A", Price: "500円"},
			expected: "要点: 商品A・500円で手に入る",
		},
		{
			name:     "title and shop",
			info:     &models.ProductInfo{Title: "商品B", ShopName: "B店"},
			expected: "要点: 商品B・B店の人気アイテム",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := strings.Split(Generate(tt.info), "\n")
			assert.Equal(t, tt.expected, lines[0])
		})
	}
}

func TestGenerateTruncation(t *testing.T) {
	info := &models.ProductInfo{
		Title:    strings.Repeat("長", 300),
		Price:    "¥9,800",
		ShopName: "とても長い名前のショップ",
	}

	untruncated := func() string {
		parts := []string{info.Title, info.Price + "で手に入る", info.ShopName + "の人気アイテム"}
		lines := []string{
			"要点: " + strings.Join(parts, "・"),
			"",
			"・デザイン: " + info.Title + "の魅力を活かした上質な仕上がり。",
			"・使い勝手: 日常から特別なシーンまで幅広く活躍。",
			"・満足度: 口コミでも高評価で贈り物にもおすすめ。",
		}
		return strings.Join(lines, "\n")
	}()
	require.Greater(t, len([]rune(untruncated)), MaxLength)

	text := Generate(info)
	runes := []rune(text)

	assert.LessOrEqual(t, len(runes), MaxLength)
	assert.Equal(t, string([]rune(untruncated)[:MaxLength-3]), string(runes[:len(runes)-1]))
	assert.Equal(t, "…", string(runes[len(runes)-1]))
}

func TestGenerateNeverExceedsCap(t *testing.T) {
	for _, n := range []int{0, 100, 200, 380, 390, 400, 500, 1000} {
		info := &models.ProductInfo{Title: strings.Repeat("あ", n)}
		assert.LessOrEqual(t, len([]rune(Generate(info))), MaxLength, "title length %d", n)
	}
}
