package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductTitle(t *testing.T) {
	parser := NewRakutenParser()

	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name: "og:title content attribute wins over later selectors",
			html: `<html><head>
				<meta property="og:title" content="フード付きブランケット">
				<title>ページタイトル</title>
			</head><body><h1 itemprop="name">見出しタイトル</h1></body></html>`,
			expected: "フード付きブランケット",
		},
		{
			name:     "falls back to itemprop name heading",
			html:     `<html><body><h1 itemprop="name">見出しタイトル</h1></body></html>`,
			expected: "見出しタイトル",
		},
		{
			name:     "falls back to document title",
			html:     `<html><head><title>ページタイトル</title></head><body></body></html>`,
			expected: "ページタイトル",
		},
		{
			name:     "default placeholder when no selector matches",
			html:     `<html><body><div>no product here</div></body></html>`,
			expected: DefaultTitle,
		},
		{
			name: "embedded newlines collapse to single spaces",
			html: `<html><body><h1 itemprop="name">フード付き
				ブランケット   冬用</h1></body></html>`,
			expected: "フード付き ブランケット 冬用",
		},
		{
			name:     "matched but empty element still defaults",
			html:     `<html><head><title></title></head><body></body></html>`,
			expected: DefaultTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := parser.ParseProduct(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, info.Title)
		})
	}
}

func TestParseProductPriceAndShop(t *testing.T) {
	parser := NewRakutenParser()

	tests := []struct {
		name          string
		html          string
		expectedPrice string
		expectedShop  string
	}{
		{
			name: "itemprop selectors",
			html: `<html><body>
				<span itemprop="price">¥3,980</span>
				<a itemprop="seller">○○ショップ</a>
			</body></html>`,
			expectedPrice: "¥3,980",
			expectedShop:  "○○ショップ",
		},
		{
			name: "class fallbacks",
			html: `<html><body>
				<span class="item-price-large">2,480円</span>
				<a class="header-ShopName-link">テスト店</a>
			</body></html>`,
			expectedPrice: "2,480円",
			expectedShop:  "テスト店",
		},
		{
			name: "first selector shadows later matches",
			html: `<html><body>
				<span itemprop="price">¥1,000</span>
				<span class="price2">¥9,999</span>
			</body></html>`,
			expectedPrice: "¥1,000",
		},
		{
			name:          "missing fields stay empty",
			html:          `<html><body><h1 itemprop="name">商品</h1></body></html>`,
			expectedPrice: "",
			expectedShop:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := parser.ParseProduct(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPrice, info.Price)
			assert.Equal(t, tt.expectedShop, info.ShopName)
		})
	}
}

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses runs", "a  b\t\tc", "a b c"},
		{"collapses newlines", "line1\nline2\r\nline3", "line1 line2 line3"},
		{"trims ends", "  padded  ", "padded"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSpace(tt.input)
			assert.Equal(t, tt.expected, got)
			// Idempotence: normalizing again changes nothing.
			assert.Equal(t, got, NormalizeSpace(got))
		})
	}
}
