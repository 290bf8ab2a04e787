package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ikehiro79/RakutenROOM/internal/models"
)

// DefaultTitle is used when none of the title selectors match.
const DefaultTitle = "楽天の商品"

// Rakuten item pages usually expose title, price and shop name through
// schema.org markup. Each list is tried in order until a selector matches,
// so new page layouts only need an entry appended here.
var (
	defaultTitleSelectors = []string{
		"meta[property='og:title']",
		"h1[itemprop='name']",
		"title",
	}
	defaultPriceSelectors = []string{
		"span[itemprop='price']",
		".price2",
		"span[class*='price']",
	}
	defaultShopSelectors = []string{
		"a[itemprop='seller']",
		"a[class*='ShopName']",
	}
)

type RakutenParser struct {
	titleSelectors []string
	priceSelectors []string
	shopSelectors  []string
}

func NewRakutenParser() *RakutenParser {
	return &RakutenParser{
		titleSelectors: defaultTitleSelectors,
		priceSelectors: defaultPriceSelectors,
		shopSelectors:  defaultShopSelectors,
	}
}

// ParseProduct extracts product metadata from raw page markup. Title falls
// back to DefaultTitle; price and shop name stay empty when not found.
func (p *RakutenParser) ParseProduct(html string) (*models.ProductInfo, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := NormalizeSpace(p.firstMatch(doc, p.titleSelectors))
	if title == "" {
		title = DefaultTitle
	}

	return &models.ProductInfo{
		Title:    title,
		Price:    NormalizeSpace(p.firstMatch(doc, p.priceSelectors)),
		ShopName: NormalizeSpace(p.firstMatch(doc, p.shopSelectors)),
	}, nil
}

// firstMatch returns the text of the first element matched by any selector in
// order. Meta tags carry their data in the content attribute, which takes
// precedence over visible text.
func (p *RakutenParser) firstMatch(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		node := doc.Find(selector).First()
		if node.Length() == 0 {
			continue
		}

		if content, exists := node.Attr("content"); exists {
			return content
		}
		return node.Text()
	}

	return ""
}

// NormalizeSpace collapses whitespace runs, including newlines, into single
// spaces and trims the ends. Applying it twice yields the same result.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
