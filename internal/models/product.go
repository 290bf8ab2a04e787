package models

// ProductInfo holds the metadata extracted from a Rakuten item page.
// Price and ShopName are empty when no selector matched.
type ProductInfo struct {
	Title    string `json:"title"`
	Price    string `json:"price,omitempty"`
	ShopName string `json:"shop_name,omitempty"`
}

// PreviewResult pairs the extracted product with the review generated for it.
type PreviewResult struct {
	Product *ProductInfo `json:"product"`
	Review  string       `json:"review"`
}
