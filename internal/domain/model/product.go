package model

// ProductSummary はカタログAPIが返す商品の要約。
// Price は現在価格（最小通貨単位で保持）。
type ProductSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
