package models

// CategoryAll selects every product.
const CategoryAll = "All"

// Product is a read-only catalog entry.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Rating      float64  `json:"rating"`
	Sold        int      `json:"sold"`
	Description string   `json:"description"`
	Specs       []string `json:"specs"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	Discount    int      `json:"discount,omitempty"` // percent
	OldPrice    float64  `json:"oldPrice,omitempty"`
}

// Category groups products on the home screen.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
