package models

// CartLine is one product-quantity pairing in a client's cart. Name, Price
// and Image are captured when the product is first added.
type CartLine struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Color    string  `json:"color,omitempty"`
	Size     string  `json:"size,omitempty"`
}
