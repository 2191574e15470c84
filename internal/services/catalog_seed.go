package services

import "storefront/internal/models"

// DefaultCategories is the category list written on first start.
func DefaultCategories() []models.Category {
	return []models.Category{
		{ID: 1, Name: models.CategoryAll, Description: "All products", Icon: "fas fa-border-all"},
		{ID: 2, Name: "Electronics", Description: "Electronic devices and accessories", Icon: "fas fa-laptop"},
		{ID: 3, Name: "Fashion", Description: "Clothing and accessories", Icon: "fas fa-tshirt"},
		{ID: 4, Name: "Home", Description: "Home and furniture", Icon: "fas fa-home"},
		{ID: 5, Name: "Sports", Description: "Sports and fitness", Icon: "fas fa-running"},
	}
}

// DefaultProducts is the catalog written on first start. Prices are in DZD.
func DefaultProducts() []models.Product {
	return []models.Product{
		{
			ID:          1,
			Name:        "Smartphone X",
			Price:       49999,
			Image:       "https://via.placeholder.com/200",
			Category:    "Electronics",
			Rating:      4.5,
			Sold:        120,
			Description: "Latest smartphone with amazing features",
			Specs:       []string{"6.5 inch display", "128GB storage", "48MP camera"},
			Colors:      []string{"Black", "Blue", "Silver"},
			Sizes:       []string{},
			Discount:    10,
			OldPrice:    54999,
		},
		{
			ID:          2,
			Name:        "Wireless Earbuds",
			Price:       7999,
			Image:       "https://via.placeholder.com/200",
			Category:    "Electronics",
			Rating:      4.2,
			Sold:        340,
			Description: "Noise cancelling earbuds with charging case",
			Specs:       []string{"Bluetooth 5.3", "24h battery"},
			Colors:      []string{"White", "Black"},
			Sizes:       []string{},
		},
		{
			ID:          3,
			Name:        "Cotton T-Shirt",
			Price:       1800,
			Image:       "https://via.placeholder.com/200",
			Category:    "Fashion",
			Rating:      4.0,
			Sold:        85,
			Description: "Soft everyday cotton t-shirt",
			Specs:       []string{"100% cotton"},
			Colors:      []string{"White", "Navy", "Green"},
			Sizes:       []string{"S", "M", "L", "XL"},
			Discount:    20,
			OldPrice:    2250,
		},
		{
			ID:          4,
			Name:        "Desk Lamp",
			Price:       3500,
			Image:       "https://via.placeholder.com/200",
			Category:    "Home",
			Rating:      4.7,
			Sold:        60,
			Description: "Adjustable LED desk lamp",
			Specs:       []string{"3 brightness levels", "USB powered"},
			Colors:      []string{"Black"},
			Sizes:       []string{},
		},
		{
			ID:          5,
			Name:        "Running Shoes",
			Price:       12500,
			Image:       "https://via.placeholder.com/200",
			Category:    "Sports",
			Rating:      4.6,
			Sold:        210,
			Description: "Lightweight shoes for daily runs",
			Specs:       []string{"Breathable mesh", "Rubber sole"},
			Colors:      []string{"Red", "Grey"},
			Sizes:       []string{"40", "41", "42", "43", "44"},
		},
	}
}
