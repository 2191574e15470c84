package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

// AddOptions are the variant choices made when adding a product to the cart.
type AddOptions struct {
	Color string `json:"color"`
	Size  string `json:"size"`
}

// CartService manages each client's cart.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddItem adds one unit of a product. A product already in the cart has its
// quantity incremented and keeps its first-chosen variant and snapshot price.
func (s *CartService) AddItem(ctx context.Context, clientID string, productID int64, opts AddOptions) ([]models.CartLine, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.cartRepo.Update(ctx, clientID, func(lines []models.CartLine) ([]models.CartLine, error) {
		for i := range lines {
			if lines[i].ID == productID {
				lines[i].Quantity++
				return lines, nil
			}
		}
		return append(lines, models.CartLine{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Image:    product.Image,
			Quantity: 1,
			Color:    opts.Color,
			Size:     opts.Size,
		}), nil
	})
}

// SetQuantity sets a line's quantity. A quantity below 1 removes the line.
// Unknown products leave the cart untouched.
func (s *CartService) SetQuantity(ctx context.Context, clientID string, productID int64, quantity int) ([]models.CartLine, error) {
	return s.cartRepo.Update(ctx, clientID, func(lines []models.CartLine) ([]models.CartLine, error) {
		for i := range lines {
			if lines[i].ID != productID {
				continue
			}
			if quantity < 1 {
				return append(lines[:i:i], lines[i+1:]...), nil
			}
			lines[i].Quantity = quantity
			return lines, nil
		}
		return nil, repositories.ErrSkipWrite
	})
}

// Lines returns the cart in insertion order.
func (s *CartService) Lines(ctx context.Context, clientID string) ([]models.CartLine, error) {
	return s.cartRepo.Get(ctx, clientID)
}

// Count returns the number of distinct lines, as shown on the cart badge.
func (s *CartService) Count(ctx context.Context, clientID string) (int, error) {
	lines, err := s.cartRepo.Get(ctx, clientID)
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

// Subtotal returns the sum of price times quantity over the cart.
func (s *CartService) Subtotal(ctx context.Context, clientID string) (float64, error) {
	lines, err := s.cartRepo.Get(ctx, clientID)
	if err != nil {
		return 0, err
	}
	return SubtotalOf(lines).InexactFloat64(), nil
}

// Reset empties the cart.
func (s *CartService) Reset(ctx context.Context, clientID string) error {
	return s.cartRepo.Clear(ctx, clientID)
}

// LineSubtotal is price times quantity for one line.
func LineSubtotal(line models.CartLine) decimal.Decimal {
	return decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// SubtotalOf sums LineSubtotal over lines.
func SubtotalOf(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineSubtotal(l))
	}
	return total
}
