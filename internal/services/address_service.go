package services

import (
	"context"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AddressService manages the logged-in user's saved addresses.
type AddressService struct {
	userRepo repositories.UserRepository
	auth     *AuthService
	validate *validator.Validate
}

// NewAddressService creates a new AddressService.
func NewAddressService(userRepo repositories.UserRepository, auth *AuthService) *AddressService {
	return &AddressService{
		userRepo: userRepo,
		auth:     auth,
		validate: validator.New(),
	}
}

// List returns the session user's addresses.
func (s *AddressService) List(ctx context.Context, clientID string) ([]models.Address, error) {
	current, err := s.auth.RequireUser(ctx, clientID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	if user.Addresses == nil {
		return []models.Address{}, nil
	}
	return user.Addresses, nil
}

// Add appends an address and returns it with its new ID.
func (s *AddressService) Add(ctx context.Context, clientID string, address models.Address) (*models.Address, error) {
	if err := s.validate.Struct(address); err != nil {
		return nil, apperrors.FromValidation(err)
	}
	address.ID = uuid.New().String()
	_, err := s.modify(ctx, clientID, func(u *models.User) error {
		u.Addresses = append(u.Addresses, address)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// Update replaces the address with the given ID.
func (s *AddressService) Update(ctx context.Context, clientID, addressID string, address models.Address) (*models.Address, error) {
	if err := s.validate.Struct(address); err != nil {
		return nil, apperrors.FromValidation(err)
	}
	address.ID = addressID
	_, err := s.modify(ctx, clientID, func(u *models.User) error {
		for i := range u.Addresses {
			if u.Addresses[i].ID == addressID {
				u.Addresses[i] = address
				return nil
			}
		}
		return apperrors.NotFound("address", addressID)
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// Delete removes the address with the given ID and returns what remains.
func (s *AddressService) Delete(ctx context.Context, clientID, addressID string) ([]models.Address, error) {
	user, err := s.modify(ctx, clientID, func(u *models.User) error {
		for i := range u.Addresses {
			if u.Addresses[i].ID == addressID {
				u.Addresses = append(u.Addresses[:i:i], u.Addresses[i+1:]...)
				return nil
			}
		}
		return apperrors.NotFound("address", addressID)
	})
	if err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

// modify applies fn to the session user's record and refreshes the session.
func (s *AddressService) modify(ctx context.Context, clientID string, fn func(u *models.User) error) (*models.User, error) {
	current, err := s.auth.RequireUser(ctx, clientID)
	if err != nil {
		return nil, err
	}
	updated, err := s.userRepo.Update(ctx, current.ID, func(u *models.User) error {
		if err := fn(u); err != nil {
			return err
		}
		if u.Addresses == nil {
			u.Addresses = []models.Address{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.auth.RefreshSessionUser(ctx, clientID, *updated); err != nil {
		return nil, err
	}
	return updated, nil
}
