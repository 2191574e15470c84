package repositories

import (
	"context"
	"strconv"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create stores a new user, assigning a timestamp-derived ID when empty.
	// It fails with apperrors.ErrEmailTaken when the email is in use.
	Create(ctx context.Context, user *models.User) error
	// Update applies fn to the stored user and saves it. It fails with
	// apperrors.ErrEmailTaken when the result collides with another user.
	Update(ctx context.Context, id string, fn func(user *models.User) error) (*models.User, error)
}

// RecordUserRepository is a RecordStore implementation of UserRepository.
type RecordUserRepository struct {
	store     RecordStore
	namespace string
}

// NewRecordUserRepository creates a new instance of RecordUserRepository.
func NewRecordUserRepository(store RecordStore, namespace string) *RecordUserRepository {
	return &RecordUserRepository{store: store, namespace: namespace}
}

// GetAll returns all users.
func (r *RecordUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	return loadList[models.User](ctx, r.store, r.namespace, CollectionUsers)
}

// GetByID returns a user by ID.
func (r *RecordUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, apperrors.NotFound("user", id)
}

// GetByEmail returns a user by exact email match.
func (r *RecordUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, apperrors.New(apperrors.ErrNotFound, "user with email "+email+" not found")
}

// Create appends a new user.
func (r *RecordUserRepository) Create(ctx context.Context, user *models.User) error {
	return updateList(ctx, r.store, r.namespace, CollectionUsers, func(users []models.User) ([]models.User, error) {
		for _, u := range users {
			if u.Email == user.Email {
				return nil, apperrors.ErrEmailTaken
			}
		}
		if user.ID == "" {
			user.ID = nextUserID(users, user.CreatedAt)
		}
		if user.Addresses == nil {
			user.Addresses = []models.Address{}
		}
		return append(users, *user), nil
	})
}

// Update modifies a user in place.
func (r *RecordUserRepository) Update(ctx context.Context, id string, fn func(user *models.User) error) (*models.User, error) {
	var updated models.User
	err := updateList(ctx, r.store, r.namespace, CollectionUsers, func(users []models.User) ([]models.User, error) {
		idx := -1
		for i := range users {
			if users[i].ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, apperrors.NotFound("user", id)
		}

		candidate := users[idx]
		candidate.Addresses = append([]models.Address(nil), candidate.Addresses...)
		if err := fn(&candidate); err != nil {
			return nil, err
		}
		for i, u := range users {
			if i != idx && u.Email == candidate.Email {
				return nil, apperrors.ErrEmailTaken
			}
		}
		users[idx] = candidate
		updated = candidate
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// nextUserID derives an ID from the creation time in milliseconds, moving
// forward until it is unused.
func nextUserID(users []models.User, createdAt time.Time) string {
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	taken := make(map[string]struct{}, len(users))
	for _, u := range users {
		taken[u.ID] = struct{}{}
	}
	ms := createdAt.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if _, ok := taken[id]; !ok {
			return id
		}
		ms++
	}
}
