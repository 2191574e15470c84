package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/models"
)

// CartRepository stores each client's in-progress cart in the client's
// namespace.
type CartRepository interface {
	Get(ctx context.Context, clientID string) ([]models.CartLine, error)
	// Update applies fn to the cart atomically and returns the stored lines.
	Update(ctx context.Context, clientID string, fn func(lines []models.CartLine) ([]models.CartLine, error)) ([]models.CartLine, error)
	// Clear stores an empty cart.
	Clear(ctx context.Context, clientID string) error
	// Delete removes the cart record altogether.
	Delete(ctx context.Context, clientID string) error
}

// RecordCartRepository is a RecordStore implementation of CartRepository.
type RecordCartRepository struct {
	store RecordStore
}

// NewRecordCartRepository creates a new instance of RecordCartRepository.
func NewRecordCartRepository(store RecordStore) *RecordCartRepository {
	return &RecordCartRepository{store: store}
}

// Get returns the cart lines in insertion order.
func (r *RecordCartRepository) Get(ctx context.Context, clientID string) ([]models.CartLine, error) {
	return loadList[models.CartLine](ctx, r.store, clientID, CollectionCart)
}

// Update modifies the cart.
func (r *RecordCartRepository) Update(ctx context.Context, clientID string, fn func(lines []models.CartLine) ([]models.CartLine, error)) ([]models.CartLine, error) {
	var result []models.CartLine
	err := updateList(ctx, r.store, clientID, CollectionCart, func(lines []models.CartLine) ([]models.CartLine, error) {
		next, err := fn(lines)
		if err != nil {
			return nil, err
		}
		result = next
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		// fn skipped the write; report what is stored.
		return r.Get(ctx, clientID)
	}
	return result, nil
}

// Clear empties the cart.
func (r *RecordCartRepository) Clear(ctx context.Context, clientID string) error {
	return saveList(ctx, r.store, clientID, CollectionCart, []models.CartLine{})
}

// Delete removes the cart record.
func (r *RecordCartRepository) Delete(ctx context.Context, clientID string) error {
	return r.store.Delete(ctx, clientID, CollectionCart)
}

// SessionRepository stores each client's auth session.
type SessionRepository interface {
	// Get returns the client's session, or an anonymous one when none is
	// stored or the stored one is unusable.
	Get(ctx context.Context, clientID string) (models.AuthSession, error)
	Save(ctx context.Context, session models.AuthSession) error
	Delete(ctx context.Context, clientID string) error
}

// RecordSessionRepository is a RecordStore implementation of SessionRepository.
type RecordSessionRepository struct {
	store RecordStore
}

// NewRecordSessionRepository creates a new instance of RecordSessionRepository.
func NewRecordSessionRepository(store RecordStore) *RecordSessionRepository {
	return &RecordSessionRepository{store: store}
}

// Get loads the session.
func (r *RecordSessionRepository) Get(ctx context.Context, clientID string) (models.AuthSession, error) {
	snap, err := r.store.Get(ctx, clientID, CollectionSession)
	if err != nil {
		return models.AuthSession{}, err
	}
	session, ok := decodeOne[models.AuthSession](snap.Data, clientID, CollectionSession)
	// Only restore a session that is authenticated and has a user.
	if !ok || !session.IsAuthenticated || session.CurrentUser == nil {
		return models.Anonymous(clientID), nil
	}
	session.ClientID = clientID
	return session, nil
}

// Save persists the session under session.ClientID.
func (r *RecordSessionRepository) Save(ctx context.Context, session models.AuthSession) error {
	if session.ClientID == "" {
		return fmt.Errorf("session has no client ID")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	_, err = r.store.Set(ctx, session.ClientID, CollectionSession, data)
	return err
}

// Delete removes the session record.
func (r *RecordSessionRepository) Delete(ctx context.Context, clientID string) error {
	return r.store.Delete(ctx, clientID, CollectionSession)
}
