package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/apperrors"
	"storefront/internal/logger"

	"go.uber.org/zap"
)

// decodeList decodes a stored JSON array. Absent or malformed data yields an
// empty, non-nil slice; corruption is logged and never returned.
func decodeList[T any](data []byte, namespace string, collection Collection) []T {
	if len(data) == 0 {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		logCorrupted(namespace, collection, err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// decodeOne decodes a stored JSON object. ok is false when the data is
// absent or malformed.
func decodeOne[T any](data []byte, namespace string, collection Collection) (value T, ok bool) {
	if len(data) == 0 {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		logCorrupted(namespace, collection, err)
		var zero T
		return zero, false
	}
	return value, true
}

func logCorrupted(namespace string, collection Collection, err error) {
	logger.Logger.Warn("recovered corrupted record with empty default",
		zap.String("namespace", namespace),
		zap.String("collection", string(collection)),
		zap.Error(apperrors.Wrap(apperrors.ErrCorruptedState, "malformed stored JSON", err)),
	)
}

func loadList[T any](ctx context.Context, store RecordStore, namespace string, collection Collection) ([]T, error) {
	snap, err := store.Get(ctx, namespace, collection)
	if err != nil {
		return nil, err
	}
	return decodeList[T](snap.Data, namespace, collection), nil
}

func saveList[T any](ctx context.Context, store RecordStore, namespace string, collection Collection, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", collection, err)
	}
	_, err = store.Set(ctx, namespace, collection, data)
	return err
}

// updateList runs fn over the decoded collection atomically and stores the
// result. fn may return ErrSkipWrite to leave the collection untouched.
func updateList[T any](ctx context.Context, store RecordStore, namespace string, collection Collection, fn func(items []T) ([]T, error)) error {
	_, err := store.Update(ctx, namespace, collection, func(current []byte) ([]byte, error) {
		items, err := fn(decodeList[T](current, namespace, collection))
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		data, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", collection, err)
		}
		return data, nil
	})
	return err
}

// seedList stores items only when the collection has never been written.
func seedList[T any](ctx context.Context, store RecordStore, namespace string, collection Collection, items []T) (bool, error) {
	seeded := false
	_, err := store.Update(ctx, namespace, collection, func(current []byte) ([]byte, error) {
		if len(current) != 0 {
			return nil, ErrSkipWrite
		}
		data, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", collection, err)
		}
		seeded = true
		return data, nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}
