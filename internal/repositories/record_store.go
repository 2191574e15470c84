package repositories

import (
	"context"
	"errors"
	"sync"
)

// Collection names a JSON collection inside a namespace.
type Collection string

const (
	CollectionProducts      Collection = "products"
	CollectionCategories    Collection = "categories"
	CollectionUsers         Collection = "users"
	CollectionOrders        Collection = "orders"
	CollectionNotifications Collection = "notifications"
	CollectionCart          Collection = "cart"
	CollectionSession       Collection = "currentUser"
)

// ErrSkipWrite can be returned from an UpdateFunc to leave the record as it is.
var ErrSkipWrite = errors.New("skip write")

// Snapshot is the stored JSON of a collection and its version. A missing
// collection has no data and version 0.
type Snapshot struct {
	Data    []byte
	Version int64
}

// Absent reports whether nothing is stored under the key.
func (s Snapshot) Absent() bool {
	return len(s.Data) == 0
}

// UpdateFunc receives the current JSON (nil when absent) and returns the
// replacement.
type UpdateFunc func(current []byte) ([]byte, error)

// ChangeEvent describes a committed write.
type ChangeEvent struct {
	Namespace  string     `json:"namespace"`
	Collection Collection `json:"collection"`
	Version    int64      `json:"version"`
	Deleted    bool       `json:"deleted"`
}

// ChangeListener is called after every committed write.
type ChangeListener func(ChangeEvent)

// RecordStore is a namespaced key-value store of JSON collections.
//
// Set is last-write-wins. Update is an atomic read-modify-write on one key,
// and is what every service mutation goes through.
type RecordStore interface {
	Get(ctx context.Context, namespace string, collection Collection) (Snapshot, error)
	Set(ctx context.Context, namespace string, collection Collection, data []byte) (int64, error)
	Update(ctx context.Context, namespace string, collection Collection, fn UpdateFunc) (int64, error)
	Delete(ctx context.Context, namespace string, collection Collection) error
	Subscribe(listener ChangeListener) (cancel func())
}

// changeFeed fans committed writes out to listeners. Delivery is best effort
// and synchronous, after the store has released its locks.
type changeFeed struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]ChangeListener
}

func (f *changeFeed) subscribe(listener ChangeListener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listeners == nil {
		f.listeners = make(map[int]ChangeListener)
	}
	id := f.nextID
	f.nextID++
	f.listeners[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.listeners, id)
			f.mu.Unlock()
		})
	}
}

func (f *changeFeed) publish(ev ChangeEvent) {
	f.mu.Lock()
	listeners := make([]ChangeListener, 0, len(f.listeners))
	for _, l := range f.listeners {
		listeners = append(listeners, l)
	}
	f.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}
