package services

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-storefront/app/events"
	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/storage"
)

var errStorageDown = errors.New("storage down")

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

// flakyStorage wraps a Memory and fails the operations switched on.
type flakyStorage struct {
	*storage.Memory
	failGet    bool
	failSet    bool
	failRemove bool
	sets       int
}

func newFlakyStorage() *flakyStorage {
	return &flakyStorage{Memory: storage.NewMemory()}
}

func (f *flakyStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errStorageDown
	}
	return f.Memory.GetItem(ctx, key)
}

func (f *flakyStorage) SetItem(ctx context.Context, key, value string) error {
	if f.failSet {
		return errStorageDown
	}
	f.sets++
	return f.Memory.SetItem(ctx, key, value)
}

func (f *flakyStorage) RemoveItem(ctx context.Context, key string) error {
	if f.failRemove {
		return errStorageDown
	}
	return f.Memory.RemoveItem(ctx, key)
}

// countingBus returns a bus plus a pointer to how often signal was published.
func countingBus(signal events.Signal) (*events.Bus, *int) {
	bus := events.NewBus(logging.Discard())
	n := new(int)
	bus.Subscribe(signal, func() { *n++ })
	return bus, n
}
