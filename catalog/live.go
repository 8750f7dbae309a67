package catalog

import (
	"context"
	"sync/atomic"

	"github.com/qyinm/jamemart/types"
)

// Live is a GameSource whose catalog can be swapped by reloading its
// location. Readers always see one complete catalog.
type Live struct {
	loader   *Loader
	location string
	current  atomic.Pointer[Catalog]
}

var _ types.GameSource = (*Live)(nil)

// NewLive loads location once and returns a reloadable store.
func NewLive(ctx context.Context, loader *Loader, location string) (*Live, error) {
	if loader == nil {
		loader = NewLoader()
	}
	l := &Live{loader: loader, location: location}
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload reads the location again. On error the previous catalog stays.
func (l *Live) Reload(ctx context.Context) error {
	c, err := l.loader.Load(ctx, l.location)
	if err != nil {
		return err
	}
	l.current.Store(c)
	return nil
}

// Snapshot returns the catalog currently being served.
func (l *Live) Snapshot() *Catalog { return l.current.Load() }

func (l *Live) Games() []types.Game               { return l.Snapshot().Games() }
func (l *Live) Game(id string) (types.Game, bool) { return l.Snapshot().Game(id) }
func (l *Live) Categories() []string              { return l.Snapshot().Categories() }
