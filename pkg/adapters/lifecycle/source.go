// Package lifecycle exposes vault change batches as a lifecycle.Source so
// they can be consumed by lifecycle-managed components.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/vaultdeck/pkg/core"
)

type changeSource struct {
	batches <-chan core.ChangeBatch
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source emitting every batch received on
// batches. Events() is closed once batches is closed or ctx is done.
func NewSource(batches <-chan core.ChangeBatch) lifecycle.Source {
	return &changeSource{
		batches: batches,
		out:     make(chan lifecycle.Event),
	}
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case b, ok := <-s.batches:
				if !ok {
					return nil
				}
				// ChangeBatch has String() and satisfies lifecycle.Event.
				select {
				case s.out <- b:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
