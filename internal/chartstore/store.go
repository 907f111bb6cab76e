// Package chartstore persists chart configurations, the external source of
// truth that drag sessions read from and write back to.
package chartstore

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/dusk-indust/chartaxis/internal/chart"
)

// Store is the interface for chart config persistence.
// Implementations: MemStore (testing, ephemeral serve), FileStore (yaml
// files, watchable), KuzuStore (graph backend, cgo).
type Store interface {
	io.Closer

	// InitSchema prepares the backend. Safe to call more than once.
	InitSchema(ctx context.Context) error

	// Put validates cfg and stores a copy with Revision advanced past the
	// stored one. It returns the stored copy.
	Put(ctx context.Context, cfg *chart.Config) (*chart.Config, error)

	// Get returns a copy of the chart, or ErrNotFound.
	Get(ctx context.Context, id string) (*chart.Config, error)

	// List returns every chart id in lexical order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the chart, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound  = errors.New("chart not found")
	ErrInvalidID = errors.New("invalid chart id")
)

// checkID rejects ids that cannot be used as a file name.
func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return ErrInvalidID
	}
	return nil
}

// prepare validates cfg and returns the copy to store at revision rev.
func prepare(cfg *chart.Config, rev int64) (*chart.Config, error) {
	if err := checkID(cfg.ID); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out := cfg.Clone()
	out.Revision = rev
	return out, nil
}
