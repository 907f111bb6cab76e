package chartstore

import (
	"context"
	"fmt"

	"github.com/dusk-indust/chartaxis/internal/config"
)

// Open builds the store named by cfg and initializes its schema.
func Open(ctx context.Context, cfg *config.ProjectConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Store {
	case config.StoreMemory:
		s = NewMemStore()
	case config.StoreFile, "":
		s = NewFileStore(cfg.StorePath)
	case config.StoreKuzu:
		s, err = openKuzu(cfg.StorePath)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("chartstore: %q: %w", cfg.Store, config.ErrUnknownStore)
	}
	if err := s.InitSchema(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
