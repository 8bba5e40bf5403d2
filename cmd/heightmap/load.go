package main

import (
	"context"
	"time"

	"github.com/OCharnyshevich/heightfield/internal/config"
	"github.com/OCharnyshevich/heightfield/internal/regen"
)

// loader rebuilds the effective config: the source file, if any, merged
// under the flags given on the command line.
type loader struct {
	source    string
	fromFlags config.Config
	explicit  map[string]bool
}

func (l *loader) load(ctx context.Context) (*config.Config, error) {
	next := l.fromFlags
	if l.source != "" {
		fromFile, err := config.Fetch(ctx, l.source)
		if err != nil {
			return nil, err
		}
		config.Merge(&next, fromFile, l.explicit)
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

// request loads the config and turns it into a regeneration request. The seed
// is pinned exactly when the loaded config fixes one.
func (l *loader) request(ctx context.Context) (regen.Request, error) {
	cfg, err := l.load(ctx)
	if err != nil {
		return regen.Request{}, err
	}
	return requestFor(cfg), nil
}

func requestFor(cfg *config.Config) regen.Request {
	return regen.Request{
		Params:     cfg.Params(time.Now()),
		SeedPinned: cfg.Seed != nil,
	}
}
