package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/gridironlabs/consensus/internal/cache"
	"github.com/gridironlabs/consensus/internal/identity"
	"github.com/gridironlabs/consensus/internal/model"
	"github.com/gridironlabs/consensus/internal/pipeline"
	"github.com/gridironlabs/consensus/internal/provider"
	"github.com/gridironlabs/consensus/internal/scoring"
	"github.com/gridironlabs/consensus/internal/store"
)

// openStore creates the identity store for the configured driver and runs
// migrations.
func openStore(ctx context.Context) (store.IdentityStore, error) {
	var (
		s   store.IdentityStore
		err error
	)
	switch cfg.Store.Driver {
	case "memory":
		s = store.NewMemory()
	case "sqlite":
		s, err = store.NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		s, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// newRegistry builds the provider registry, applying configured overrides.
func newRegistry() (*provider.Registry, error) {
	registry := provider.NewDefaultRegistry()
	if cfg.Providers.OverridesPath != "" {
		if err := registry.LoadOverrides(cfg.Providers.OverridesPath); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// loadDirectory reads the canonical player list from a JSON file.
func loadDirectory(path string) (*identity.Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read players file %s", path)
	}

	var players []model.PlayerIdentity
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, eris.Wrapf(err, "parse players file %s", path)
	}

	dir := identity.NewDirectory()
	for _, p := range players {
		p.Position = model.ParsePosition(string(p.Position))
		dir.Add(p)
	}
	return dir, nil
}

// newBuilder assembles the full pipeline from configuration.
func newBuilder(st store.IdentityStore, dir *identity.Directory) (*pipeline.Builder, *cache.Cache, error) {
	registry, err := newRegistry()
	if err != nil {
		return nil, nil, err
	}

	resolver := identity.NewResolver(dir, st,
		identity.WithFuzzyThreshold(cfg.Resolver.FuzzyThreshold),
	)
	c := cache.New(
		cache.WithTTLs(
			time.Duration(cfg.Cache.NearTTLMinutes)*time.Minute,
			time.Duration(cfg.Cache.FarTTLMinutes)*time.Minute,
		),
		cache.WithActiveWeek(func() int { return cfg.Season.ActiveWeek }),
	)
	return pipeline.NewBuilder(registry, resolver, c), c, nil
}

// loadRules picks the scoring rule set from configuration and flags.
func loadRules(rulesPath string) (scoring.RuleSet, error) {
	if rulesPath == "" {
		rulesPath = cfg.Scoring.RulesPath
	}
	if rulesPath != "" {
		return scoring.LoadRules(rulesPath)
	}
	if cfg.Scoring.UseDefaults {
		return scoring.DefaultRules(), nil
	}
	return nil, scoring.ErrNoRuleSet
}
