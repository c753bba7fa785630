package cli

import (
	"fmt"
	"os"

	"daxsim/config"
	"daxsim/internal/logging"
	"daxsim/journal"
	"daxsim/practice"
	"daxsim/provider"
	"daxsim/rules"
)

// app holds the wired collaborators for one command invocation.
type app struct {
	cfg   *config.Config
	log   logging.Logger
	bars  provider.Provider
	store *journal.SQLite
	sim   *practice.Simulator

	closers []func() error
}

// newApp loads configuration, applies flag overrides and builds the
// provider chain, journal store and simulator.
func newApp(rc *RootConfig) (*app, error) {
	cfg, err := config.Load(rc.ConfigPath)
	if err != nil {
		return nil, err
	}
	if rc.DBPath != "" {
		cfg.Journal.DBPath = rc.DBPath
	}
	if rc.LogLevel != "" {
		cfg.LogLevel = rc.LogLevel
	}

	a := &app{
		cfg: cfg,
		log: logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel)),
	}

	var src provider.Provider
	switch cfg.Data.Source {
	case "csv":
		src = provider.NewCSVDir(cfg.Data.CSVDir)
	default:
		src = provider.NewYahoo()
	}
	if cfg.Data.CacheDB != "" {
		cache, err := provider.NewCache(cfg.Data.CacheDB, src, a.log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, cache.Close)
		src = cache
	}
	a.bars = src

	store, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store
	a.closers = append(a.closers, store.Close)

	sim, err := practice.New(practice.Options{
		Symbol:   cfg.Symbol,
		Rules:    rules.Default(),
		Provider: src,
		Store:    store,
		Logger:   a.log,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.sim = sim
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			fmt.Fprintln(os.Stderr, "close:", err)
		}
	}
}
