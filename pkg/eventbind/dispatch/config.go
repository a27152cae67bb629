package dispatch

import (
	"fmt"

	"github.com/randalmurphal/eventbind/pkg/eventbind/config"
	"github.com/randalmurphal/eventbind/pkg/eventbind/journal"
)

// OpenJournal opens the journal selected by cfg. It returns nil for the
// "none" driver.
func OpenJournal(cfg config.JournalConfig) (journal.Store, error) {
	switch cfg.Driver {
	case config.JournalNone:
		return nil, nil
	case config.JournalMemory, "":
		return journal.NewMemoryStore(cfg.MaxEntries), nil
	case config.JournalSQLite:
		store, err := journal.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown journal.driver %q", config.ErrInvalid, cfg.Driver)
	}
}

// FromConfig creates a dispatcher from cfg. Options in opts are applied
// after the configured ones. The dispatcher owns the journal it opens;
// release it with Close.
func FromConfig(cfg config.Config, opts ...Option) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := OpenJournal(cfg.Journal)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithLogLevel(cfg.SlogLevel()),
		WithScopeOrder(cfg.ScopeFilterOrder),
		WithMetrics(cfg.Metrics),
		WithTracing(cfg.Tracing),
		WithStopOnError(cfg.StopOnError),
		WithJournal(store),
	}
	d := New(append(base, opts...)...)
	if store != nil && d.journal != store {
		// Replaced by a WithJournal option.
		if err := store.Close(); err != nil {
			return nil, fmt.Errorf("close unused journal: %w", err)
		}
		store = nil
	}
	d.ownsJournal = store != nil
	return d, nil
}
