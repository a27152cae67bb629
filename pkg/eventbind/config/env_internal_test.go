package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	cfg, err := applyEnv(Default(), map[string]string{
		"EVENTBIND_LOG_LEVEL":           "debug",
		"EVENTBIND_STOP_ON_ERROR":       "true",
		"EVENTBIND_SCOPE_FILTER_ORDER":  "-50",
		"EVENTBIND_JOURNAL_DRIVER":      "sqlite",
		"EVENTBIND_JOURNAL_PATH":        "/tmp/journal.db",
		"EVENTBIND_JOURNAL_MAX_ENTRIES": "10",
		"LOG_LEVEL":                     "error",
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.StopOnError)
	assert.Equal(t, -50, cfg.ScopeFilterOrder)
	assert.Equal(t, JournalSQLite, cfg.Journal.Driver)
	assert.Equal(t, "/tmp/journal.db", cfg.Journal.Path)
	assert.Equal(t, 10, cfg.Journal.MaxEntries)
	assert.False(t, cfg.Metrics, "unset variables keep the current value")
}

func TestApplyEnv_Empty(t *testing.T) {
	cfg, err := applyEnv(Default(), map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv_BadValue(t *testing.T) {
	_, err := applyEnv(Default(), map[string]string{"EVENTBIND_METRICS": "maybe"})
	assert.ErrorIs(t, err, ErrInvalid)
}
