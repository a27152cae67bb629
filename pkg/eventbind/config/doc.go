/*
Package config loads dispatcher configuration from YAML, JSON or TOML
files and EVENTBIND_* environment variables.

# Basic Usage

	cfg, err := config.FromFile("eventbind.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
	    log.Fatal(err)
	}

A complete file:

	scope_filter_order: -105
	log_level: debug
	metrics: true
	tracing: true
	stop_on_error: false
	journal:
	  driver: sqlite
	  path: ./journal.db

# Environment

ApplyEnv overrides a loaded Config from the environment. Variable names
are EnvPrefix followed by the upper-cased key, with journal keys under
JOURNAL_:

	EVENTBIND_LOG_LEVEL=debug
	EVENTBIND_JOURNAL_DRIVER=sqlite
	EVENTBIND_JOURNAL_PATH=/var/lib/eventbind/journal.db

# Defaults

Keys that are absent keep the value from Default. A key that is present
with the wrong type is an error wrapping ErrInvalid; integers may be
written as whole JSON numbers.
*/
package config
