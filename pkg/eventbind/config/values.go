package config

import "fmt"

// values wraps a decoded document for typed extraction. Missing keys keep
// the caller's default; present keys of the wrong type are an error.
type values struct {
	prefix string
	data   map[string]any
}

func newValues(prefix string, data map[string]any) values {
	if data == nil {
		data = make(map[string]any)
	}
	return values{prefix: prefix, data: data}
}

func (v values) key(k string) string {
	if v.prefix == "" {
		return k
	}
	return v.prefix + "." + k
}

func (v values) string(k string, defaultVal string) (string, error) {
	raw, ok := v.data[k]
	if !ok {
		return defaultVal, nil
	}
	s, ok := raw.(string)
	if !ok {
		return defaultVal, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalid, v.key(k), raw)
	}
	return s, nil
}

func (v values) bool(k string, defaultVal bool) (bool, error) {
	raw, ok := v.data[k]
	if !ok {
		return defaultVal, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return defaultVal, fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalid, v.key(k), raw)
	}
	return b, nil
}

// int accepts int and int64 (YAML) and whole float64 values (JSON).
func (v values) int(k string, defaultVal int) (int, error) {
	raw, ok := v.data[k]
	if !ok {
		return defaultVal, nil
	}
	switch val := raw.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return defaultVal, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalid, v.key(k), raw)
}

func (v values) section(k string) (values, error) {
	raw, ok := v.data[k]
	if !ok || raw == nil {
		return newValues(v.key(k), nil), nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return values{}, fmt.Errorf("%w: %s must be a mapping, got %T", ErrInvalid, v.key(k), raw)
	}
	return newValues(v.key(k), m), nil
}

// decode applies a decoded document on top of Default.
func decode(data map[string]any) (Config, error) {
	cfg := Default()
	root := newValues("", data)

	var err error
	if cfg.ScopeFilterOrder, err = root.int("scope_filter_order", cfg.ScopeFilterOrder); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel, err = root.string("log_level", cfg.LogLevel); err != nil {
		return Config{}, err
	}
	if cfg.Metrics, err = root.bool("metrics", cfg.Metrics); err != nil {
		return Config{}, err
	}
	if cfg.Tracing, err = root.bool("tracing", cfg.Tracing); err != nil {
		return Config{}, err
	}
	if cfg.StopOnError, err = root.bool("stop_on_error", cfg.StopOnError); err != nil {
		return Config{}, err
	}

	journal, err := root.section("journal")
	if err != nil {
		return Config{}, err
	}
	if cfg.Journal.Driver, err = journal.string("driver", cfg.Journal.Driver); err != nil {
		return Config{}, err
	}
	if cfg.Journal.Path, err = journal.string("path", cfg.Journal.Path); err != nil {
		return Config{}, err
	}
	if cfg.Journal.MaxEntries, err = journal.int("max_entries", cfg.Journal.MaxEntries); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
