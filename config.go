package kvdb

import "log/slog"

// Config carries engine tuning parameters for Open.
//
// MemoryBudgetMB and Columns are accepted for interface compatibility
// but are not yet applied to engine tuning; the engine opens with
// baseline options regardless. This is a known gap, not a contract:
// callers must not rely on them having an effect.
type Config struct {
	// MemoryBudgetMB is the per-column memory budget, in megabytes.
	MemoryBudgetMB int

	// Columns is the number of non-default columns the caller expects
	// to use. Substores are created lazily either way.
	Columns uint32

	// NoSync disables fsync on commit. Only suitable for tests and
	// throwaway data.
	NoSync bool

	// Logger receives stub-invocation and diagnostic messages.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
