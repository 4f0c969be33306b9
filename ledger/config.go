package ledger

import "time"

type SyncConfig struct {
	Enabled         bool
	IntervalSeconds uint
	LogSuccess      bool
}

type Config struct {
	// Hard cap on notes per issuance.
	MaxIssueCount int
	// Days until a freshly minted note becomes redeemable.
	ExpirationDays int
	// Cosmetic denomination tag stamped on minted notes.
	DefaultDenomination string
	// Units per physical stack.
	MaxStackSize int
	// Slots in a lazily created holding area.
	HoldingSlots int
	// Debounce delay before a scheduled metadata refresh runs.
	RefreshDelayMs uint

	Sync SyncConfig
}

func (cfg *Config) MaxIssue() int {
	if cfg.MaxIssueCount <= 0 {
		return 100
	}

	return cfg.MaxIssueCount
}

func (cfg *Config) Expiration() int {
	if cfg.ExpirationDays <= 0 {
		return 30
	}

	return cfg.ExpirationDays
}

func (cfg *Config) Denomination() string {
	if cfg.DefaultDenomination == "" {
		return "PAPER"
	}

	return cfg.DefaultDenomination
}

func (cfg *Config) StackSize() int {
	if cfg.MaxStackSize <= 0 {
		return 64
	}

	return cfg.MaxStackSize
}

func (cfg *Config) RefreshDelay() time.Duration {
	if cfg.RefreshDelayMs == 0 {
		return 100 * time.Millisecond
	}

	return time.Duration(cfg.RefreshDelayMs) * time.Millisecond
}

func (cfg *Config) SyncInterval() time.Duration {
	if cfg.Sync.IntervalSeconds == 0 {
		return 300 * time.Second
	}

	return time.Duration(cfg.Sync.IntervalSeconds) * time.Second
}
