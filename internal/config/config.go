package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds tunable game and money rules.
type GameConfig struct {
	// PlatformFeePercent is deducted from the pot before paying the winner.
	PlatformFeePercent float64 `json:"platform_fee_percent"`
	// BetAmounts is the allow-list of room stake denominations in rupees.
	BetAmounts []int64 `json:"bet_amounts"`
	MinPlayers int     `json:"min_players"`
	MaxPlayers int     `json:"max_players"`
	// SkipLimit is the number of skipped turns that forfeits a player.
	SkipLimit int `json:"skip_limit"`

	Currency            string `json:"currency"`
	MaxDepositAmount    int64  `json:"max_deposit_amount"`
	MaxWithdrawalAmount int64  `json:"max_withdrawal_amount"`
	// OrderTTLMinutes is how long a deposit order stays payable.
	OrderTTLMinutes int `json:"order_ttl_minutes"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Default returns the built-in configuration, matching production values.
func Default() *GameConfig {
	return &GameConfig{
		PlatformFeePercent:  5,
		BetAmounts:          []int64{2, 5, 10, 20, 50, 100},
		MinPlayers:          2,
		MaxPlayers:          4,
		SkipLimit:           3,
		Currency:            "INR",
		MaxDepositAmount:    10000,
		MaxWithdrawalAmount: 50000,
		OrderTTLMinutes:     15,
	}
}

// LoadGameConfig loads the game configuration from the given path once.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := Default()
		if err := json.Unmarshal(data, c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or defaults when no file
// was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return Default()
	}
	return cfg
}

// IsAllowedBet reports whether amount is one of the configured denominations.
func (c *GameConfig) IsAllowedBet(amount int64) bool {
	for _, v := range c.BetAmounts {
		if v == amount {
			return true
		}
	}
	return false
}
