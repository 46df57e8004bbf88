package models

// Wallet is the single balance document owned by a user. Field names must
// stay in sync with the Lua balance scripts in the services package, which
// decode the same JSON.
type Wallet struct {
	UserID  string  `json:"user_id" redis:"user_id"`
	Balance float64 `json:"balance" redis:"balance"`

	USDTAddress string `json:"usdt_address" redis:"usdt_address"`
	LTCAddress  string `json:"ltc_address" redis:"ltc_address"`
	BTCAddress  string `json:"btc_address" redis:"btc_address"`

	DailyBonusClaimedAt int64 `json:"daily_bonus_claimed_at" redis:"daily_bonus_claimed_at"`
}

func (w *Wallet) Addresses() []string {
	return []string{w.USDTAddress, w.LTCAddress, w.BTCAddress}
}
