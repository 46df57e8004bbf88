package models

// History is an append-only record of a game round reported by the client.
type History struct {
	ID        string  `json:"id" redis:"id"`
	UserID    string  `json:"user_id" redis:"user_id"`
	Game      string  `json:"game" redis:"game"`
	BetAmount float64 `json:"bet_amount" redis:"bet_amount"`
	WinAmount float64 `json:"win_amount" redis:"win_amount"`
	Date      int64   `json:"date" redis:"date"`
}
