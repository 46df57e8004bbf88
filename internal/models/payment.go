package models

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
)

const PaymentStatusCompleted = "completed"

// Payment is an append-only audit record, one per successful deposit or
// withdrawal. Card metadata is limited to brand and last four digits.
type Payment struct {
	ID          string          `json:"id" redis:"id"`
	UserID      string          `json:"user_id" redis:"user_id"`
	Amount      float64         `json:"amount" redis:"amount"`
	Type        TransactionType `json:"transaction_type" redis:"transaction_type"`
	Status      string          `json:"status" redis:"status"`
	CardType    string          `json:"card_type" redis:"card_type"`
	Last4Digits string          `json:"last4_digits" redis:"last4_digits"`
	CompletedAt int64           `json:"completed_at" redis:"completed_at"`
}

// PaymentSummary is the account-page view of a Payment, without card metadata.
type PaymentSummary struct {
	ID          string          `json:"id"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"transactionType"`
	Status      string          `json:"status"`
	CompletedAt int64           `json:"completedAt"`
}

func (p *Payment) Summary() PaymentSummary {
	return PaymentSummary{
		ID:          p.ID,
		Amount:      p.Amount,
		Type:        p.Type,
		Status:      p.Status,
		CompletedAt: p.CompletedAt,
	}
}
