// models/transaction.go
package models

import "time"

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypePurchase   TransactionType = "purchase"
	TransactionTypeEarning    TransactionType = "earning"
	TransactionTypeCommission TransactionType = "commission"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRejected  TransactionStatus = "rejected"
)

// Transaction is the append-only money ledger. Deposits and withdrawals are
// born pending and flipped exactly once by an admin; purchases, earnings and
// commissions are written completed.
type Transaction struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	UserID    uint              `json:"user_id" gorm:"index;not null"`
	Type      TransactionType   `json:"type" gorm:"index;not null"`
	Amount    float64           `json:"amount" gorm:"not null"`
	Status    TransactionStatus `json:"status" gorm:"index;not null"`
	Details   string            `json:"details"`
	Reference string            `json:"reference"` // user-supplied payment reference (UTR)
	AdminNote string            `json:"admin_note"`
	ProofURL  string            `json:"proof_url,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty"`
}
