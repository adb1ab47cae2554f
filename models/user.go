package models

import "time"

// User is the local ledger row for a platform member. Identity (login,
// password verification) lives in the identity service; this table owns the
// wallets, the monotonic totals and the referral linkage. Rows are populated
// by the identity sync worker.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"uniqueIndex;not null" json:"username"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	Mobile           string    `gorm:"not null" json:"mobile"`
	Password         string    `gorm:"not null" json:"-"` // hash, managed by the identity service
	DepositWallet    float64   `gorm:"not null;default:0" json:"deposit_wallet"`
	WithdrawalWallet float64   `gorm:"not null;default:0" json:"withdrawal_wallet"`
	TotalWithdrawals float64   `gorm:"not null;default:0" json:"total_withdrawals"`
	TotalInvestments float64   `gorm:"not null;default:0" json:"total_investments"`
	TotalEarnings    float64   `gorm:"not null;default:0" json:"total_earnings"`
	ReferralCode     string    `gorm:"uniqueIndex;not null" json:"referral_code"`
	ReferredBy       *uint     `gorm:"index" json:"referred_by,omitempty"`
	IsAdmin          bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
