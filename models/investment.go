// models/investment.go
package models

import "time"

// UserInvestment is one purchase of a plan. Amount and DailyEarning are
// copied from the plan at purchase time and never re-read. LastClaimDate
// gates the once-per-calendar-day earnings claim per investment.
//
// IsActive is set on creation and nothing currently flips it when the
// validity window passes, so an active investment keeps accruing past its
// expiry date. The hourly scheduler reports how many rows are in that state.
type UserInvestment struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	UserID        uint       `json:"user_id" gorm:"index;not null"`
	PlanID        uint       `json:"plan_id" gorm:"index;not null"`
	PurchaseDate  time.Time  `json:"purchase_date" gorm:"not null"`
	ExpiryDate    time.Time  `json:"expiry_date" gorm:"not null"`
	Amount        float64    `json:"amount" gorm:"not null"`
	DailyEarning  float64    `json:"daily_earning" gorm:"not null"`
	IsActive      bool       `json:"is_active" gorm:"not null;default:true"`
	LastClaimDate *time.Time `json:"last_claim_date,omitempty"`
}
