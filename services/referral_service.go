// services/referral_service.go
package services

import (
	"log"

	"invest-platform/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReferralService struct {
	DB *gorm.DB
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{DB: db}
}

// referralUser is a referred user plus the display figures derived from their
// investment history. The commission shown here is recomputed from summed
// investment amounts; the authoritative record is the commission ledger
// entries written at purchase time, and the two can drift if balances are
// ever adjusted by hand.
type referralUser struct {
	models.User
	TotalInvestment float64 `json:"total_investment"`
	Commission      float64 `json:"commission"`
}

func (s *ReferralService) listReferrals(userID uint) ([]referralUser, error) {
	var referred []models.User
	if err := s.DB.Where("referred_by = ?", userID).Find(&referred).Error; err != nil {
		return nil, err
	}
	if len(referred) == 0 {
		return []referralUser{}, nil
	}

	ids := make([]uint, len(referred))
	for i, u := range referred {
		ids[i] = u.ID
	}

	var sums []struct {
		UserID uint
		Total  float64
	}
	if err := s.DB.Model(&models.UserInvestment{}).
		Select("user_id, COALESCE(SUM(amount), 0) AS total").
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	totals := make(map[uint]float64, len(sums))
	for _, row := range sums {
		totals[row.UserID] = row.Total
	}

	out := make([]referralUser, len(referred))
	for i, u := range referred {
		total := totals[u.ID]
		out[i] = referralUser{
			User:            u,
			TotalInvestment: total,
			Commission:      total * CommissionRate,
		}
	}
	return out, nil
}

// GetReferrals handles GET /api/referrals — every user this user referred,
// with their investment total and the 5% commission figure.
func (s *ReferralService) GetReferrals(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	referrals, err := s.listReferrals(userID)
	if err != nil {
		log.Printf("DB Error fetching referrals for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching referrals"})
	}
	return c.JSON(referrals)
}

// GetReferralStats handles GET /api/referrals/stats
func (s *ReferralService) GetReferralStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	referrals, err := s.listReferrals(userID)
	if err != nil {
		log.Printf("DB Error fetching referral stats for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching referral stats"})
	}

	var totalCommission float64
	for _, r := range referrals {
		totalCommission += r.Commission
	}

	return c.JSON(fiber.Map{
		"total_team_members": len(referrals),
		"total_commission":   totalCommission,
	})
}
