// services/earnings_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"invest-platform/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EarningsService struct {
	DB *gorm.DB
}

func NewEarningsService(db *gorm.DB) *EarningsService {
	return &EarningsService{DB: db}
}

type dailyEarning struct {
	PlanName string  `json:"plan_name"`
	Amount   float64 `json:"amount"`
}

type dailyEarningsResponse struct {
	TotalAmount   float64        `json:"total_amount"`
	Earnings      []dailyEarning `json:"earnings"`
	LastClaimDate *time.Time     `json:"last_claim_date"`
}

// GetDailyEarnings handles GET /api/earnings/daily — what the user's active
// investments pay per day, plus the most recent claim timestamp across them.
// Investments whose plan was deleted are left out of the listing (they still
// claim normally).
func (s *EarningsService) GetDailyEarnings(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var investments []models.UserInvestment
	if err := s.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Find(&investments).Error; err != nil {
		log.Printf("DB Error fetching active investments for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching daily earnings"})
	}

	resp := dailyEarningsResponse{Earnings: []dailyEarning{}}

	if len(investments) > 0 {
		planIDs := make([]uint, 0, len(investments))
		for _, inv := range investments {
			planIDs = append(planIDs, inv.PlanID)
		}

		var plans []models.Plan
		if err := s.DB.Where("id IN ?", planIDs).Find(&plans).Error; err != nil {
			log.Printf("DB Error fetching plans for user %d: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching daily earnings"})
		}
		names := make(map[uint]string, len(plans))
		for _, p := range plans {
			names[p.ID] = p.Name
		}

		for _, inv := range investments {
			name, ok := names[inv.PlanID]
			if !ok {
				continue
			}
			resp.Earnings = append(resp.Earnings, dailyEarning{PlanName: name, Amount: inv.DailyEarning})
			resp.TotalAmount += inv.DailyEarning

			if inv.LastClaimDate != nil &&
				(resp.LastClaimDate == nil || inv.LastClaimDate.After(*resp.LastClaimDate)) {
				resp.LastClaimDate = inv.LastClaimDate
			}
		}
	}

	return c.JSON(resp)
}

// ClaimDaily moves today's accrued earnings into the withdrawal wallet.
// Each active investment is claimed independently, gated by its own
// last_claim_date: the guarded per-row UPDATE means two concurrent claims
// can never both count the same investment. Returns the total claimed;
// 0 means nothing was eligible (already claimed today, or no active
// investments) and is not an error.
func (s *EarningsService) ClaimDaily(userID uint) (float64, error) {
	var totalClaimed float64

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var investments []models.UserInvestment
		if err := tx.Where("user_id = ? AND is_active = ?", userID, true).
			Find(&investments).Error; err != nil {
			return err
		}

		now := time.Now()
		// Server-local day boundary; a claim at 23:59 unlocks again at 00:00.
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		for _, inv := range investments {
			res := tx.Model(&models.UserInvestment{}).
				Where("id = ? AND (last_claim_date IS NULL OR last_claim_date < ?)", inv.ID, startOfDay).
				Update("last_claim_date", now)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue // already claimed today
			}

			totalClaimed += inv.DailyEarning

			if err := tx.Create(&models.Transaction{
				UserID:  userID,
				Type:    models.TransactionTypeEarning,
				Amount:  inv.DailyEarning,
				Status:  models.TransactionStatusCompleted,
				Details: fmt.Sprintf("Daily earning from plan #%d", inv.PlanID),
			}).Error; err != nil {
				return err
			}
		}

		if totalClaimed > 0 {
			if err := tx.Model(&models.User{}).
				Where("id = ?", userID).
				Updates(map[string]interface{}{
					"withdrawal_wallet": gorm.Expr("withdrawal_wallet + ?", totalClaimed),
					"total_earnings":    gorm.Expr("total_earnings + ?", totalClaimed),
				}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}
	return totalClaimed, nil
}

// Claim handles POST /api/earnings/claim
func (s *EarningsService) Claim(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	amount, err := s.ClaimDaily(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		log.Printf("DB Error claiming earnings for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error claiming daily earnings"})
	}

	if amount == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No earnings to claim or already claimed today"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("DB Error refetching user %d after claim: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error claiming daily earnings"})
	}

	return c.JSON(fiber.Map{
		"claimed_amount": amount,
		"new_balance":    user.WithdrawalWallet,
	})
}
