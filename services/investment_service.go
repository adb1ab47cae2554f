// services/investment_service.go
package services

import (
	"errors"
	"log"
	"time"

	"invest-platform/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CommissionRate is the referral cut credited to the referrer's withdrawal
// wallet on every purchase made by someone they referred. Fixed platform-wide.
const CommissionRate = 0.05

type InvestmentService struct {
	DB *gorm.DB
}

func NewInvestmentService(db *gorm.DB) *InvestmentService {
	return &InvestmentService{DB: db}
}

// Purchase buys a plan for a user. All effects happen in one DB transaction:
// deposit-wallet debit (guarded, so a concurrent purchase cannot pass a stale
// balance check), investment snapshot, totals bump, purchase ledger entry and
// the referrer commission. Returns ErrInsufficientFunds or ErrNotFound with
// no state touched.
func (s *InvestmentService) Purchase(userID, planID uint) (*models.UserInvestment, error) {
	var investment *models.UserInvestment

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var plan models.Plan
		if err := tx.First(&plan, "id = ?", planID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Debit and totals bump in one guarded statement. Zero rows means the
		// wallet no longer covers the price.
		res := tx.Model(&models.User{}).
			Where("id = ? AND deposit_wallet >= ?", user.ID, plan.Price).
			Updates(map[string]interface{}{
				"deposit_wallet":    gorm.Expr("deposit_wallet - ?", plan.Price),
				"total_investments": gorm.Expr("total_investments + ?", plan.Price),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}

		now := time.Now()
		inv := models.UserInvestment{
			UserID:       user.ID,
			PlanID:       plan.ID,
			PurchaseDate: now,
			ExpiryDate:   now.AddDate(0, 0, plan.Validity),
			Amount:       plan.Price,
			DailyEarning: plan.DailyEarning,
			IsActive:     true,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.Transaction{
			UserID:  user.ID,
			Type:    models.TransactionTypePurchase,
			Amount:  plan.Price,
			Status:  models.TransactionStatusCompleted,
			Details: "Purchase of " + plan.Name,
		}).Error; err != nil {
			return err
		}

		// Referral commission: blind atomic increment on the referrer, so no
		// cross-user lock ordering is needed. A dangling referred_by is
		// silently skipped.
		if user.ReferredBy != nil {
			var referrer models.User
			err := tx.First(&referrer, "id = ?", *user.ReferredBy).Error
			switch {
			case err == nil:
				commission := plan.Price * CommissionRate
				if err := tx.Model(&models.User{}).
					Where("id = ?", referrer.ID).
					Update("withdrawal_wallet", gorm.Expr("withdrawal_wallet + ?", commission)).Error; err != nil {
					return err
				}
				if err := tx.Create(&models.Transaction{
					UserID:  referrer.ID,
					Type:    models.TransactionTypeCommission,
					Amount:  commission,
					Status:  models.TransactionStatusCompleted,
					Details: "Commission from " + user.Username,
				}).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				// referrer deleted — no commission
			default:
				return err
			}
		}

		investment = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return investment, nil
}

// Invest handles POST /api/invest {plan_id}
func (s *InvestmentService) Invest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var req struct {
		PlanID uint `json:"plan_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.PlanID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Plan ID is required"})
	}

	// Fast-fail lookups for precise 404s; the purchase itself re-reads inside
	// its transaction.
	if err := s.DB.First(&models.Plan{}, "id = ?", req.PlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if err := s.DB.First(&models.User{}, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	investment, err := s.Purchase(userID, req.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientFunds):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Insufficient funds in deposit wallet"})
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
		default:
			log.Printf("DB Error purchasing plan %d for user %d: %v", req.PlanID, userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error purchasing plan"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(investment)
}

// investmentWithPlan is an investment row enriched with the catalog name.
type investmentWithPlan struct {
	models.UserInvestment
	PlanName string `json:"plan_name"`
}

func (s *InvestmentService) listInvestments(userID uint, activeOnly bool) ([]investmentWithPlan, error) {
	q := s.DB.Where("user_id = ?", userID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var investments []models.UserInvestment
	if err := q.Order("purchase_date DESC").Find(&investments).Error; err != nil {
		return nil, err
	}

	var plans []models.Plan
	if err := s.DB.Find(&plans).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(plans))
	for _, p := range plans {
		names[p.ID] = p.Name
	}

	out := make([]investmentWithPlan, len(investments))
	for i, inv := range investments {
		name, ok := names[inv.PlanID]
		if !ok {
			name = "Unknown Plan" // plan was deleted after purchase
		}
		out[i] = investmentWithPlan{UserInvestment: inv, PlanName: name}
	}
	return out, nil
}

// GetInvestments handles GET /api/investments
func (s *InvestmentService) GetInvestments(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	investments, err := s.listInvestments(userID, false)
	if err != nil {
		log.Printf("DB Error fetching investments for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching investments"})
	}
	return c.JSON(investments)
}

// GetActiveInvestments handles GET /api/investments/active
func (s *InvestmentService) GetActiveInvestments(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	investments, err := s.listInvestments(userID, true)
	if err != nil {
		log.Printf("DB Error fetching active investments for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching active investments"})
	}
	return c.JSON(investments)
}
