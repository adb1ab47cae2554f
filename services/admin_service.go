// services/admin_service.go
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

type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

// pendingTransaction is a moderation-queue row enriched with who filed it.
type pendingTransaction struct {
	models.Transaction
	Username string `json:"username"`
	Email    string `json:"email"`
}

// GetPendingTransactions handles GET /api/admin/transactions/pending —
// the moderation queue, oldest first.
func (s *AdminService) GetPendingTransactions(c *fiber.Ctx) error {
	var transactions []models.Transaction
	if err := s.DB.Where("status = ?", models.TransactionStatusPending).
		Order("created_at ASC").
		Find(&transactions).Error; err != nil {
		log.Printf("DB Error fetching pending transactions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching pending transactions"})
	}

	userIDs := make([]uint, 0, len(transactions))
	for _, t := range transactions {
		userIDs = append(userIDs, t.UserID)
	}

	users := make(map[uint]models.User, len(userIDs))
	if len(userIDs) > 0 {
		var rows []models.User
		if err := s.DB.Where("id IN ?", userIDs).Find(&rows).Error; err != nil {
			log.Printf("DB Error fetching users for pending transactions: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching pending transactions"})
		}
		for _, u := range rows {
			users[u.ID] = u
		}
	}

	out := make([]pendingTransaction, len(transactions))
	for i, t := range transactions {
		row := pendingTransaction{Transaction: t, Username: "Unknown", Email: "Unknown"}
		if u, ok := users[t.UserID]; ok {
			row.Username = u.Username
			row.Email = u.Email
		}
		out[i] = row
	}
	return c.JSON(out)
}

// Moderate settles a pending transaction. The status flip is a guarded UPDATE
// on status='pending', so a second approve of the same transaction hits zero
// rows and fails with ErrInvalidState instead of double-crediting. Wallet
// effects per the ledger state machine:
//
//	approve deposit    → credit deposit wallet
//	approve withdrawal → bump total withdrawals (funds left at request time)
//	reject  deposit    → nothing was credited, nothing to undo
//	reject  withdrawal → refund the optimistic hold
func (s *AdminService) Moderate(transactionID uint, approve bool, adminNote string) (*models.Transaction, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		if err := tx.First(&transaction, "id = ?", transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		newStatus := models.TransactionStatusCompleted
		verb := "Approved"
		if !approve {
			newStatus = models.TransactionStatusRejected
			verb = "Rejected"
		}

		now := time.Now()
		if adminNote == "" {
			adminNote = fmt.Sprintf("%s by admin on %s", verb, now.Format("2006-01-02 15:04:05"))
		}

		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", transactionID, models.TransactionStatusPending).
			Updates(map[string]interface{}{
				"status":     newStatus,
				"admin_note": adminNote,
				"updated_at": &now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidState // already completed or rejected
		}

		var column string
		switch {
		case approve && transaction.Type == models.TransactionTypeDeposit:
			column = "deposit_wallet"
		case approve && transaction.Type == models.TransactionTypeWithdrawal:
			column = "total_withdrawals"
		case !approve && transaction.Type == models.TransactionTypeWithdrawal:
			column = "withdrawal_wallet"
		default:
			return nil // rejected deposit: no wallet change
		}

		return tx.Model(&models.User{}).
			Where("id = ?", transaction.UserID).
			Update(column, gorm.Expr(column+" + ?", transaction.Amount)).Error
	})
	if err != nil {
		return nil, err
	}

	var transaction models.Transaction
	if err := s.DB.First(&transaction, "id = ?", transactionID).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

// ModerateTransaction handles POST /api/admin/transactions/:id/:action
// where action is approve or reject; body carries an optional {admin_note}.
func (s *AdminService) ModerateTransaction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	action := c.Params("action")
	if action != "approve" && action != "reject" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid action"})
	}

	var req struct {
		AdminNote string `json:"admin_note"`
	}
	// Body is optional for moderation; ignore parse errors on empty bodies.
	_ = c.BodyParser(&req)

	transaction, err := s.Moderate(uint(id), action == "approve", req.AdminNote)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Transaction not found"})
		case errors.Is(err, ErrInvalidState):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only pending transactions can be processed"})
		default:
			log.Printf("DB Error moderating transaction %d: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error processing transaction"})
		}
	}

	verb := "approved"
	if action == "reject" {
		verb = "rejected"
	}
	return c.JSON(fiber.Map{
		"message":     fmt.Sprintf("Transaction %s successfully", verb),
		"transaction": transaction,
	})
}

// GetAllUsers handles GET /api/admin/users
func (s *AdminService) GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := s.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		log.Printf("DB Error fetching users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching users"})
	}
	return c.JSON(users)
}

// UpdateUserBalance handles POST /api/admin/users/:id/balance — a direct
// override of either wallet. This bypasses the ledger entirely, which is why
// the referral display figures and the commission ledger can disagree after
// it is used.
func (s *AdminService) UpdateUserBalance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req struct {
		DepositWallet    *float64 `json:"deposit_wallet"`
		WithdrawalWallet *float64 `json:"withdrawal_wallet"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	updates := map[string]interface{}{}
	if req.DepositWallet != nil {
		if *req.DepositWallet < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Deposit wallet cannot be negative"})
		}
		updates["deposit_wallet"] = *req.DepositWallet
	}
	if req.WithdrawalWallet != nil {
		if *req.WithdrawalWallet < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Withdrawal wallet cannot be negative"})
		}
		updates["withdrawal_wallet"] = *req.WithdrawalWallet
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	if err := s.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("DB Error updating balance for user %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error updating user balance"})
	}

	s.DB.First(&user, "id = ?", id)
	return c.JSON(user)
}
