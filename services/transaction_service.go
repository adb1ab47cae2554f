// services/transaction_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"invest-platform/models"
	"invest-platform/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MinimumAmount is the floor for deposit and withdrawal requests, enforced at
// the API boundary.
const MinimumAmount = 10.0

type TransactionService struct {
	DB *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{DB: db}
}

// GetTransactions handles GET /api/transactions — the user's full ledger,
// newest first.
func (s *TransactionService) GetTransactions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var transactions []models.Transaction
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		log.Printf("DB Error fetching transactions for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error fetching transactions"})
	}
	return c.JSON(transactions)
}

// Deposit handles POST /api/deposit {amount, reference}. The request only
// creates a pending ledger entry — nothing is credited until an admin
// approves it.
func (s *TransactionService) Deposit(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var req struct {
		Amount    float64 `json:"amount"`
		Reference string  `json:"reference"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Amount < MinimumAmount {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("Minimum deposit is $%.0f", MinimumAmount)})
	}
	if strings.TrimSpace(req.Reference) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Transaction reference is required"})
	}

	transaction := models.Transaction{
		UserID:    userID,
		Type:      models.TransactionTypeDeposit,
		Amount:    req.Amount,
		Status:    models.TransactionStatusPending,
		Reference: strings.TrimSpace(req.Reference),
		Details:   "Deposit request",
	}
	if err := s.DB.Create(&transaction).Error; err != nil {
		log.Printf("DB Error creating deposit request for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error creating deposit request"})
	}

	return c.Status(fiber.StatusCreated).JSON(transaction)
}

// RequestWithdrawal places an optimistic hold: the amount leaves the
// withdrawal wallet immediately and comes back only if an admin rejects the
// request. The debit is guarded, so a concurrent request cannot overdraw.
func (s *TransactionService) RequestWithdrawal(userID uint, amount float64, paymentMethod, accountDetails string) (*models.Transaction, error) {
	var transaction *models.Transaction

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND withdrawal_wallet >= ?", userID, amount).
			Update("withdrawal_wallet", gorm.Expr("withdrawal_wallet - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var user models.User
			if err := tx.First(&user, "id = ?", userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			return ErrInsufficientFunds
		}

		details, err := json.Marshal(fiber.Map{
			"payment_method":  paymentMethod,
			"account_details": accountDetails,
		})
		if err != nil {
			return err
		}

		t := models.Transaction{
			UserID:  userID,
			Type:    models.TransactionTypeWithdrawal,
			Amount:  amount,
			Status:  models.TransactionStatusPending,
			Details: string(details),
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		transaction = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// Withdraw handles POST /api/withdraw {amount, payment_method, account_details}
func (s *TransactionService) Withdraw(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var req struct {
		Amount         float64 `json:"amount"`
		PaymentMethod  string  `json:"payment_method"`
		AccountDetails string  `json:"account_details"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Amount < MinimumAmount {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("Minimum withdrawal is $%.0f", MinimumAmount)})
	}

	transaction, err := s.RequestWithdrawal(userID, req.Amount, req.PaymentMethod, req.AccountDetails)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientFunds):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Insufficient funds in withdrawal wallet"})
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		default:
			log.Printf("DB Error creating withdrawal request for user %d: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error creating withdrawal request"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(transaction)
}

// UploadDepositProof handles POST /api/deposit/:id/proof — attaches a payment
// screenshot (stored in R2) to the user's own pending deposit so admins can
// verify the UTR against it.
func (s *TransactionService) UploadDepositProof(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var transaction models.Transaction
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Transaction not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if transaction.Type != models.TransactionTypeDeposit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Proof can only be attached to deposits"})
	}
	if transaction.Status != models.TransactionStatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Deposit has already been processed"})
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Proof file is required"})
	}
	if fileHeader.Size > 10*1024*1024 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Proof file too large (max 10MB)"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".pdf":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported proof file type"})
	}

	key := fmt.Sprintf("deposit-proofs/%d/%s%s", transaction.ID, uuid.NewString()[:8], ext)
	url, err := utils.UploadFileToR2(fileHeader, key)
	if err != nil {
		log.Printf("R2 upload failed for transaction %d: %v", transaction.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload proof"})
	}

	if err := s.DB.Model(&transaction).Update("proof_url", url).Error; err != nil {
		log.Printf("DB Error saving proof URL for transaction %d: %v", transaction.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save proof"})
	}

	return c.JSON(fiber.Map{"message": "Proof uploaded", "proof_url": url})
}
