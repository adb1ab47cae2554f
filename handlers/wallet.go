// handlers/wallet.go
package handlers

import (
	"invest-platform/middleware"
	"invest-platform/services"

	"github.com/gofiber/fiber/v2"
)

// SetupWalletRoutes wires every user-facing ledger operation: purchases,
// deposits, withdrawals, earnings and referrals. All of them require the
// gateway user context.
func SetupWalletRoutes(
	app *fiber.App,
	investmentService *services.InvestmentService,
	earningsService *services.EarningsService,
	transactionService *services.TransactionService,
	referralService *services.ReferralService,
) {
	secured := app.Group("/api", middleware.UserContextMiddleware())

	// Investments
	secured.Post("/invest", investmentService.Invest)
	secured.Get("/investments", investmentService.GetInvestments)
	secured.Get("/investments/active", investmentService.GetActiveInvestments)

	// Ledger
	secured.Get("/transactions", transactionService.GetTransactions)
	secured.Post("/deposit", transactionService.Deposit)
	secured.Post("/deposit/:id/proof", transactionService.UploadDepositProof)
	secured.Post("/withdraw", transactionService.Withdraw)

	// Daily earnings
	secured.Get("/earnings/daily", earningsService.GetDailyEarnings)
	secured.Post("/earnings/claim", earningsService.Claim)

	// Referrals
	secured.Get("/referrals", referralService.GetReferrals)
	secured.Get("/referrals/stats", referralService.GetReferralStats)
}
