// handlers/admin.go
package handlers

import (
	"invest-platform/middleware"
	"invest-platform/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAdminRoutes(app *fiber.App, db *gorm.DB, adminService *services.AdminService) {
	admin := app.Group("/api/admin", middleware.UserContextMiddleware(), middleware.AdminOnlyMiddleware(db))

	// Moderation queue
	admin.Get("/transactions/pending", adminService.GetPendingTransactions)
	admin.Post("/transactions/:id/:action", adminService.ModerateTransaction)

	// User management
	admin.Get("/users", adminService.GetAllUsers)
	admin.Post("/users/:id/balance", adminService.UpdateUserBalance)
}
