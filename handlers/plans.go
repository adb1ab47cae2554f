// handlers/plans.go
package handlers

import (
	"invest-platform/middleware"
	"invest-platform/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPlanRoutes(app *fiber.App, db *gorm.DB, planService *services.PlanService) {
	// 🔓 Public catalog
	app.Get("/api/plans", planService.GetAllPlans)
	app.Get("/api/plans/:id", planService.GetPlanByID)

	// 🔒 Catalog management (admin)
	admin := app.Group("/api/plans", middleware.UserContextMiddleware(), middleware.AdminOnlyMiddleware(db))
	admin.Post("/", planService.CreatePlan)
	admin.Put("/:id", planService.UpdatePlan)
	admin.Delete("/:id", planService.DeletePlan)
}
