// services/plan_service.go
package services

import (
	"errors"
	"log"

	"invest-platform/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type PlanService struct {
	DB *gorm.DB
}

func NewPlanService(db *gorm.DB) *PlanService {
	return &PlanService{DB: db}
}

// GetAllPlans lists the full catalog (public)
func (s *PlanService) GetAllPlans(c *fiber.Ctx) error {
	var plans []models.Plan
	if err := s.DB.Order("price ASC").Find(&plans).Error; err != nil {
		log.Printf("DB Error fetching plans: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch plans"})
	}
	return c.JSON(plans)
}

// GetPlanByID returns a single plan (public)
func (s *PlanService) GetPlanByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid plan ID"})
	}

	var plan models.Plan
	if err := s.DB.First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(plan)
}

// CreatePlan adds a new investable product (Admin only)
func (s *PlanService) CreatePlan(c *fiber.Ctx) error {
	var req struct {
		Name         string   `json:"name"`
		Price        float64  `json:"price"`
		DailyEarning float64  `json:"daily_earning"`
		Validity     int      `json:"validity"`
		Description  string   `json:"description"`
		Features     []string `json:"features"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}
	if req.Price <= 0 || req.DailyEarning <= 0 || req.Validity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price, daily earning and validity must be positive"})
	}

	plan := &models.Plan{
		Name:         req.Name,
		Slug:         slug.Make(req.Name),
		Price:        req.Price,
		DailyEarning: req.DailyEarning,
		Validity:     req.Validity,
		Description:  req.Description,
		Features:     req.Features,
	}
	if plan.Features == nil {
		plan.Features = []string{}
	}

	if err := s.DB.Create(plan).Error; err != nil {
		log.Printf("DB Error creating plan: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create plan"})
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}

// UpdatePlan edits a plan (Admin only). Existing investments keep the price
// and rate they were bought at; only future purchases see the new values.
func (s *PlanService) UpdatePlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid plan ID"})
	}

	var plan models.Plan
	if err := s.DB.First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Name         *string   `json:"name"`
		Price        *float64  `json:"price"`
		DailyEarning *float64  `json:"daily_earning"`
		Validity     *int      `json:"validity"`
		Description  *string   `json:"description"`
		Features     *[]string `json:"features"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != nil {
		if *req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name cannot be empty"})
		}
		plan.Name = *req.Name
		plan.Slug = slug.Make(*req.Name)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must be positive"})
		}
		plan.Price = *req.Price
	}
	if req.DailyEarning != nil {
		if *req.DailyEarning <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Daily earning must be positive"})
		}
		plan.DailyEarning = *req.DailyEarning
	}
	if req.Validity != nil {
		if *req.Validity <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validity must be positive"})
		}
		plan.Validity = *req.Validity
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Features != nil {
		plan.Features = *req.Features
	}

	if err := s.DB.Save(&plan).Error; err != nil {
		log.Printf("DB Error updating plan: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update plan"})
	}

	return c.JSON(plan)
}

// DeletePlan removes a plan from the catalog (Admin only). Investments bought
// from it are untouched — they carry their own snapshot of price and rate.
func (s *PlanService) DeletePlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid plan ID"})
	}

	res := s.DB.Delete(&models.Plan{}, "id = ?", id)
	if res.Error != nil {
		log.Printf("DB Error deleting plan: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete plan"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SeedDefaultPlans fills an empty catalog with the launch lineup.
func (s *PlanService) SeedDefaultPlans() error {
	var count int64
	if err := s.DB.Model(&models.Plan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.Plan{
		{
			Name: "Starter Plan", Price: 10, DailyEarning: 0.5, Validity: 30,
			Description: "Perfect for beginners",
			Features:    []string{"Daily earnings: $0.50", "Total return: $15 (50% ROI)", "Instant activation"},
		},
		{
			Name: "Growth Plan", Price: 50, DailyEarning: 2.0, Validity: 45,
			Description: "For growing investors",
			Features:    []string{"Daily earnings: $2.00", "Total return: $90 (80% ROI)", "Priority support"},
		},
		{
			Name: "Premium Plan", Price: 100, DailyEarning: 5.0, Validity: 60,
			Description: "Our most popular plan",
			Features:    []string{"Daily earnings: $5.00", "Total return: $300 (200% ROI)", "VIP benefits"},
		},
		{
			Name: "Pro Plan", Price: 200, DailyEarning: 8.0, Validity: 90,
			Description: "For serious investors",
			Features:    []string{"Daily earnings: $8.00", "Total return: $720 (260% ROI)", "Elite benefits & support"},
		},
		{
			Name: "Gold Plan", Price: 500, DailyEarning: 15.0, Validity: 120,
			Description: "High returns investment",
			Features:    []string{"Daily earnings: $15.00", "Total return: $1,800 (260% ROI)", "Premium referral bonuses"},
		},
		{
			Name: "Diamond Plan", Price: 1000, DailyEarning: 25.0, Validity: 180,
			Description: "Maximum returns",
			Features:    []string{"Daily earnings: $25.00", "Total return: $4,500 (350% ROI)", "Exclusive investment benefits"},
		},
	}

	for i := range defaults {
		defaults[i].Slug = slug.Make(defaults[i].Name)
		if err := s.DB.Create(&defaults[i]).Error; err != nil {
			return err
		}
	}
	log.Printf("✅ Seeded %d default plans", len(defaults))
	return nil
}
