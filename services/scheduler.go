// services/scheduler.go
package services

import (
	"log"
	"time"

	"invest-platform/models"

	"github.com/go-co-op/gocron/v2"
)

// StartExpiryReportScheduler runs an hourly sweep over active investments
// whose validity window has passed. Earnings intentionally keep accruing past
// expiry — product has not signed off on auto-deactivation — so this job only
// surfaces the backlog for ops.
func (s *InvestmentService) StartExpiryReportScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			var count int64
			err := s.DB.Model(&models.UserInvestment{}).
				Where("is_active = ? AND expiry_date < ?", true, time.Now()).
				Count(&count).Error
			if err != nil {
				log.Printf("[Scheduler] DB error counting expired investments: %v", err)
				return
			}
			if count > 0 {
				log.Printf("⚠️ [Scheduler] %d active investment(s) past their validity window are still accruing", count)
			}
		}),
	)
}
