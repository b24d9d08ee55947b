package report

import (
	"fmt"
	"time"

	"food-marketplace-api/mailer"
	"food-marketplace-api/metrics"
	"food-marketplace-api/models"
	"food-marketplace-api/pkg/logger"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler owns the monthly report job. It is constructed in main,
// started once, and stopped on shutdown.
type Scheduler struct {
	db       *gorm.DB
	mail     mailer.Mailer
	schedule string
	cron     *cron.Cron
}

func NewScheduler(db *gorm.DB, mail mailer.Mailer, schedule string) *Scheduler {
	return &Scheduler{
		db:       db,
		mail:     mail,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the cron entry and starts the timer goroutine.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(); err != nil {
			lg := logger.Get()
			lg.Error().Err(err).Msg("scheduled report run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("report schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	lg := logger.Get()
	lg.Info().Str("schedule", s.schedule).Msg("report scheduler started")
	return nil
}

// Stop halts the cron timer; a running job finishes first.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce generates and sends all reports for the previous calendar month.
// Also used by the on-demand test endpoint.
func (s *Scheduler) RunOnce() error {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	from := monthStart.AddDate(0, -1, 0)
	to := monthStart

	if err := s.run(from, to); err != nil {
		metrics.ReportRunsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.ReportRunsTotal.WithLabelValues("ok").Inc()
	return nil
}

func (s *Scheduler) run(from, to time.Time) error {
	var restaurants []models.Restaurant
	if err := s.db.Where("is_active = ?", true).Find(&restaurants).Error; err != nil {
		return err
	}

	period := from.Format("2006-01")
	for _, r := range restaurants {
		pdfBytes, err := BuildRestaurantReport(s.db, &r, from, to)
		if err != nil {
			return fmt.Errorf("restaurant %d report: %w", r.ID, err)
		}
		recipients, err := s.adminEmails(models.RoleRestaurantAdmin, &r.ID)
		if err != nil {
			return err
		}
		if len(recipients) == 0 {
			lg := logger.Get()
			lg.Warn().Uint("restaurant_id", r.ID).Msg("no restaurant admins to mail report to")
			continue
		}
		if err := s.send(recipients,
			fmt.Sprintf("Monthly report %s - %s", period, r.Name),
			"Attached is your restaurant's monthly report.",
			fmt.Sprintf("report-%s-%d.pdf", period, r.ID), pdfBytes); err != nil {
			return err
		}
	}

	platformPDF, err := BuildPlatformReport(s.db, from, to)
	if err != nil {
		return fmt.Errorf("platform report: %w", err)
	}
	admins, err := s.adminEmails(models.RoleAdmin, nil)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		lg := logger.Get()
		lg.Warn().Msg("no platform admins to mail report to")
		return nil
	}
	return s.send(admins,
		fmt.Sprintf("Platform monthly report %s", period),
		"Attached is the platform-wide monthly report.",
		fmt.Sprintf("platform-report-%s.pdf", period), platformPDF)
}

func (s *Scheduler) adminEmails(role models.UserRole, restaurantID *uint) ([]string, error) {
	query := s.db.Model(&models.User{}).Where("role = ?", role)
	if restaurantID != nil {
		query = query.Where("restaurant_id = ?", *restaurantID)
	}
	var emails []string
	if err := query.Pluck("email", &emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}

func (s *Scheduler) send(to []string, subject, body, filename string, pdfBytes []byte) error {
	err := s.mail.Send(to, subject, body, mailer.Attachment{Filename: filename, Content: pdfBytes})
	if err != nil {
		metrics.EmailsTotal.WithLabelValues("report", "failed").Inc()
		return fmt.Errorf("send report %q: %w", filename, err)
	}
	metrics.EmailsTotal.WithLabelValues("report", "sent").Inc()
	return nil
}
