package scheduler

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	paymentService "feeportal_backend/internals/features/finance/payments/service"
	"feeportal_backend/internals/features/home/notifications/model"
	"feeportal_backend/internals/features/home/notifications/service"
)

const dateLayout = "2006-01-02"

type SummarySource interface {
	StudentSummaries(ctx context.Context) ([]paymentService.StudentSummary, error)
}

type Sender interface {
	Send(ctx context.Context, in service.SendInput) (*model.NotificationModel, int, bool, error)
}

// StartFeeReminderScheduler runs RunFeeReminders once at startup and then daily until ctx is done.
func StartFeeReminderScheduler(ctx context.Context, src SummarySource, sender Sender, daysAhead int) {
	go func() {
		run := func() {
			n, err := RunFeeReminders(ctx, src, sender, daysAhead, time.Now())
			if err != nil {
				log.WithError(err).Error("[REMINDER] run failed")
				return
			}
			log.Printf("[REMINDER] %d reminder(s) sent", n)
		}

		run()
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("[REMINDER] scheduler stopped")
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}

// RunFeeReminders notifies every student with an unpaid year whose due date falls
// between today and today+daysAhead. Each (user, year, due date) is reminded once.
func RunFeeReminders(ctx context.Context, src SummarySource, sender Sender, daysAhead int, now time.Time) (int, error) {
	if daysAhead < 0 {
		daysAhead = 0
	}
	summaries, err := src.StudentSummaries(ctx)
	if err != nil {
		return 0, err
	}

	today := truncateDay(now)
	horizon := today.AddDate(0, 0, daysAhead)
	sent := 0

	for _, s := range summaries {
		user := s.User
		for _, e := range s.Entries {
			if e.RemainingAmount <= 0 {
				continue
			}
			due := truncateDay(e.DueDate)
			if due.Before(today) || due.After(horizon) {
				continue
			}

			userID := user.ID
			_, _, created, err := sender.Send(ctx, service.SendInput{
				Title:       fmt.Sprintf("Fee reminder: %s", e.Year),
				Description: fmt.Sprintf("Your %s fee has %d outstanding, due on %s.", e.Year, e.RemainingAmount, due.Format(dateLayout)),
				Type:        model.NotificationTypeFeeReminder,
				Audience:    model.AudienceUser,
				UserID:      &userID,
				Tags:        []string{"fee", "reminder"},
				Data: map[string]any{
					"year":             e.Year,
					"remaining_amount": e.RemainingAmount,
					"due_date":         due.Format(dateLayout),
				},
				DedupKey: ReminderKey(userID.String(), e.Year, due),
			})
			if err != nil {
				log.WithError(err).WithField("user_id", userID).Warn("[REMINDER] send failed")
				continue
			}
			if created {
				sent++
			}
		}
	}
	return sent, nil
}

func ReminderKey(userID, year string, due time.Time) string {
	return "fee_reminder:" + userID + ":" + year + ":" + due.Format(dateLayout)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
