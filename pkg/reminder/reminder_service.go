package reminder

import (
	"MeatSafe-Backend/entities"
	"MeatSafe-Backend/internal/utils/mailing"
	"MeatSafe-Backend/pkg/record"
	"MeatSafe-Backend/pkg/user"
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

const reminderWindow = 24 * time.Hour

type (
	ReminderService interface {
		SendExpiryReminders(ctx context.Context) error
	}

	reminderService struct {
		recordRepository record.RecordRepository
		userRepository   user.UserRepository
	}
)

func NewReminderService(recordRepository record.RecordRepository, userRepository user.UserRepository) ReminderService {
	return &reminderService{
		recordRepository: recordRepository,
		userRepository:   userRepository,
	}
}

func (s *reminderService) SendExpiryReminders(ctx context.Context) error {
	now := time.Now()

	records, err := s.recordRepository.GetRecordsExpiringBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	recipients, err := s.userRepository.GetReminderRecipients(ctx)
	if err != nil {
		return err
	}

	emails := make(map[string]string, len(recipients))
	for _, u := range recipients {
		emails[u.ID.String()] = u.Email
	}

	byUser := make(map[string][]*entities.MeatRecord)
	for _, rec := range records {
		uid := rec.UserID.String()
		if _, ok := emails[uid]; !ok {
			continue
		}
		byUser[uid] = append(byUser[uid], rec)
	}

	for uid, recs := range byUser {
		body := buildReminderBody(recs, now)
		if err := mailing.SendMail(emails[uid], "Your stored meat is about to expire", body); err != nil {
			log.Printf("failed to send expiry reminder to user %s: %v", uid, err)
		}
	}

	return nil
}

func buildReminderBody(records []*entities.MeatRecord, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("<p>The following items pass their safe storage deadline within 24 hours:</p><ul>")
	for _, rec := range records {
		hoursLeft := int(rec.Deadline.Sub(now).Hours())
		if hoursLeft < 0 {
			hoursLeft = 0
		}
		sb.WriteString(fmt.Sprintf("<li>%s — about %d hour(s) left (deadline %s)</li>",
			rec.MeatType, hoursLeft, rec.Deadline.Format("02 Jan 2006 15:04")))
	}
	sb.WriteString("</ul><p>Cook or discard them before the deadline to stay safe.</p>")
	return sb.String()
}
