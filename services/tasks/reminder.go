package tasks

import (
	"context"
	"encoding/json"
	"time"

	"villamar/models"

	"github.com/hibiken/asynq"
)

const TypeBookingReminder = "booking:reminder"

// NewReminderTask builds the asynq task for a pre-arrival reminder.
func NewReminderTask(payload models.ReminderPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingReminder, b), nil
}

// AsynqReminderScheduler enqueues reminder tasks for future delivery.
type AsynqReminderScheduler struct {
	Client *asynq.Client
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	task, err := NewReminderTask(payload)
	if err != nil {
		return err
	}
	_, err = s.Client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt))
	return err
}
