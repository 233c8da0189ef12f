package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"marta/config"
	"marta/models"
	"marta/utils"
)

// TypeAppointmentScheduled is the task type for the post-schedule attendee
// notification, processed by the background worker.
const TypeAppointmentScheduled = "appointment:scheduled"

// ScheduledPayload is the queued task body. The credential rides along so the
// worker can send through the scheduling user's own account; it is consumed
// once and never persisted outside the queue entry.
type ScheduledPayload struct {
	Credential  string                    `json:"credential"`
	Appointment models.AppointmentDetails `json:"appointment"`
	EventRef    string                    `json:"eventRef"`
}

// Service enqueues follow-up work after an appointment is committed.
type Service interface {
	NotifyScheduled(credential string, appt models.AppointmentDetails, eventRef string) error
}

// AsynqNotificationService queues notification tasks on Redis.
type AsynqNotificationService struct {
	client *asynq.Client
}

func NewAsynqNotificationService() *AsynqNotificationService {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &AsynqNotificationService{client: client}
}

// NotifyScheduled queues a confirmation email task for the appointment. A
// queue failure is reported but must not undo the already-committed event.
func (s *AsynqNotificationService) NotifyScheduled(credential string, appt models.AppointmentDetails, eventRef string) error {
	payload, err := json.Marshal(ScheduledPayload{
		Credential:  credential,
		Appointment: appt,
		EventRef:    eventRef,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	task := asynq.NewTask(TypeAppointmentScheduled, payload)
	info, err := s.client.Enqueue(task, asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
	if err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}

	utils.GetLogger().Info("scheduled notification enqueued",
		zap.String("taskID", info.ID),
		zap.String("eventRef", eventRef))
	return nil
}

func (s *AsynqNotificationService) Close() error {
	return s.client.Close()
}
