package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"marta/config"
	"marta/models"
	"marta/services/mail"
	"marta/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitNotificationWorker runs the async worker in background. It drains the
// post-schedule queue, emailing each attendee a confirmation through the
// scheduling user's own account.
func InitNotificationWorker(mailSvc mail.Service) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeAppointmentScheduled, handleScheduledTask(mailSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[NotificationWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleScheduledTask(mailSvc mail.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p notification.ScheduledPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[NotificationHandler] invalid payload: %v", err)
			return err
		}
		if len(p.Appointment.Attendees) == 0 {
			return nil
		}

		log.Printf("[NotificationHandler] sending confirmation for %q to %d attendee(s)",
			p.Appointment.Title, len(p.Appointment.Attendees))

		msg := confirmationEmail(p.Appointment)
		var firstErr error
		for _, attendee := range p.Appointment.Attendees {
			msg.To = attendee
			if _, err := mailSvc.Send(ctx, p.Credential, msg); err != nil {
				log.Printf("[NotificationHandler] failed to email %s: %v", attendee, err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		return firstErr
	}
}

// confirmationEmail builds the per-attendee confirmation. The recipient is
// filled in by the caller.
func confirmationEmail(appt models.AppointmentDetails) models.OutgoingEmail {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola:\n\nTe confirmo la cita %q el %s a las %s (%d minutos).\n",
		appt.Title, appt.Date, appt.Time, appt.Duration)
	b.WriteString("Recibirás también la invitación de calendario correspondiente.\n\n")
	fmt.Fprintf(&b, "Saludos cordiales,\n%s\n%s",
		config.AppConfig.AssistantName, config.AppConfig.CompanyName)

	return models.OutgoingEmail{
		Subject: "Confirmación de cita: " + appt.Title,
		Body:    b.String(),
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[NotificationWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
