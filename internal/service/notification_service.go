package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/jobs"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/mailer"
)

const jobTypeCredentialDelivery = "credential_delivery"

// credentialDeliveryPayload is carried on the queue after a successful
// commit. It is the only place the plaintext password transits besides the
// provisioning response, and it is never persisted.
type credentialDeliveryPayload struct {
	Enrollee     models.Enrollee
	CollegeEmail string
	Password     string
}

// NotificationService delivers one-time credentials out-of-band. Dispatch is
// best-effort: delivery failures are retried by the queue and finally logged,
// never surfaced to the enrollment that triggered them.
type NotificationService struct {
	queue  *jobs.Queue
	mail   mailer.Mailer
	logger *zap.Logger
}

// NewNotificationService constructs the dispatcher and its worker queue.
func NewNotificationService(mail mailer.Mailer, cfg jobs.QueueConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{mail: mail, logger: logger}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("notifications", s.handle, cfg)
	return s
}

// Start begins queue consumption.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Dispatch enqueues a credential delivery for the enrollee.
func (s *NotificationService) Dispatch(enrollee models.Enrollee, collegeEmail, password string) error {
	return s.queue.Enqueue(jobs.Job{
		ID:   uuid.NewString(),
		Type: jobTypeCredentialDelivery,
		Payload: credentialDeliveryPayload{
			Enrollee:     enrollee,
			CollegeEmail: collegeEmail,
			Password:     password,
		},
	})
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(credentialDeliveryPayload)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}

	msg := mailer.Message{
		ToName:    fmt.Sprintf("%s %s", payload.Enrollee.FirstName, payload.Enrollee.LastName),
		ToAddress: payload.Enrollee.PersonalEmail,
		Subject:   "Your admission is confirmed",
		Body: fmt.Sprintf(
			"Dear %s,\n\nWelcome to the college. Your enrollment number is %s.\n\n"+
				"College email: %s\nTemporary password: %s\n\n"+
				"Please sign in and change your password immediately.\n",
			payload.Enrollee.FirstName,
			payload.Enrollee.EnrollmentNo,
			payload.CollegeEmail,
			payload.Password,
		),
	}

	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("send credential mail for %s: %w", payload.Enrollee.EnrollmentNo, err)
	}

	s.logger.Info("credentials delivered",
		zap.String("enrollment_no", payload.Enrollee.EnrollmentNo),
		zap.String("to", payload.Enrollee.PersonalEmail),
	)
	return nil
}
