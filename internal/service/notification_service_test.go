package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/jobs"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/mailer"
)

type mockMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	done chan struct{}
}

func (m *mockMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	select {
	case m.done <- struct{}{}:
	default:
	}
	return nil
}

func TestNotificationDispatchDeliversCredentials(t *testing.T) {
	mail := &mockMailer{done: make(chan struct{}, 1)}
	svc := NewNotificationService(mail, jobs.QueueConfig{Workers: 1}, zap.NewNop())
	svc.Start(context.Background())
	defer svc.Stop()

	enrollee := models.Enrollee{
		EnrollmentNo:  "NUR2025001",
		FirstName:     "Priya",
		LastName:      "Sharma",
		PersonalEmail: "priya.sharma@example.com",
	}
	require.NoError(t, svc.Dispatch(enrollee, "priyas001@nursingcollege.ac.in", "Aa1!secure"))

	select {
	case <-mail.done:
	case <-time.After(2 * time.Second):
		t.Fatal("credential mail never sent")
	}

	mail.mu.Lock()
	defer mail.mu.Unlock()
	require.Len(t, mail.sent, 1)
	msg := mail.sent[0]
	assert.Equal(t, "priya.sharma@example.com", msg.ToAddress)
	assert.Equal(t, "Priya Sharma", msg.ToName)
	assert.Contains(t, msg.Body, "NUR2025001")
	assert.Contains(t, msg.Body, "priyas001@nursingcollege.ac.in")
	assert.Contains(t, msg.Body, "Aa1!secure")
	assert.True(t, strings.Contains(msg.Body, "change your password"))
}

func TestNotificationDispatchRequiresStart(t *testing.T) {
	mail := &mockMailer{done: make(chan struct{}, 1)}
	svc := NewNotificationService(mail, jobs.QueueConfig{}, zap.NewNop())

	err := svc.Dispatch(models.Enrollee{EnrollmentNo: "NUR2025001"}, "x@nursingcollege.ac.in", "pw")
	require.Error(t, err)
}
