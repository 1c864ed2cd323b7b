package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/notify"
	"github.com/spec-kit/marketplace-service/internal/worker"
)

// NotificationService turns domain events into background jobs.
type NotificationService struct {
	dispatcher events.Dispatcher
	queue      worker.Queue
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, queue worker.Queue, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		queue:      queue,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventVerificationRequested, n.handleVerificationRequested)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventProductCreated, n.handleProductChanged)
	n.dispatcher.Subscribe(events.EventProductUpdated, n.handleProductChanged)
}

func (n *NotificationService) handleVerificationRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.VerificationRequestedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("VerificationRequested", zap.String("email", payload.Email), zap.Bool("seller", payload.Seller))
	return n.enqueue(ctx, worker.JobSendEmail, notify.Email{
		To:       payload.Email,
		Subject:  "Email Verification",
		TextBody: "To complete account verification, click the following link: " + payload.Link,
		Tag:      "email-verification",
	})
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("PasswordResetRequested", zap.String("user_id", payload.UserID))
	return n.enqueue(ctx, worker.JobSendEmail, notify.Email{
		To:       payload.Email,
		Subject:  "Password Recovery",
		TextBody: "Click the following link to reset your password: " + payload.Link,
		Tag:      "password-reset",
	})
}

func (n *NotificationService) handleProductChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ProductChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info(string(event.Type), zap.String("product_id", payload.ProductID))
	return n.enqueue(ctx, worker.JobSyncProduct, worker.SyncProductPayload{ProductID: payload.ProductID})
}

func (n *NotificationService) enqueue(ctx context.Context, jobType worker.JobType, payload any) error {
	job, err := worker.NewJob(jobType, payload)
	if err != nil {
		return err
	}
	if err := n.queue.Push(ctx, job); err != nil {
		n.logger.Error("enqueue job", zap.String("job_type", string(jobType)), zap.Error(err))
		return err
	}
	return nil
}
