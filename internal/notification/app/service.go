package app

import (
	"context"
	"fmt"
	"time"

	"roadassist/internal/notification/domain"
	"roadassist/internal/shared/util"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type NotificationService struct {
	repo   NotificationRepository
	logger *util.Logger
}

func NewNotificationService(repo NotificationRepository, logger *util.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// Record persists an envelope delivered off the broker. Called by the
// notification-worker, not by HTTP handlers.
func (s *NotificationService) Record(ctx context.Context, env domain.Envelope) error {
	instance := "NotificationService.Record"

	n := &domain.Notification{
		ID:        util.NewID(),
		UserID:    env.UserID,
		Title:     env.Title,
		Message:   env.Message,
		Type:      env.Type,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error(instance, err)
		return err
	}

	s.logger.OK(instance, fmt.Sprintf("stored %s notification for user %s", n.Type, n.UserID))
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
