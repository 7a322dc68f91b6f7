package service

import (
	"context"
	"errors"
	"sync"

	notificationerrors "stayhub/internal/notifications/errors"
	"stayhub/internal/notifications/repository"
	"stayhub/pkg/config"
	apperrors "stayhub/pkg/errors"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"
)

type NotificationService interface {
	List(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, int64, error)
	MarkRead(ctx context.Context, userID, id string) error
}

type notificationService struct {
	repo repository.InboxRepository
	log  *logger.Logger
}

func NewNotificationService(repo repository.InboxRepository, log *logger.Logger) NotificationService {
	return &notificationService{repo: repo, log: log}
}

func (s *notificationService) List(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var notifications []*model.Notification
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
	}()

	go func() {
		defer wg.Done()
		notifications, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
	}()

	wg.Wait()
	if err := errors.Join(errCount, errFind); err != nil {
		s.log.Error("Failed to list notifications", "user_id", userID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve notifications", err)
	}

	return notifications, count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	err := s.repo.MarkRead(ctx, id, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, notificationerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid Notification ID")
	case errors.Is(err, notificationerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Notification", id)
	default:
		s.log.Error("Failed to mark notification read", "id", id, "user_id", userID, "error", err)
		return apperrors.Internal("Failed to update notification", err)
	}
}
