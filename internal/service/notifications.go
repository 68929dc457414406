package service

import (
	"context"
	"fmt"

	apperrors "hallbook/internal/errors"
	"hallbook/internal/models"
)

// NotificationRepo is the persistence surface the service needs. The
// concrete repository satisfies it; tests use an in-memory fake.
type NotificationRepo interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) (bool, error)
	MarkAllRead(ctx context.Context, userID int64) error
	ResolveRequest(ctx context.Context, id int64, status string) (bool, error)
}

type NotificationService struct {
	notificationRepo NotificationRepo
}

func NewNotificationService(notificationRepo NotificationRepo) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) List(ctx context.Context, userID int64) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	count, err := s.notificationRepo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	ok, err := s.notificationRepo.MarkRead(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !ok {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// ResolveRequest moves an unblock request from pending to approved or
// denied. The transition happens at most once.
func (s *NotificationService) ResolveRequest(ctx context.Context, id int64, action string) (*models.Notification, error) {
	var status string
	switch action {
	case "approve":
		status = models.RequestApproved
	case "deny":
		status = models.RequestDenied
	default:
		return nil, fmt.Errorf("%w: unknown action %q", apperrors.ErrValidation, action)
	}

	ok, err := s.notificationRepo.ResolveRequest(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve request: %w", err)
	}
	if !ok {
		notification, err := s.notificationRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get notification: %w", err)
		}
		if notification == nil || notification.Type != models.NotificationUnblockRequest {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.ErrRequestResolved
	}

	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return notification, nil
}
