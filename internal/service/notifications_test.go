package service

import (
	"context"
	"sync"
	"testing"
	"time"

	apperrors "hallbook/internal/errors"
	"hallbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{items: make(map[int64]*models.Notification)}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	copied := *n
	r.items[n.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id int64) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID int64) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) UnreadCount(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) ResolveRequest(_ context.Context, id int64, status string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.Type != models.NotificationUnblockRequest || n.Request == nil || n.Request.Status != models.RequestPending {
		return false, nil
	}
	n.Request.Status = status
	return true, nil
}

func seedUnblockRequest(t *testing.T, repo *fakeNotificationRepo, userID int64) int64 {
	t.Helper()
	n := &models.Notification{
		UserID:  userID,
		Message: "User priya@example.com requests an unblock",
		Type:    models.NotificationUnblockRequest,
		Request: &models.UnblockRequest{
			UserEmail:   "priya@example.com",
			UserName:    "Priya",
			UserRole:    "customer",
			RequestedAt: time.Now(),
			Status:      models.RequestPending,
		},
	}
	require.NoError(t, repo.Create(context.Background(), n))
	return n.ID
}

func TestNotificationUnreadCountAndMarkRead(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: 1, Message: "a", Type: models.NotificationBooking}))
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: 1, Message: "b", Type: models.NotificationPayment}))
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: 2, Message: "c", Type: models.NotificationSystem}))

	count, err := svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkRead(ctx, 1, 1))
	count, _ = svc.UnreadCount(ctx, 1)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.MarkAllRead(ctx, 1))
	count, _ = svc.UnreadCount(ctx, 1)
	assert.Equal(t, int64(0), count)
}

func TestNotificationMarkReadWrongUser(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: 1, Message: "a", Type: models.NotificationBooking}))

	err := svc.MarkRead(ctx, 2, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
}

func TestResolveUnblockRequest(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)
	ctx := context.Background()

	id := seedUnblockRequest(t, repo, 5)

	resolved, err := svc.ResolveRequest(ctx, id, "approve")
	require.NoError(t, err)
	require.NotNil(t, resolved.Request)
	assert.Equal(t, models.RequestApproved, resolved.Request.Status)
}

func TestResolveUnblockRequestIsOneWay(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)
	ctx := context.Background()

	id := seedUnblockRequest(t, repo, 5)

	_, err := svc.ResolveRequest(ctx, id, "deny")
	require.NoError(t, err)

	// A resolved request cannot be flipped again
	_, err = svc.ResolveRequest(ctx, id, "approve")
	assert.ErrorIs(t, err, apperrors.ErrRequestResolved)

	n, _ := repo.GetByID(ctx, id)
	assert.Equal(t, models.RequestDenied, n.Request.Status)
}

func TestResolveUnblockRequestInvalidAction(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)

	id := seedUnblockRequest(t, repo, 5)

	_, err := svc.ResolveRequest(context.Background(), id, "escalate")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResolveUnblockRequestNotFound(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)

	_, err := svc.ResolveRequest(context.Background(), 404, "approve")
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
}
