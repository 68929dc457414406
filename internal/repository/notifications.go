package repository

import (
	"context"
	"database/sql"

	"hallbook/internal/database"
	"hallbook/internal/models"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, message, type, is_read, related_id,
		                           request_user_email, request_user_name, request_user_role,
		                           requested_at, request_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	var reqEmail, reqName, reqRole, reqStatus *string
	var requestedAt any
	if n.Request != nil {
		reqEmail = &n.Request.UserEmail
		reqName = &n.Request.UserName
		reqRole = &n.Request.UserRole
		reqStatus = &n.Request.Status
		requestedAt = n.Request.RequestedAt
	}

	return r.db.QueryRowContext(ctx, query,
		n.UserID,
		n.Message,
		n.Type,
		n.IsRead,
		n.RelatedID,
		reqEmail,
		reqName,
		reqRole,
		requestedAt,
		reqStatus,
	).Scan(&n.ID, &n.CreatedAt)
}

func scanNotification(row interface{ Scan(...any) error }, n *models.Notification) error {
	var reqEmail, reqName, reqRole, reqStatus *string
	var requestedAt sql.NullTime

	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Message,
		&n.Type,
		&n.IsRead,
		&n.RelatedID,
		&reqEmail,
		&reqName,
		&reqRole,
		&requestedAt,
		&reqStatus,
		&n.CreatedAt,
	)
	if err != nil {
		return err
	}

	if reqStatus != nil {
		n.Request = &models.UnblockRequest{Status: *reqStatus}
		if reqEmail != nil {
			n.Request.UserEmail = *reqEmail
		}
		if reqName != nil {
			n.Request.UserName = *reqName
		}
		if reqRole != nil {
			n.Request.UserRole = *reqRole
		}
		if requestedAt.Valid {
			n.Request.RequestedAt = requestedAt.Time
		}
	}

	return nil
}

const notificationColumns = `id, user_id, message, type, is_read, related_id,
	       request_user_email, request_user_name, request_user_role,
	       requested_at, request_status, created_at`

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	n := &models.Notification{}
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE id = $1`

	err := scanNotification(r.db.QueryRowContext(ctx, query, id), n)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return n, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := scanNotification(rows, &n); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) (bool, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// ResolveRequest moves a pending unblock request to approved/denied. Returns
// false when the request was already resolved (the transition is one-way).
func (r *NotificationRepository) ResolveRequest(ctx context.Context, id int64, status string) (bool, error) {
	query := `
		UPDATE notifications
		SET request_status = $2
		WHERE id = $1
		  AND type = 'unblock_request'
		  AND request_status = 'pending'`

	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
