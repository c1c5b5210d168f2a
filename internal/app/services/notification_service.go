package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/app/models/dto"
	"github.com/yigit/aits/internal/pkg/apperrors"
	"github.com/yigit/aits/internal/pkg/email"
	"github.com/yigit/aits/internal/pkg/websocket"
)

// NotificationStore persists notifications
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotificationsByUser(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, id int64, at time.Time) error
}

// Pusher delivers a frame to a user's live connections
type Pusher interface {
	SendToUser(message *websocket.Message) bool
}

// NotificationService stores notifications and fans them out by email and websocket
type NotificationService interface {
	Notifier
	ListNotifications(ctx context.Context, userID int64) (*dto.NotificationListResponse, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID int64) error
}

type notificationServiceImpl struct {
	store  NotificationStore
	users  UserDirectory
	mailer email.EmailService
	pusher Pusher
	logger zerolog.Logger
	now    Clock
}

// NewNotificationService creates a new NotificationService. mailer and pusher may be nil.
func NewNotificationService(
	store NotificationStore,
	users UserDirectory,
	mailer email.EmailService,
	pusher Pusher,
	logger zerolog.Logger,
	clock Clock,
) NotificationService {
	if clock == nil {
		clock = time.Now
	}
	return &notificationServiceImpl{
		store:  store,
		users:  users,
		mailer: mailer,
		pusher: pusher,
		logger: logger,
		now:    clock,
	}
}

// Notify persists the notification, then emails and pushes it. Only a
// persistence failure is returned, delivery failures are logged.
func (s *notificationServiceImpl) Notify(ctx context.Context, userID int64, issueID *int64, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("%w: notification message cannot be empty", apperrors.ErrValidationFailed)
	}

	n := &models.Notification{
		UserID:  userID,
		IssueID: issueID,
		Message: message,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	s.sendEmail(ctx, n)

	if s.pusher != nil {
		s.pusher.SendToUser(&websocket.Message{
			Type:           websocket.MessageTypeNotification,
			UserID:         n.UserID,
			NotificationID: n.ID,
			IssueID:        n.IssueID,
			Message:        n.Message,
			CreatedAt:      n.CreatedAt,
		})
	}

	s.logger.Debug().Int64("userID", userID).Int64("notificationID", n.ID).Msg("Notification dispatched")
	return nil
}

func (s *notificationServiceImpl) sendEmail(ctx context.Context, n *models.Notification) {
	if s.mailer == nil || s.users == nil {
		return
	}

	user, err := s.users.GetUserByID(ctx, n.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", n.UserID).Msg("Cannot look up notification recipient")
		return
	}

	if err := s.mailer.SendNotificationEmail(ctx, user.Email, user.FullName(), n.Message, n.IssueID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", n.UserID).Msg("Failed to email notification")
	}
}

// ListNotifications returns a user's notifications, newest first, with the unread count
func (s *notificationServiceImpl) ListNotifications(ctx context.Context, userID int64) (*dto.NotificationListResponse, error) {
	notifications, err := s.store.ListNotificationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread := 0
	for _, n := range notifications {
		if n.ReadAt == nil {
			unread++
		}
	}

	return &dto.NotificationListResponse{
		Notifications: notifications,
		Unread:        unread,
	}, nil
}

// MarkNotificationRead marks one of the user's notifications as read
func (s *notificationServiceImpl) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	return s.store.MarkAsRead(ctx, userID, notificationID, s.now())
}
