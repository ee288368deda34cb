package notification

import (
	"context"
	"time"

	"venuehub/internal/domain"

	"github.com/sirupsen/logrus"
)

type Service struct {
	repo *Repository
	hub  *Hub
	log  *logrus.Logger
	now  func() time.Time
}

func NewService(repo *Repository, hub *Hub, log *logrus.Logger) *Service {
	return &Service{repo: repo, hub: hub, log: log, now: time.Now}
}

// NotifyBookingEvent stores an in-app notification and pushes it to the recipient if online.
func (s *Service) NotifyBookingEvent(ctx context.Context, recipientID, bookingID int64, event domain.NotificationType, message string) error {
	n := &domain.Notification{
		UserID:    recipientID,
		Type:      event,
		Title:     event.Title(),
		Message:   message,
		CreatedAt: s.now(),
	}
	if bookingID != 0 {
		n.BookingID = &bookingID
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.hub != nil {
		delivered := s.hub.SendToUser(recipientID, &Event{Type: EventNotification, Payload: n})
		s.log.WithFields(logrus.Fields{
			"user_id":    recipientID,
			"booking_id": bookingID,
			"type":       event,
			"pushed":     delivered,
		}).Debug("notification stored")
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, int64, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	list, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("count unread notifications")
		unread = 0
	}
	return list, unread, total, nil
}

func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkAsRead(ctx, id, userID, s.now())
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID, s.now())
}
