package booking

import (
	"context"

	"venuehub/internal/domain"
	"venuehub/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByHallAndStatus(ctx context.Context, hallID int64, statuses []domain.BookingStatus) ([]domain.Booking, error)
	FindOverlapping(ctx context.Context, hallID int64, rng domain.DateRange, statuses []domain.BookingStatus, excludeID int64) ([]domain.Booking, error)
	UpdateStatusIf(ctx context.Context, bookingID int64, expected domain.BookingStatus, u repository.StatusUpdate) (bool, error)
	// AcceptIfFree checks firm overlap and writes the acceptance as one serialised step.
	AcceptIfFree(ctx context.Context, b *domain.Booking, u repository.StatusUpdate) (accepted, conflict bool, err error)
	MarkBalancePaid(ctx context.Context, bookingID int64) (bool, error)
	ListByPlanner(ctx context.Context, plannerID int64, limit, offset int) ([]domain.Booking, error)
	ListByVenue(ctx context.Context, venueID int64, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
}

type VenueRepository interface {
	GetVenueByID(ctx context.Context, id int64) (*domain.Venue, error)
	GetHallByID(ctx context.Context, id int64) (*domain.Hall, error)
}

type BlockedDateRepository interface {
	ListByHall(ctx context.Context, hallID int64) ([]domain.HallBlockedDate, error)
	ExistsInRange(ctx context.Context, hallID int64, rng domain.DateRange) (bool, error)
	Create(ctx context.Context, b *domain.HallBlockedDate) error
	Delete(ctx context.Context, hallID, id int64) (bool, error)
}

// MessageStore persists the counterparty messages transitions produce.
type MessageStore interface {
	Create(ctx context.Context, m *domain.Message) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Message, error)
}

type NotificationSender interface {
	NotifyBookingEvent(ctx context.Context, recipientID, bookingID int64, event domain.NotificationType, message string) error
}
