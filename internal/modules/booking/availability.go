package booking

import (
	"context"
	"errors"
	"sort"

	"venuehub/internal/domain"
	"venuehub/internal/repository"

	"github.com/sirupsen/logrus"
)

// Availability keeps booked and owner-blocked dates apart so callers can tell them apart.
type Availability struct {
	HallID       int64                    `json:"hall_id"`
	BookedDates  []domain.Date            `json:"booked_dates"`
	BlockedDates []domain.HallBlockedDate `json:"blocked_dates"`
}

// GetHallBookedDates is every day covered by an active booking on the hall, sorted and
// de-duplicated. It is computed from the bookings table on every call.
func (s *Service) GetHallBookedDates(ctx context.Context, hallID int64) ([]domain.Date, error) {
	active, err := s.bookings.ListByHallAndStatus(ctx, hallID, domain.ActiveBookingStatuses)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]domain.Date)
	for _, b := range active {
		for _, d := range b.Range().Days() {
			seen[d.String()] = d
		}
	}

	out := make([]domain.Date, 0, len(seen))
	for _, d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (s *Service) GetHallAvailability(ctx context.Context, hallID int64) (*Availability, error) {
	if _, err := s.venues.GetHallByID(ctx, hallID); err != nil {
		return nil, notFound(err, "Hall not found")
	}

	booked, err := s.GetHallBookedDates(ctx, hallID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.blocked.ListByHall(ctx, hallID)
	if err != nil {
		return nil, err
	}
	if blocked == nil {
		blocked = []domain.HallBlockedDate{}
	}

	return &Availability{HallID: hallID, BookedDates: booked, BlockedDates: blocked}, nil
}

// IsBookable reports why rng cannot be requested on the hall, or nil if it can.
// Only firm bookings hold a date against new requests; competing requests may coexist
// until the owner accepts one of them.
func (s *Service) IsBookable(ctx context.Context, hallID int64, rng domain.DateRange, today domain.Date) error {
	if rng.Start.Before(today) {
		return ruleErr(ErrValidation, "Cannot book dates in the past")
	}

	blocked, err := s.blocked.ExistsInRange(ctx, hallID, rng)
	if err != nil {
		return err
	}
	if blocked {
		return ruleErr(ErrNotAvailable, "The hall is not available on one of the selected dates")
	}

	firm, err := s.bookings.FindOverlapping(ctx, hallID, rng, domain.FirmBookingStatuses, 0)
	if err != nil {
		return err
	}
	if len(firm) > 0 {
		return ruleErr(ErrNotAvailable, "The hall is already booked for the selected dates")
	}
	return nil
}

// BlockDate takes a day off the market for the hall. Owner of the venue or admin only.
func (s *Service) BlockDate(ctx context.Context, actor Actor, hallID int64, date domain.Date, reason string) (*domain.HallBlockedDate, error) {
	hall, err := s.authorizeHall(ctx, actor, hallID)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, ruleErr(ErrValidation, "date is required")
	}
	if date.Before(domain.DateOf(s.now())) {
		return nil, ruleErr(ErrValidation, "Cannot block a date in the past")
	}

	block := &domain.HallBlockedDate{
		HallID:    hall.ID,
		Date:      date,
		Reason:    reason,
		CreatedAt: s.now(),
	}
	if err := s.blocked.Create(ctx, block); err != nil {
		if errors.Is(err, repository.ErrDuplicateBlockedDate) {
			return nil, ruleErr(ErrAlreadyBlocked, "%s is already blocked for this hall", date)
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"hall_id":  hall.ID,
		"date":     date.String(),
		"actor_id": actor.UserID,
	}).Info("hall date blocked")
	return block, nil
}

func (s *Service) UnblockDate(ctx context.Context, actor Actor, hallID, blockID int64) error {
	if _, err := s.authorizeHall(ctx, actor, hallID); err != nil {
		return err
	}

	ok, err := s.blocked.Delete(ctx, hallID, blockID)
	if err != nil {
		return err
	}
	if !ok {
		return ruleErr(ErrNotFound, "Blocked date not found")
	}
	return nil
}

func (s *Service) authorizeHall(ctx context.Context, actor Actor, hallID int64) (*domain.Hall, error) {
	hall, err := s.venues.GetHallByID(ctx, hallID)
	if err != nil {
		return nil, notFound(err, "Hall not found")
	}
	venue, err := s.venues.GetVenueByID(ctx, hall.VenueID)
	if err != nil {
		return nil, notFound(err, "Venue not found")
	}
	if err := authorizeVenue(actor, venue); err != nil {
		return nil, err
	}
	return hall, nil
}
