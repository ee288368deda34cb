package booking

import (
	"context"
	"fmt"

	"venuehub/internal/domain"
	"venuehub/internal/repository"

	"github.com/sirupsen/logrus"
)

// FindConflicting returns the other still-requested bookings on the hall that share
// at least one day with rng.
func (s *Service) FindConflicting(ctx context.Context, hallID int64, rng domain.DateRange, excludeID int64) ([]domain.Booking, error) {
	return s.bookings.FindOverlapping(ctx, hallID, rng, []domain.BookingStatus{domain.BookingRequested}, excludeID)
}

// ResolveConflicts cancels every requested booking competing with the accepted one and
// tells their planners. It is best effort: failures are logged and the acceptance stands.
func (s *Service) ResolveConflicts(ctx context.Context, accepted *domain.Booking) []int64 {
	ctx = context.WithoutCancel(ctx)
	log := s.log.WithFields(logrus.Fields{
		"accepted_booking_id": accepted.ID,
		"hall_id":             accepted.HallID,
	})

	conflicts, err := s.FindConflicting(ctx, accepted.HallID, accepted.Range(), accepted.ID)
	if err != nil {
		log.WithError(err).Error("conflict lookup failed")
		return nil
	}

	reason := ConflictCancellationReason
	var cancelled []int64
	for _, c := range conflicts {
		ok, err := s.bookings.UpdateStatusIf(ctx, c.ID, domain.BookingRequested, repository.StatusUpdate{
			Status:             domain.BookingCancelled,
			CancellationReason: &reason,
		})
		if err != nil {
			log.WithError(err).WithField("booking_id", c.ID).Error("auto-cancel of conflicting booking failed")
			continue
		}
		if !ok {
			// already moved on (withdrawn by its planner, for instance)
			continue
		}

		cancelled = append(cancelled, c.ID)
		s.dispatch(ctx, c.ID, 0, []effect{{
			RecipientID: c.PlannerID,
			Event:       domain.NotifBookingAutoCancelled,
			Text:        fmt.Sprintf("Your booking request #%d was cancelled. %s", c.ID, reason),
		}})
	}

	if len(cancelled) > 0 {
		log.WithField("cancelled", cancelled).Info("conflicting requests cancelled")
	}
	return cancelled
}
