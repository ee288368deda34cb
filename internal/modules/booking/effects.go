package booking

import (
	"context"
	"fmt"
	"time"

	"venuehub/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	ConflictCancellationReason = "Another booking for this date has been accepted by the venue owner."
	ExpiryCancellationReason   = "Automatically expired: payment not received before deadline"
)

// effect is one message plus notification to send once a transition has committed.
type effect struct {
	RecipientID int64
	Event       domain.NotificationType
	Text        string
}

// transitionEffects decides who hears about a committed transition and what they are told.
// b is the booking after the write; from is the status it left.
func transitionEffects(b *domain.Booking, from domain.BookingStatus, actor Actor, ownerID int64, paymentWindow time.Duration) []effect {
	planner := b.PlannerID
	switch b.Status {
	case domain.BookingAccepted:
		return []effect{{
			RecipientID: planner,
			Event:       domain.NotifBookingAccepted,
			Text: fmt.Sprintf("Your booking #%d for %s has been approved. Please pay within %s to secure the date.",
				b.ID, describeRange(b.Range()), describeWindow(paymentWindow)),
		}}

	case domain.BookingPaid:
		return []effect{
			{
				RecipientID: ownerID,
				Event:       domain.NotifPaymentReceived,
				Text:        fmt.Sprintf("Payment received for booking #%d. Please confirm the booking.", b.ID),
			},
			{
				RecipientID: planner,
				Event:       domain.NotifPaymentSuccessful,
				Text:        fmt.Sprintf("Payment for booking #%d was successful. Awaiting confirmation from the venue.", b.ID),
			},
		}

	case domain.BookingConfirmed:
		text := fmt.Sprintf("Your booking #%d has been confirmed.", b.ID)
		if from == domain.BookingCancellationRequested {
			text = fmt.Sprintf("Your cancellation request for booking #%d was declined. The booking remains confirmed.", b.ID)
		}
		return []effect{{RecipientID: planner, Event: domain.NotifBookingConfirmed, Text: text}}

	case domain.BookingCancelled:
		text := fmt.Sprintf("Booking #%d has been cancelled.", b.ID)
		if b.CancellationReason != "" {
			text += " Reason: " + b.CancellationReason
		}
		var recipients []int64
		switch actor.Kind {
		case ActorPlanner:
			recipients = []int64{ownerID}
		case ActorVenueOwner, ActorAdmin:
			recipients = []int64{planner}
		default:
			recipients = []int64{planner, ownerID}
		}
		event := domain.NotifBookingCancelled
		if b.CancellationReason == ExpiryCancellationReason {
			event = domain.NotifBookingExpired
		}
		out := make([]effect, 0, len(recipients))
		for _, r := range recipients {
			out = append(out, effect{RecipientID: r, Event: event, Text: text})
		}
		return out

	case domain.BookingCancellationRequested:
		text := fmt.Sprintf("The planner has requested cancellation of booking #%d.", b.ID)
		if b.CancellationReason != "" {
			text += " Reason: " + b.CancellationReason
		}
		text += " Please approve or decline the request."
		return []effect{{RecipientID: ownerID, Event: domain.NotifCancellationRequested, Text: text}}

	case domain.BookingCompleted:
		return []effect{{
			RecipientID: planner,
			Event:       domain.NotifBookingCompleted,
			Text:        fmt.Sprintf("Booking #%d is completed. You can now leave a review for the venue.", b.ID),
		}}
	}
	return nil
}

// dispatch delivers effects after commit. Failures are logged and never returned.
func (s *Service) dispatch(ctx context.Context, bookingID, senderID int64, effects []effect) {
	ctx = context.WithoutCancel(ctx)
	for _, e := range effects {
		if e.RecipientID == 0 {
			continue
		}
		entry := s.log.WithFields(logrus.Fields{
			"booking_id":   bookingID,
			"recipient_id": e.RecipientID,
			"event":        e.Event,
		})

		if s.messages != nil {
			msg := &domain.Message{
				BookingID:   bookingID,
				SenderID:    senderID,
				RecipientID: e.RecipientID,
				Body:        e.Text,
				CreatedAt:   s.now(),
			}
			if err := s.messages.Create(ctx, msg); err != nil {
				entry.WithError(err).Warn("booking message not stored")
			}
		}

		if s.notifs != nil {
			if err := s.notifs.NotifyBookingEvent(ctx, e.RecipientID, bookingID, e.Event, e.Text); err != nil {
				entry.WithError(err).Warn("booking notification not sent")
			}
		}
	}
}

func describeRange(r domain.DateRange) string {
	if r.Start.Equal(r.End) {
		return r.Start.String()
	}
	return r.Start.String() + " to " + r.End.String()
}

func describeWindow(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	}
	return d.String()
}
