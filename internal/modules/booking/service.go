package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venuehub/internal/domain"
	"venuehub/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxBookingDays caps a single request's span.
const maxBookingDays = 31

type Config struct {
	ServiceFeePercent int
	PaymentWindow     time.Duration
}

type Service struct {
	bookings BookingRepository
	venues   VenueRepository
	blocked  BlockedDateRepository
	messages MessageStore
	notifs   NotificationSender
	log      *logrus.Logger

	feePercent    int
	paymentWindow time.Duration
	now           func() time.Time
}

func NewService(
	bookings BookingRepository,
	venues VenueRepository,
	blocked BlockedDateRepository,
	messages MessageStore,
	notifs NotificationSender,
	log *logrus.Logger,
	cfg Config,
) *Service {
	if cfg.PaymentWindow <= 0 {
		cfg.PaymentWindow = 24 * time.Hour
	}
	return &Service{
		bookings:      bookings,
		venues:        venues,
		blocked:       blocked,
		messages:      messages,
		notifs:        notifs,
		log:           log,
		feePercent:    cfg.ServiceFeePercent,
		paymentWindow: cfg.PaymentWindow,
		now:           time.Now,
	}
}

// WithClock swaps the time source; tests use it to pin "now".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) PaymentWindow() time.Duration { return s.paymentWindow }

type CreateBookingInput struct {
	PlannerID int64
	HallID    int64
	StartDate domain.Date
	EndDate   *domain.Date
}

// CreateBooking prices the request from the hall and stores it as requested.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	if in.StartDate.IsZero() {
		return nil, ruleErr(ErrValidation, "start_date is required")
	}
	rng := domain.NewDateRange(in.StartDate, in.EndDate)
	if rng.End.Before(rng.Start) {
		return nil, ruleErr(ErrValidation, "end_date must not be before start_date")
	}
	days := rng.Start.DaysThrough(rng.End)
	if days > maxBookingDays {
		return nil, ruleErr(ErrValidation, "A booking may cover at most %d days", maxBookingDays)
	}

	hall, err := s.venues.GetHallByID(ctx, in.HallID)
	if err != nil {
		return nil, notFound(err, "Hall not found")
	}

	if err := s.IsBookable(ctx, hall.ID, rng, domain.DateOf(s.now())); err != nil {
		return nil, err
	}

	quote := QuoteFor(*hall, days, s.feePercent)
	b := &domain.Booking{
		VenueID:       hall.VenueID,
		HallID:        hall.ID,
		PlannerID:     in.PlannerID,
		StartDate:     rng.Start,
		TotalAmount:   quote.Total,
		DepositAmount: quote.Deposit,
		BalanceAmount: quote.Balance,
		PaymentStatus: domain.PaymentUnpaid,
		Status:        domain.BookingRequested,
	}
	if !rng.End.Equal(rng.Start) {
		end := rng.End
		b.EndDate = &end
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"hall_id":    b.HallID,
		"planner_id": b.PlannerID,
		"dates":      describeRange(rng),
	}).Info("booking requested")

	if venue, err := s.venues.GetVenueByID(ctx, b.VenueID); err == nil {
		s.dispatch(ctx, b.ID, b.PlannerID, []effect{{
			RecipientID: venue.OwnerUserID,
			Event:       domain.NotifBookingRequested,
			Text:        fmt.Sprintf("New booking request #%d for %s on %s.", b.ID, hall.Name, describeRange(rng)),
		}})
	} else {
		s.log.WithError(err).WithField("booking_id", b.ID).Warn("venue lookup for new booking notice failed")
	}

	return b, nil
}

// GetBooking returns the booking if the actor is its planner, the venue owner, an admin or the system.
func (s *Service) GetBooking(ctx context.Context, actor Actor, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Booking not found")
	}
	if err := s.canView(ctx, actor, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) canView(ctx context.Context, actor Actor, b *domain.Booking) error {
	switch actor.Kind {
	case ActorSystem, ActorAdmin:
		return nil
	case ActorPlanner:
		if b.PlannerID == actor.UserID {
			return nil
		}
	case ActorVenueOwner:
		ownerID, err := s.venueOwner(ctx, b.VenueID)
		if err != nil {
			return err
		}
		if ownerID == actor.UserID {
			return nil
		}
	}
	return ruleErr(ErrForbidden, "You do not have access to this booking")
}

func (s *Service) ListPlannerBookings(ctx context.Context, actor Actor, limit, offset int) ([]domain.Booking, error) {
	if actor.Kind != ActorPlanner {
		return nil, ruleErr(ErrForbidden, "Only planners have personal bookings")
	}
	return s.bookings.ListByPlanner(ctx, actor.UserID, limit, offset)
}

// ListVenueBookings lists a venue's bookings, optionally filtered by status, for its owner or an admin.
func (s *Service) ListVenueBookings(ctx context.Context, actor Actor, venueID int64, status string, limit, offset int) ([]domain.Booking, error) {
	venue, err := s.venues.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, notFound(err, "Venue not found")
	}
	if err := authorizeVenue(actor, venue); err != nil {
		return nil, err
	}
	st := domain.BookingStatus(status)
	if st != "" && !st.IsValid() {
		return nil, ruleErr(ErrInvalidStatus, "Invalid status")
	}
	return s.bookings.ListByVenue(ctx, venueID, st, limit, offset)
}

func (s *Service) ListMessages(ctx context.Context, actor Actor, bookingID int64) ([]domain.Message, error) {
	if _, err := s.GetBooking(ctx, actor, bookingID); err != nil {
		return nil, err
	}
	return s.messages.ListByBooking(ctx, bookingID)
}

type TransitionInput struct {
	BookingID          int64
	Actor              Actor
	TargetStatus       string
	CancellationReason string
}

type TransitionResult struct {
	Booking *domain.Booking
	// AutoCancelledIDs are requested bookings the conflict resolver cancelled on acceptance.
	AutoCancelledIDs []int64
}

// TransitionStatus validates and applies one status change, then runs its side effects.
func (s *Service) TransitionStatus(ctx context.Context, in TransitionInput) (*TransitionResult, error) {
	b, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, notFound(err, "Booking not found")
	}

	ownerID, err := s.venueOwner(ctx, b.VenueID)
	if err != nil {
		return nil, err
	}

	target := domain.BookingStatus(in.TargetStatus)
	if err := validateTransition(in.Actor, b, ownerID, target); err != nil {
		return nil, err
	}

	return s.apply(ctx, b, in.Actor, ownerID, target, in.CancellationReason, repository.StatusUpdate{})
}

// ExpireBooking cancels an accepted booking whose deposit never arrived. It is the
// system transition the expiry checker uses, so it skips the actor table but not the
// conditional write.
func (s *Service) ExpireBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "Booking not found")
	}
	if b.Status != domain.BookingAccepted || b.DepositPaid {
		return nil, ruleErr(ErrConcurrentUpdate, "Booking #%d is no longer awaiting payment", b.ID)
	}

	ownerID, err := s.venueOwner(ctx, b.VenueID)
	if err != nil {
		return nil, err
	}

	res, err := s.apply(ctx, b, SystemActor, ownerID, domain.BookingCancelled, ExpiryCancellationReason, repository.StatusUpdate{})
	if err != nil {
		return nil, err
	}
	return res.Booking, nil
}

type PaymentKind string

const (
	PaymentDeposit PaymentKind = "deposit"
	PaymentBalance PaymentKind = "balance"
)

// RecordPayment applies a confirmed payment reported by the payment provider.
// A deposit moves an accepted booking to paid; a balance only flips payment flags.
func (s *Service) RecordPayment(ctx context.Context, bookingID int64, kind PaymentKind) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "Booking not found")
	}

	switch kind {
	case PaymentDeposit:
		if b.Status != domain.BookingAccepted || b.DepositPaid {
			return nil, ruleErr(ErrInvalidStatusTransition, "Deposit can only be recorded for accepted, unpaid bookings")
		}
		ownerID, err := s.venueOwner(ctx, b.VenueID)
		if err != nil {
			return nil, err
		}

		fullyPaid := b.BalanceAmount == 0
		paymentStatus := domain.PaymentDepositPaid
		if fullyPaid {
			paymentStatus = domain.PaymentPaid
		}
		depositPaid := true
		extra := repository.StatusUpdate{
			DepositPaid:   &depositPaid,
			BalancePaid:   &fullyPaid,
			PaymentStatus: &paymentStatus,
		}
		res, err := s.apply(ctx, b, SystemActor, ownerID, domain.BookingPaid, "", extra)
		if err != nil {
			return nil, err
		}
		return res.Booking, nil

	case PaymentBalance:
		switch b.Status {
		case domain.BookingPaid, domain.BookingConfirmed, domain.BookingCancellationRequested, domain.BookingCompleted:
		default:
			return nil, ruleErr(ErrInvalidStatusTransition, "Balance cannot be recorded for a %s booking", b.Status)
		}
		ok, err := s.bookings.MarkBalancePaid(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ruleErr(ErrInvalidStatusTransition, "Balance for booking #%d is already paid or the deposit is outstanding", b.ID)
		}
		s.log.WithField("booking_id", b.ID).Info("booking balance paid")
		return s.reload(ctx, b)

	default:
		return nil, ruleErr(ErrValidation, "Unknown payment kind %q", kind)
	}
}

// apply performs the single conditional write for a validated transition and, once it
// has committed, dispatches side effects. extra carries payment columns for paid.
func (s *Service) apply(
	ctx context.Context,
	b *domain.Booking,
	actor Actor,
	ownerID int64,
	target domain.BookingStatus,
	reason string,
	extra repository.StatusUpdate,
) (*TransitionResult, error) {
	now := s.now().UTC()

	update := extra
	update.Status = target
	if target == domain.BookingAccepted {
		update.AcceptedAt = &now
	}
	if reason != "" && (target == domain.BookingCancelled || target == domain.BookingCancellationRequested) {
		update.CancellationReason = &reason
	}

	from := b.Status
	var ok bool
	var err error
	if target == domain.BookingAccepted {
		var conflict bool
		ok, conflict, err = s.bookings.AcceptIfFree(ctx, b, update)
		if err == nil && conflict {
			return nil, ruleErr(ErrNotAvailable, "The hall already has an accepted booking on these dates")
		}
	} else {
		ok, err = s.bookings.UpdateStatusIf(ctx, b.ID, from, update)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ruleErr(ErrConcurrentUpdate, "Booking #%d was changed by someone else, please reload", b.ID)
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"from":       from,
		"to":         target,
		"actor":      actor.Kind.String(),
		"actor_id":   actor.UserID,
	}).Info("booking status changed")

	updated, err := s.reload(ctx, b)
	if err != nil {
		// the write committed; fall back to what we know was written
		s.log.WithError(err).WithField("booking_id", b.ID).Warn("reload after transition failed")
		updated = applyLocally(b, update)
	}

	result := &TransitionResult{Booking: updated}
	s.dispatch(ctx, updated.ID, actor.UserID, transitionEffects(updated, from, actor, ownerID, s.paymentWindow))

	if target == domain.BookingAccepted {
		result.AutoCancelledIDs = s.ResolveConflicts(ctx, updated)
	}
	return result, nil
}

func (s *Service) reload(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, b.ID)
}

func applyLocally(b *domain.Booking, u repository.StatusUpdate) *domain.Booking {
	out := *b
	out.Status = u.Status
	if u.AcceptedAt != nil {
		out.AcceptedAt = u.AcceptedAt
	}
	if u.CancellationReason != nil {
		out.CancellationReason = *u.CancellationReason
	}
	if u.DepositPaid != nil {
		out.DepositPaid = *u.DepositPaid
	}
	if u.BalancePaid != nil {
		out.BalancePaid = *u.BalancePaid
	}
	if u.PaymentStatus != nil {
		out.PaymentStatus = *u.PaymentStatus
	}
	return &out
}

func (s *Service) venueOwner(ctx context.Context, venueID int64) (int64, error) {
	venue, err := s.venues.GetVenueByID(ctx, venueID)
	if err != nil {
		return 0, notFound(err, "Venue not found")
	}
	return venue.OwnerUserID, nil
}

func authorizeVenue(actor Actor, venue *domain.Venue) error {
	switch actor.Kind {
	case ActorAdmin, ActorSystem:
		return nil
	case ActorVenueOwner:
		if venue.OwnerUserID == actor.UserID {
			return nil
		}
		return ruleErr(ErrForbidden, "You do not own this venue")
	}
	return ruleErr(ErrForbidden, "Only the venue owner can do this")
}

// notFound turns gorm's not-found into ErrNotFound with a message and passes other errors through.
func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ruleErr(ErrNotFound, "%s", message)
	}
	return err
}
