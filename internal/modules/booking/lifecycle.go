package booking

import (
	"fmt"
	"slices"

	"venuehub/internal/domain"
)

type ActorKind int

const (
	ActorPlanner ActorKind = iota + 1
	ActorVenueOwner
	ActorAdmin
	ActorSystem
)

func (k ActorKind) String() string {
	switch k {
	case ActorPlanner:
		return "planner"
	case ActorVenueOwner:
		return "venue_owner"
	case ActorAdmin:
		return "admin"
	case ActorSystem:
		return "system"
	default:
		return fmt.Sprintf("actor(%d)", int(k))
	}
}

// Actor is whoever asks for a transition. For ActorVenueOwner the booking's venue
// must belong to UserID; System has no user.
type Actor struct {
	Kind   ActorKind
	UserID int64
}

var SystemActor = Actor{Kind: ActorSystem}

// ActorFromRole maps an authenticated role onto an actor kind. Unknown roles are refused.
func ActorFromRole(role domain.UserRole, userID int64) (Actor, error) {
	switch role {
	case domain.RolePlanner:
		return Actor{Kind: ActorPlanner, UserID: userID}, nil
	case domain.RoleVenueHolder:
		return Actor{Kind: ActorVenueOwner, UserID: userID}, nil
	case domain.RoleAdmin:
		return Actor{Kind: ActorAdmin, UserID: userID}, nil
	default:
		return Actor{}, ruleErr(ErrForbidden, "Role %q may not act on bookings", role)
	}
}

var (
	ownerTargets = []domain.BookingStatus{
		domain.BookingAccepted,
		domain.BookingCancelled,
		domain.BookingConfirmed,
		domain.BookingCompleted,
	}
	plannerTargets = []domain.BookingStatus{
		domain.BookingCancelled,
		domain.BookingCancellationRequested,
	}
)

// legalTransitions lists, per current status, the statuses it may move to.
var legalTransitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingRequested: {domain.BookingAccepted, domain.BookingCancelled},
	domain.BookingAccepted:  {domain.BookingPaid, domain.BookingCancelled, domain.BookingCancellationRequested},
	domain.BookingPaid:      {domain.BookingConfirmed, domain.BookingCancelled, domain.BookingCancellationRequested},
	domain.BookingConfirmed: {domain.BookingCompleted, domain.BookingCancelled, domain.BookingCancellationRequested},
	domain.BookingCancellationRequested: {
		domain.BookingCancelled,
		domain.BookingConfirmed,
	},
	domain.BookingCompleted: nil,
	domain.BookingCancelled: nil,
}

func isLegalTransition(from, to domain.BookingStatus) bool {
	return slices.Contains(legalTransitions[from], to)
}

// authorize applies the who-may-request-what table. venueOwnerID is the booking venue's owner.
func authorize(actor Actor, b *domain.Booking, venueOwnerID int64, target domain.BookingStatus) error {
	switch actor.Kind {
	case ActorSystem:
		return nil
	case ActorAdmin:
		if slices.Contains(ownerTargets, target) {
			return nil
		}
	case ActorVenueOwner:
		if actor.UserID != venueOwnerID {
			return ruleErr(ErrForbidden, "You do not own the venue for this booking")
		}
		if slices.Contains(ownerTargets, target) {
			return nil
		}
	case ActorPlanner:
		if actor.UserID != b.PlannerID {
			return ruleErr(ErrForbidden, "You can only change your own bookings")
		}
		if slices.Contains(plannerTargets, target) {
			return nil
		}
	default:
		return ruleErr(ErrForbidden, "Unknown actor")
	}
	return ruleErr(ErrForbidden, "You are not allowed to set status %s", target)
}

// checkPlannerGuards rejects planner moves that would skip the owner's review of a refund.
func checkPlannerGuards(b *domain.Booking, target domain.BookingStatus) error {
	switch target {
	case domain.BookingCancelled:
		switch {
		case b.Status == domain.BookingCompleted:
			return ruleErr(ErrInvalidStatusTransition, "Completed bookings cannot be cancelled.")
		case b.Status == domain.BookingPaid,
			b.Status == domain.BookingConfirmed,
			b.Status == domain.BookingCancellationRequested && b.DepositPaid:
			return ruleErr(ErrInvalidStatusTransition, "Cannot cancel directly after payment. Please request cancellation instead.")
		}
	case domain.BookingCancellationRequested:
		switch b.Status {
		case domain.BookingAccepted, domain.BookingPaid, domain.BookingConfirmed:
		default:
			return ruleErr(ErrInvalidStatusTransition, "Cancellation can only be requested for accepted, paid or confirmed bookings.")
		}
	}
	return nil
}

// validateTransition runs every check after the booking has been loaded, in order:
// known status, authority, planner guards, legal transition.
func validateTransition(actor Actor, b *domain.Booking, venueOwnerID int64, target domain.BookingStatus) error {
	if !target.IsValid() {
		return ruleErr(ErrInvalidStatus, "Invalid status")
	}
	if err := authorize(actor, b, venueOwnerID, target); err != nil {
		return err
	}
	if actor.Kind == ActorPlanner {
		if err := checkPlannerGuards(b, target); err != nil {
			return err
		}
	}
	if !isLegalTransition(b.Status, target) {
		return ruleErr(ErrInvalidStatusTransition, "Cannot change booking status from %s to %s", b.Status, target)
	}
	return nil
}
