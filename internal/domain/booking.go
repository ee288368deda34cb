package domain

import "time"

type BookingStatus string

const (
	BookingRequested             BookingStatus = "requested"
	BookingAccepted              BookingStatus = "accepted"
	BookingPaid                  BookingStatus = "paid"
	BookingConfirmed             BookingStatus = "confirmed"
	BookingCompleted             BookingStatus = "completed"
	BookingCancelled             BookingStatus = "cancelled"
	BookingCancellationRequested BookingStatus = "cancellation_requested"
)

// AllBookingStatuses lists every status a booking can be in.
var AllBookingStatuses = []BookingStatus{
	BookingRequested,
	BookingAccepted,
	BookingPaid,
	BookingConfirmed,
	BookingCompleted,
	BookingCancelled,
	BookingCancellationRequested,
}

// ActiveBookingStatuses hold their dates: everything that is neither cancelled nor completed.
var ActiveBookingStatuses = []BookingStatus{
	BookingRequested,
	BookingAccepted,
	BookingPaid,
	BookingConfirmed,
	BookingCancellationRequested,
}

// FirmBookingStatuses are active bookings the owner has already accepted.
var FirmBookingStatuses = []BookingStatus{
	BookingAccepted,
	BookingPaid,
	BookingConfirmed,
	BookingCancellationRequested,
}

func (s BookingStatus) IsValid() bool {
	for _, v := range AllBookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "unpaid"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentPaid        PaymentStatus = "paid"
	PaymentRefunded    PaymentStatus = "refunded"
)

type Booking struct {
	ID        int64 `json:"id"`
	VenueID   int64 `json:"venue_id"`
	HallID    int64 `json:"hall_id"`
	PlannerID int64 `json:"planner_id"`

	StartDate  Date       `json:"start_date"`
	EndDate    *Date      `json:"end_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`

	TotalAmount   int64 `json:"total_amount"`
	DepositAmount int64 `json:"deposit_amount"`
	BalanceAmount int64 `json:"balance_amount"`

	DepositPaid   bool          `json:"deposit_paid"`
	BalancePaid   bool          `json:"balance_paid"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	Status             BookingStatus `json:"status"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`

	// Set once the unpaid-acceptance warning has gone out.
	ExpiryNotificationSent bool `json:"expiry_notification_sent"`
}

// Range returns the inclusive day span the booking covers.
func (b Booking) Range() DateRange {
	return NewDateRange(b.StartDate, b.EndDate)
}

// PaymentDeadline is AcceptedAt + window; ok is false if the booking was never accepted.
func (b Booking) PaymentDeadline(window time.Duration) (deadline time.Time, ok bool) {
	if b.AcceptedAt == nil {
		return time.Time{}, false
	}
	return b.AcceptedAt.Add(window), true
}
