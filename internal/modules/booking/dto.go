package booking

import (
	"time"

	"venuehub/internal/domain"

	"github.com/jinzhu/copier"
)

type CreateBookingRequest struct {
	HallID    int64  `json:"hall_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateStatusRequest leaves status unchecked here; the service reports unknown values
// only after confirming the booking exists.
type UpdateStatusRequest struct {
	Status             string `json:"status" validate:"required"`
	CancellationReason string `json:"cancellation_reason,omitempty" validate:"max=1000"`
}

type BlockDateRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Reason string `json:"reason,omitempty" validate:"max=255"`
}

type RecordPaymentRequest struct {
	BookingID int64  `json:"booking_id" validate:"required,gt=0"`
	Kind      string `json:"kind" validate:"required,oneof=deposit balance"`
}

type BookingResponse struct {
	ID        int64        `json:"id"`
	VenueID   int64        `json:"venue_id"`
	HallID    int64        `json:"hall_id"`
	PlannerID int64        `json:"planner_id"`
	StartDate domain.Date  `json:"start_date" copier:"-"`
	EndDate   *domain.Date `json:"end_date,omitempty" copier:"-"`

	TotalAmount   int64                `json:"total_amount"`
	DepositAmount int64                `json:"deposit_amount"`
	BalanceAmount int64                `json:"balance_amount"`
	DepositPaid   bool                 `json:"deposit_paid"`
	BalancePaid   bool                 `json:"balance_paid"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`

	Status             domain.BookingStatus `json:"status"`
	CancellationReason string               `json:"cancellation_reason,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty" copier:"-"`
	// PaymentDeadline is set while an accepted booking waits for its deposit.
	PaymentDeadline *time.Time `json:"payment_deadline,omitempty"`
}

type TransitionResponse struct {
	Booking          BookingResponse `json:"booking"`
	AutoCancelledIDs []int64         `json:"auto_cancelled_ids,omitempty"`
}

// toBookingResponse copies the flat fields with copier; dates and pointers are set by hand.
func toBookingResponse(b *domain.Booking, paymentWindow time.Duration) BookingResponse {
	var out BookingResponse
	_ = copier.Copy(&out, b)
	out.StartDate = b.StartDate
	out.EndDate = b.EndDate
	out.AcceptedAt = b.AcceptedAt
	if b.Status == domain.BookingAccepted && !b.DepositPaid {
		if deadline, ok := b.PaymentDeadline(paymentWindow); ok {
			out.PaymentDeadline = &deadline
		}
	}
	return out
}

func toBookingResponses(list []domain.Booking, paymentWindow time.Duration) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for i := range list {
		out = append(out, toBookingResponse(&list[i], paymentWindow))
	}
	return out
}
