package domain

import "time"

type NotificationType string

const (
	NotifBookingRequested      NotificationType = "booking_requested"
	NotifBookingAccepted       NotificationType = "booking_accepted"
	NotifBookingAutoCancelled  NotificationType = "booking_auto_cancelled"
	NotifPaymentReceived       NotificationType = "payment_received"
	NotifPaymentSuccessful     NotificationType = "payment_successful"
	NotifBookingConfirmed      NotificationType = "booking_confirmed"
	NotifBookingCancelled      NotificationType = "booking_cancelled"
	NotifCancellationRequested NotificationType = "cancellation_requested"
	NotifBookingCompleted      NotificationType = "booking_completed"
	NotifPaymentDeadlineSoon   NotificationType = "payment_deadline_soon"
	NotifBookingExpired        NotificationType = "booking_expired"
)

var notificationTitles = map[NotificationType]string{
	NotifBookingRequested:      "New booking request",
	NotifBookingAccepted:       "Booking approved",
	NotifBookingAutoCancelled:  "Booking request declined",
	NotifPaymentReceived:       "Payment received",
	NotifPaymentSuccessful:     "Payment successful",
	NotifBookingConfirmed:      "Booking confirmed",
	NotifBookingCancelled:      "Booking cancelled",
	NotifCancellationRequested: "Cancellation requested",
	NotifBookingCompleted:      "Booking completed",
	NotifPaymentDeadlineSoon:   "Payment deadline approaching",
	NotifBookingExpired:        "Booking expired",
}

// Title falls back to the raw type for values added without a title.
func (t NotificationType) Title() string {
	if title, ok := notificationTitles[t]; ok {
		return title
	}
	return string(t)
}

type Notification struct {
	ID        int64            `gorm:"primaryKey" json:"id"`
	UserID    int64            `gorm:"not null;index:idx_notifications_user_unread" json:"user_id"`
	Type      NotificationType `gorm:"size:64;not null" json:"type"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Message   string           `gorm:"type:text" json:"message,omitempty"`
	BookingID *int64           `gorm:"index" json:"booking_id,omitempty"`
	IsRead    bool             `gorm:"not null;default:false;index:idx_notifications_user_unread" json:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
