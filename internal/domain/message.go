package domain

import "time"

// Message is a booking-scoped note to the counterparty. SenderID 0 means the system.
type Message struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	BookingID   int64     `json:"booking_id" gorm:"index;not null"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id" gorm:"index;not null"`
	Body        string    `json:"body" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Message) TableName() string { return "messages" }
