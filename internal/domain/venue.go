package domain

import "time"

type Venue struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	OwnerUserID int64     `json:"owner_user_id" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex"`
	City        string    `json:"city"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Halls []Hall `json:"halls,omitempty" gorm:"foreignKey:VenueID"`
}

func (Venue) TableName() string { return "venues" }

// Hall is a bookable space inside a venue. Price is per day.
type Hall struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	VenueID           int64     `json:"venue_id" gorm:"index;not null"`
	Name              string    `json:"name" gorm:"not null"`
	Capacity          int       `json:"capacity"`
	Price             int64     `json:"price"`
	DepositPercentage int       `json:"deposit_percentage" gorm:"default:100"`
	BalanceDueDays    int       `json:"balance_due_days"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Hall) TableName() string { return "halls" }

// RequiresFullPayment is true when the whole amount is due at acceptance.
func (h Hall) RequiresFullPayment() bool {
	return h.DepositPercentage >= 100
}

// HallBlockedDate marks a day the owner took off the market outside the booking flow.
type HallBlockedDate struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	HallID    int64     `json:"hall_id" gorm:"uniqueIndex:idx_hall_blocked_dates_hall_date;not null"`
	Date      Date      `json:"date" gorm:"uniqueIndex:idx_hall_blocked_dates_hall_date;not null"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (HallBlockedDate) TableName() string { return "hall_blocked_dates" }
