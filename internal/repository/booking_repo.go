package repository

import (
	"context"
	"time"

	"venuehub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// BookingModel is the bookings table row.
type BookingModel struct {
	ID                     int64        `gorm:"column:id;primaryKey"`
	VenueID                int64        `gorm:"column:venue_id;index;not null"`
	HallID                 int64        `gorm:"column:hall_id;index:idx_bookings_hall_status;not null"`
	PlannerID              int64        `gorm:"column:planner_id;index;not null"`
	StartDate              domain.Date  `gorm:"column:start_date;not null"`
	EndDate                *domain.Date `gorm:"column:end_date"`
	TotalAmount            int64        `gorm:"column:total_amount"`
	DepositAmount          int64        `gorm:"column:deposit_amount"`
	BalanceAmount          int64        `gorm:"column:balance_amount"`
	DepositPaid            bool         `gorm:"column:deposit_paid;default:false"`
	BalancePaid            bool         `gorm:"column:balance_paid;default:false"`
	PaymentStatus          string       `gorm:"column:payment_status"`
	Status                 string       `gorm:"column:status;index:idx_bookings_hall_status;not null"`
	CancellationReason     *string      `gorm:"column:cancellation_reason;type:text"`
	ExpiryNotificationSent bool         `gorm:"column:expiry_notification_sent;default:false"`
	AcceptedAt             *time.Time   `gorm:"column:accepted_at"`
	CreatedAt              time.Time    `gorm:"column:created_at"`
	UpdatedAt              time.Time    `gorm:"column:updated_at"`
}

func (BookingModel) TableName() string { return "bookings" }

func toDomainBooking(m BookingModel) *domain.Booking {
	var reason string
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	return &domain.Booking{
		ID:                     m.ID,
		VenueID:                m.VenueID,
		HallID:                 m.HallID,
		PlannerID:              m.PlannerID,
		StartDate:              m.StartDate,
		EndDate:                m.EndDate,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
		AcceptedAt:             m.AcceptedAt,
		TotalAmount:            m.TotalAmount,
		DepositAmount:          m.DepositAmount,
		BalanceAmount:          m.BalanceAmount,
		DepositPaid:            m.DepositPaid,
		BalancePaid:            m.BalancePaid,
		PaymentStatus:          domain.PaymentStatus(m.PaymentStatus),
		Status:                 domain.BookingStatus(m.Status),
		CancellationReason:     reason,
		ExpiryNotificationSent: m.ExpiryNotificationSent,
	}
}

func toBookingModel(b *domain.Booking) BookingModel {
	var reason *string
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}
	var end *domain.Date
	if b.EndDate != nil && !b.EndDate.IsZero() {
		e := *b.EndDate
		end = &e
	}

	return BookingModel{
		ID:                     b.ID,
		VenueID:                b.VenueID,
		HallID:                 b.HallID,
		PlannerID:              b.PlannerID,
		StartDate:              b.StartDate,
		EndDate:                end,
		TotalAmount:            b.TotalAmount,
		DepositAmount:          b.DepositAmount,
		BalanceAmount:          b.BalanceAmount,
		DepositPaid:            b.DepositPaid,
		BalancePaid:            b.BalancePaid,
		PaymentStatus:          string(b.PaymentStatus),
		Status:                 string(b.Status),
		CancellationReason:     reason,
		ExpiryNotificationSent: b.ExpiryNotificationSent,
		AcceptedAt:             b.AcceptedAt,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}
}

func toDomainBookings(rows []BookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m BookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// ListByHallAndStatus returns every booking on the hall whose status is in statuses.
func (r *BookingRepository) ListByHallAndStatus(ctx context.Context, hallID int64, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	var rows []BookingModel
	err := r.db.WithContext(ctx).
		Where("hall_id = ?", hallID).
		Where("status IN ?", statusStrings(statuses)).
		Order("start_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// FindOverlapping returns bookings on the hall in one of statuses whose inclusive
// day range intersects [start, end]. A missing end date counts as the start date.
func (r *BookingRepository) FindOverlapping(
	ctx context.Context,
	hallID int64,
	rng domain.DateRange,
	statuses []domain.BookingStatus,
	excludeID int64,
) ([]domain.Booking, error) {
	return findOverlapping(r.db.WithContext(ctx), hallID, rng, statuses, excludeID)
}

func findOverlapping(db *gorm.DB, hallID int64, rng domain.DateRange, statuses []domain.BookingStatus, excludeID int64) ([]domain.Booking, error) {
	var rows []BookingModel
	q := db.
		Where("hall_id = ?", hallID).
		Where("status IN ?", statusStrings(statuses)).
		Where("start_date <= ?", rng.End).
		Where("COALESCE(end_date, start_date) >= ?", rng.Start)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// StatusUpdate is the set of columns a single transition writes together.
type StatusUpdate struct {
	Status             domain.BookingStatus
	CancellationReason *string
	AcceptedAt         *time.Time
	DepositPaid        *bool
	BalancePaid        *bool
	PaymentStatus      *domain.PaymentStatus
}

func (u StatusUpdate) columns(now time.Time) map[string]any {
	cols := map[string]any{
		"status":     string(u.Status),
		"updated_at": now,
	}
	if u.CancellationReason != nil {
		cols["cancellation_reason"] = *u.CancellationReason
	}
	if u.AcceptedAt != nil {
		cols["accepted_at"] = *u.AcceptedAt
	}
	if u.DepositPaid != nil {
		cols["deposit_paid"] = *u.DepositPaid
	}
	if u.BalancePaid != nil {
		cols["balance_paid"] = *u.BalancePaid
	}
	if u.PaymentStatus != nil {
		cols["payment_status"] = string(*u.PaymentStatus)
	}
	return cols
}

// UpdateStatusIf writes the update in one statement only while the row is still in
// expected. It reports false when another writer moved the booking first.
func (r *BookingRepository) UpdateStatusIf(ctx context.Context, bookingID int64, expected domain.BookingStatus, u StatusUpdate) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND status = ?", bookingID, string(expected)).
		Updates(u.columns(time.Now().UTC()))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// AcceptIfFree applies u to b only if b is still in its loaded status and no firm booking
// overlaps its dates. The overlap check and the write share one transaction. On postgres
// the hall row is locked with FOR UPDATE so concurrent accepts on one hall queue up;
// sqlite runs on a single connection, which serialises the transactions already.
// conflict is true when a firm booking was found; accepted is false when the status moved.
func (r *BookingRepository) AcceptIfFree(ctx context.Context, b *domain.Booking, u StatusUpdate) (accepted, conflict bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			var hall domain.Hall
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Take(&hall, b.HallID).Error; err != nil {
				return err
			}
		}

		firm, err := findOverlapping(tx, b.HallID, b.Range(), domain.FirmBookingStatuses, b.ID)
		if err != nil {
			return err
		}
		if len(firm) > 0 {
			conflict = true
			return nil
		}

		res := tx.Model(&BookingModel{}).
			Where("id = ? AND status = ?", b.ID, string(b.Status)).
			Updates(u.columns(time.Now().UTC()))
		if res.Error != nil {
			return res.Error
		}
		accepted = res.RowsAffected == 1
		return nil
	})
	return accepted, conflict, err
}

// MarkBalancePaid flags the remaining balance as settled.
func (r *BookingRepository) MarkBalancePaid(ctx context.Context, bookingID int64) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND deposit_paid = ? AND balance_paid = ?", bookingID, true, false).
		Updates(map[string]any{
			"balance_paid":   true,
			"payment_status": string(domain.PaymentPaid),
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// ListAwaitingPayment is the expiry scheduler's working set: accepted, deposit not paid.
func (r *BookingRepository) ListAwaitingPayment(ctx context.Context) ([]domain.Booking, error) {
	var rows []BookingModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.BookingAccepted)).
		Where("deposit_paid = ?", false).
		Where("accepted_at IS NOT NULL").
		Order("accepted_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// MarkExpiryNotificationSent claims the one-time warning for the booking.
// It returns true only for the caller that flipped the flag; repeating it is harmless.
func (r *BookingRepository) MarkExpiryNotificationSent(ctx context.Context, bookingID int64) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND expiry_notification_sent = ?", bookingID, false).
		Updates(map[string]any{
			"expiry_notification_sent": true,
			"updated_at":               time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (r *BookingRepository) ListByPlanner(ctx context.Context, plannerID int64, limit, offset int) ([]domain.Booking, error) {
	limit, offset = clampPage(limit, offset)

	var rows []BookingModel
	err := r.db.WithContext(ctx).
		Where("planner_id = ?", plannerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

func (r *BookingRepository) ListByVenue(ctx context.Context, venueID int64, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	limit, offset = clampPage(limit, offset)

	q := r.db.WithContext(ctx).Where("venue_id = ?", venueID)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var rows []BookingModel
	err := q.Order("start_date").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
