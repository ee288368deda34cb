package repository

import (
	"context"
	"errors"
	"strings"

	"venuehub/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateBlockedDate is returned when the hall already has a block on that day.
var ErrDuplicateBlockedDate = errors.New("date already blocked for hall")

type BlockedDateRepository struct {
	db *gorm.DB
}

func NewBlockedDateRepository(db *gorm.DB) *BlockedDateRepository {
	return &BlockedDateRepository{db: db}
}

func (r *BlockedDateRepository) ListByHall(ctx context.Context, hallID int64) ([]domain.HallBlockedDate, error) {
	var rows []domain.HallBlockedDate
	err := r.db.WithContext(ctx).
		Where("hall_id = ?", hallID).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ExistsInRange reports whether any day of rng is blocked on the hall.
func (r *BlockedDateRepository) ExistsInRange(ctx context.Context, hallID int64, rng domain.DateRange) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.HallBlockedDate{}).
		Where("hall_id = ?", hallID).
		Where("date >= ? AND date <= ?", rng.Start, rng.End).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *BlockedDateRepository) Create(ctx context.Context, b *domain.HallBlockedDate) error {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.HallBlockedDate{}).
		Where("hall_id = ? AND date = ?", b.HallID, b.Date).
		Count(&cnt).Error
	if err != nil {
		return err
	}
	if cnt > 0 {
		return ErrDuplicateBlockedDate
	}

	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateBlockedDate
		}
		return err
	}
	return nil
}

// Delete removes the block only if it belongs to the hall.
func (r *BlockedDateRepository) Delete(ctx context.Context, hallID, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND hall_id = ?", id, hallID).
		Delete(&domain.HallBlockedDate{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// isUniqueViolation covers the postgres SQLSTATE and the sqlite constraint message,
// for the window between the existence check and the insert.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
