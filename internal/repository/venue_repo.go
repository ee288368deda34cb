package repository

import (
	"context"

	"venuehub/internal/domain"

	"gorm.io/gorm"
)

// VenueRepository reads venues and their halls. Writes happen through the venue admin
// tooling and the seed command.
type VenueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) CreateVenue(ctx context.Context, v *domain.Venue) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VenueRepository) CreateHall(ctx context.Context, h *domain.Hall) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *VenueRepository) GetVenueByID(ctx context.Context, id int64) (*domain.Venue, error) {
	var v domain.Venue
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VenueRepository) GetHallByID(ctx context.Context, id int64) (*domain.Hall, error) {
	var h domain.Hall
	if err := r.db.WithContext(ctx).First(&h, id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

// GetOwnerIDForHall resolves hall -> venue -> owner in one query.
func (r *VenueRepository) GetOwnerIDForHall(ctx context.Context, hallID int64) (int64, error) {
	var ownerID int64
	tx := r.db.WithContext(ctx).
		Table("halls").
		Select("venues.owner_user_id").
		Joins("JOIN venues ON venues.id = halls.venue_id").
		Where("halls.id = ?", hallID).
		Limit(1).
		Scan(&ownerID)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return ownerID, nil
}
