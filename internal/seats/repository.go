package seats

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindLayout(ctx context.Context, busPlate, seatType string) (*CoachLayout, error)
	SaveLayout(ctx context.Context, layout *CoachLayout) error
	DeleteLayout(ctx context.Context, busPlate, seatType string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindLayout(ctx context.Context, busPlate, seatType string) (*CoachLayout, error) {
	var layout CoachLayout
	err := r.db.WithContext(ctx).
		Preload("Seats", func(db *gorm.DB) *gorm.DB {
			return db.Order("row_index ASC, column_index ASC")
		}).
		Where("bus_plate = ? AND seat_type = ?", busPlate, seatType).
		First(&layout).Error
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

// SaveLayout replaces any layout stored for the same bus plate and seat type
func (r *repository) SaveLayout(ctx context.Context, layout *CoachLayout) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteLayout(tx, layout.BusPlate, layout.SeatType); err != nil {
			return err
		}
		return tx.Create(layout).Error
	})
}

func (r *repository) DeleteLayout(ctx context.Context, busPlate, seatType string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteLayout(tx, busPlate, seatType)
	})
}

func deleteLayout(tx *gorm.DB, busPlate, seatType string) error {
	var ids []string
	if err := tx.Model(&CoachLayout{}).
		Where("bus_plate = ? AND seat_type = ?", busPlate, seatType).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("layout_id IN ?", ids).Delete(&LayoutSeat{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&CoachLayout{}).Error
}
