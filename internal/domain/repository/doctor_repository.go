package repository

import (
	"context"

	"doctor-directory/internal/domain/entity"

	"gorm.io/gorm"
)

// DoctorRepository owns every query against the doctors table. db may be the
// pool or a transaction started by the caller.
type DoctorRepository interface {
	Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	// Update replaces all fields of the row with the given id. It returns
	// (nil, nil) when no row matched.
	Update(ctx context.Context, db *gorm.DB, id int64, doctor *entity.Doctor) (*entity.Doctor, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Doctor, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Doctor, error)
	// Delete removes the row and returns the number of rows affected.
	// A missing id is not an error.
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}
