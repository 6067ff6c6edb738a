package repository

import (
	"context"
	"errors"

	"doctor-directory/internal/domain/entity"
	domainRepo "doctor-directory/internal/domain/repository"

	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	// id is always assigned by the database
	doctor.ID = 0
	err := db.WithContext(ctx).Create(doctor).Error
	return domainRepo.NewPersistenceError("create doctor", err)
}

func (r *doctorRepository) Update(ctx context.Context, db *gorm.DB, id int64, doctor *entity.Doctor) (*entity.Doctor, error) {
	// Every column is listed so nil coordinates are written as NULL
	// instead of being skipped as zero values.
	result := db.WithContext(ctx).
		Model(&entity.Doctor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"first_name":   doctor.FirstName,
			"last_name":    doctor.LastName,
			"birth_date":   doctor.BirthDate,
			"specialty":    doctor.Specialty,
			"area":         doctor.Area,
			"institution":  doctor.Institution,
			"email":        doctor.Email,
			"phone_number": doctor.PhoneNumber,
			"latitude":     doctor.Latitude,
			"longitude":    doctor.Longitude,
		})
	if result.Error != nil {
		return nil, domainRepo.NewPersistenceError("update doctor", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.FindByID(ctx, db, id)
}

func (r *doctorRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.WithContext(ctx).Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, domainRepo.NewPersistenceError("find doctor", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.WithContext(ctx).Order("id ASC").Find(&doctors).Error
	if err != nil {
		return nil, domainRepo.NewPersistenceError("list doctors", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Doctor{})
	if result.Error != nil {
		return 0, domainRepo.NewPersistenceError("delete doctor", result.Error)
	}
	return result.RowsAffected, nil
}
