package usecase

import (
	"context"
	"errors"

	"doctor-directory/internal/converter"
	"doctor-directory/internal/delivery/dto"
	"doctor-directory/internal/domain/repository"
	"doctor-directory/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound   = errors.New("doctor not found")
	ErrInvalidBirthDate = errors.New("invalid birth date format, use YYYY-MM-DD")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.DoctorRequest) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) ([]dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, doctorID int64, req *dto.DoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID int64) error
}

type doctorUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	doctorRepo repository.DoctorRepository
	cache      service.DoctorCacheService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	cache service.DoctorCacheService,
) DoctorUsecase {
	return &doctorUsecase{
		db:         db,
		log:        log,
		doctorRepo: doctorRepo,
		cache:      cache,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.DoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := converter.DoctorRequestToEntity(req)
	if err != nil {
		return nil, ErrInvalidBirthDate
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, repository.NewPersistenceError("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	if err := u.doctorRepo.Create(ctx, tx, doctor); err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, repository.NewPersistenceError("commit create doctor", err)
	}

	u.cache.Invalidate(ctx)
	u.log.WithField("doctor_id", doctor.ID).Info("Doctor created")

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context) ([]dto.DoctorResponse, error) {
	cached, generation, ok := u.cache.GetList(ctx)
	if ok {
		return converter.DoctorsToResponses(cached), nil
	}

	doctors, err := u.doctorRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	// generation was read before the store, so a write committed meanwhile
	// makes this fill a no-op
	u.cache.SetList(ctx, generation, doctors)

	return converter.DoctorsToResponses(doctors), nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, doctorID int64, req *dto.DoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := converter.DoctorRequestToEntity(req)
	if err != nil {
		return nil, ErrInvalidBirthDate
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, repository.NewPersistenceError("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	updated, err := u.doctorRepo.Update(ctx, tx, doctorID, doctor)
	if err != nil {
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}
	if updated == nil {
		u.log.Warnf("Failed to update doctor %d: %+v", doctorID, ErrDoctorNotFound)
		return nil, ErrDoctorNotFound
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, repository.NewPersistenceError("commit update doctor", err)
	}

	u.cache.Invalidate(ctx)
	u.log.WithField("doctor_id", doctorID).Info("Doctor updated")

	return converter.DoctorToResponse(updated), nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, doctorID int64) error {
	affectedRows, err := u.doctorRepo.Delete(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed delete doctor: %+v", err)
		return err
	}

	if affectedRows == 0 {
		// deleting an unknown id is a no-op
		u.log.Debugf("Delete doctor %d: no rows affected", doctorID)
		return nil
	}

	u.cache.Invalidate(ctx)
	u.log.WithField("doctor_id", doctorID).Info("Doctor deleted")

	return nil
}
