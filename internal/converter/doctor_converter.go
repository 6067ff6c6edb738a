package converter

import (
	"strings"
	"time"

	"doctor-directory/internal/delivery/dto"
	"doctor-directory/internal/domain/entity"
)

// DateLayout is the wire format of birth dates.
const DateLayout = "2006-01-02"

// TrimDoctorRequest strips surrounding whitespace from every text field.
func TrimDoctorRequest(req *dto.DoctorRequest) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.BirthDate = strings.TrimSpace(req.BirthDate)
	req.Specialty = strings.TrimSpace(req.Specialty)
	req.Area = strings.TrimSpace(req.Area)
	req.Institution = strings.TrimSpace(req.Institution)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
}

// DoctorRequestToEntity converts a validated request into an entity without id.
func DoctorRequestToEntity(req *dto.DoctorRequest) (*entity.Doctor, error) {
	birthDate, err := time.Parse(DateLayout, req.BirthDate)
	if err != nil {
		return nil, err
	}

	return &entity.Doctor{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BirthDate:   birthDate,
		Specialty:   req.Specialty,
		Area:        req.Area,
		Institution: req.Institution,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}, nil
}

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:          doctor.ID,
		FirstName:   doctor.FirstName,
		LastName:    doctor.LastName,
		BirthDate:   doctor.BirthDate.Format(DateLayout),
		Specialty:   doctor.Specialty,
		Area:        doctor.Area,
		Institution: doctor.Institution,
		Email:       doctor.Email,
		PhoneNumber: doctor.PhoneNumber,
		Latitude:    doctor.Latitude,
		Longitude:   doctor.Longitude,
	}
}

// DoctorsToResponses never returns nil so an empty table encodes as [].
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
