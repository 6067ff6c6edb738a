package dto

import "github.com/go-playground/validator/v10"

// Request DTOs

// DoctorRequest carries the full set of user editable fields. It is used for
// both create and full-replace update.
type DoctorRequest struct {
	FirstName   string   `json:"firstName" validate:"required"`
	LastName    string   `json:"lastName" validate:"required"`
	BirthDate   string   `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Specialty   string   `json:"specialty" validate:"required"`
	Area        string   `json:"area" validate:"required"`
	Institution string   `json:"institution" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	PhoneNumber string   `json:"phoneNumber" validate:"required"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// DoctorRequestStructLevel rejects a coordinate pair with only one half set.
func DoctorRequestStructLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(DoctorRequest)
	switch {
	case req.Latitude != nil && req.Longitude == nil:
		sl.ReportError(req.Longitude, "longitude", "Longitude", "required_with", "latitude")
	case req.Longitude != nil && req.Latitude == nil:
		sl.ReportError(req.Latitude, "latitude", "Latitude", "required_with", "longitude")
	}
}

// Response DTOs

// DoctorResponse uses the column names as keys, unlike DoctorRequest.
type DoctorResponse struct {
	ID          int64    `json:"id"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	BirthDate   string   `json:"birth_date"`
	Specialty   string   `json:"specialty"`
	Area        string   `json:"area"`
	Institution string   `json:"institution"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phone_number"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}
