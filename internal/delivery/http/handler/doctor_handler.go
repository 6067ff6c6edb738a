package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"doctor-directory/internal/converter"
	"doctor-directory/internal/delivery/dto"
	"doctor-directory/internal/usecase"
	"doctor-directory/pkg/response"
	"doctor-directory/pkg/validator"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	validator.RegisterStructValidation(dto.DoctorRequestStructLevel, dto.DoctorRequest{})

	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.GetAllDoctors(r.Context())
	if err != nil {
		response.InternalServerError(w, "Error fetching doctors")
		return
	}

	response.Success(w, http.StatusOK, doctors)
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.CreateDoctor(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidBirthDate):
			response.BadRequest(w, "Invalid birth date")
		default:
			response.InternalServerError(w, "Error inserting doctor")
		}
		return
	}

	response.Success(w, http.StatusCreated, doctor)
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := parseDoctorID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.UpdateDoctor(r.Context(), doctorID, req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		case errors.Is(err, usecase.ErrInvalidBirthDate):
			response.BadRequest(w, "Invalid birth date")
		default:
			response.InternalServerError(w, "Error updating doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, doctor)
}

func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := parseDoctorID(w, r)
	if !ok {
		return
	}

	if err := h.doctorUsecase.DeleteDoctor(r.Context(), doctorID); err != nil {
		response.InternalServerError(w, "Error deleting doctor")
		return
	}

	response.NoContent(w)
}

// decodeRequest reads, trims and validates the body. It writes the error
// response itself and reports whether the handler should continue.
func (h *DoctorHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*dto.DoctorRequest, bool) {
	var req dto.DoctorRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return nil, false
	}

	converter.TrimDoctorRequest(&req)

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return nil, false
	}

	return &req, true
}

func parseDoctorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	doctorID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || doctorID <= 0 {
		response.BadRequest(w, "Invalid doctor ID")
		return 0, false
	}
	return doctorID, true
}
