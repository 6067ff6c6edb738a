package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"doctor-directory/internal/delivery/dto"
	"doctor-directory/internal/delivery/http/handler"
	"doctor-directory/internal/usecase"
	"doctor-directory/pkg/response"
	"doctor-directory/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDoctorUsecase struct {
	mock.Mock
}

var _ usecase.DoctorUsecase = (*MockDoctorUsecase)(nil)

func (m *MockDoctorUsecase) CreateDoctor(ctx context.Context, req *dto.DoctorRequest) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DoctorResponse), args.Error(1)
}

func (m *MockDoctorUsecase) GetAllDoctors(ctx context.Context) ([]dto.DoctorResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.DoctorResponse), args.Error(1)
}

func (m *MockDoctorUsecase) UpdateDoctor(ctx context.Context, doctorID int64, req *dto.DoctorRequest) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, doctorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DoctorResponse), args.Error(1)
}

func (m *MockDoctorUsecase) DeleteDoctor(ctx context.Context, doctorID int64) error {
	args := m.Called(ctx, doctorID)
	return args.Error(0)
}

func setupRouter(uc *MockDoctorUsecase) *mux.Router {
	h := handler.NewDoctorHandler(uc, validator.NewValidator())
	r := mux.NewRouter()
	r.HandleFunc("/api/doctors", h.GetAllDoctors).Methods(http.MethodGet)
	r.HandleFunc("/api/doctors", h.CreateDoctor).Methods(http.MethodPost)
	r.HandleFunc("/api/doctors/{id}", h.UpdateDoctor).Methods(http.MethodPut)
	r.HandleFunc("/api/doctors/{id}", h.DeleteDoctor).Methods(http.MethodDelete)
	return r
}

func float(v float64) *float64 { return &v }

func anaBody() map[string]interface{} {
	return map[string]interface{}{
		"firstName":   "Ana",
		"lastName":    "Ruiz",
		"birthDate":   "1980-01-01",
		"specialty":   "Cardiology",
		"area":        "X",
		"institution": "Y",
		"email":       "a@b.com",
		"phoneNumber": "123",
		"latitude":    10.5,
		"longitude":   -66.9,
	}
}

func anaResponse(id int64) *dto.DoctorResponse {
	return &dto.DoctorResponse{
		ID:          id,
		FirstName:   "Ana",
		LastName:    "Ruiz",
		BirthDate:   "1980-01-01",
		Specialty:   "Cardiology",
		Area:        "X",
		Institution: "Y",
		Email:       "a@b.com",
		PhoneNumber: "123",
		Latitude:    float(10.5),
		Longitude:   float(-66.9),
	}
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDoctorHandler_GetAllDoctors(t *testing.T) {
	t.Run("Returns a JSON array", func(t *testing.T) {
		uc := new(MockDoctorUsecase)
		uc.On("GetAllDoctors", mock.Anything).Return([]dto.DoctorResponse{*anaResponse(1)}, nil)

		rec := doRequest(t, setupRouter(uc), http.MethodGet, "/api/doctors", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var doctors []dto.DoctorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doctors))
		require.Len(t, doctors, 1)
		assert.Equal(t, "Ana", doctors[0].FirstName)

		var raw []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		require.Len(t, raw, 1)
		assert.Equal(t, "Ana", raw[0]["first_name"])
		assert.Equal(t, "1980-01-01", raw[0]["birth_date"])
		assert.Equal(t, "123", raw[0]["phone_number"])
		assert.NotContains(t, raw[0], "firstName")
	})

	t.Run("Empty list encodes as []", func(t *testing.T) {
		uc := new(MockDoctorUsecase)
		uc.On("GetAllDoctors", mock.Anything).Return([]dto.DoctorResponse{}, nil)

		rec := doRequest(t, setupRouter(uc), http.MethodGet, "/api/doctors", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("Store failure is a generic 500", func(t *testing.T) {
		uc := new(MockDoctorUsecase)
		uc.On("GetAllDoctors", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

		rec := doRequest(t, setupRouter(uc), http.MethodGet, "/api/doctors", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Error fetching doctors", body.Error)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestDoctorHandler_CreateDoctor(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		mockSetup      func(uc *MockDoctorUsecase)
		expectedStatus int
		expectedError  string
		expectedFields []string
	}{
		{
			name: "Created",
			body: anaBody(),
			mockSetup: func(uc *MockDoctorUsecase) {
				uc.On("CreateDoctor", mock.Anything, mock.MatchedBy(func(req *dto.DoctorRequest) bool {
					return req.FirstName == "Ana" && *req.Latitude == 10.5 && *req.Longitude == -66.9
				})).Return(anaResponse(1), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Whitespace is trimmed before the use case",
			body: func() map[string]interface{} {
				b := anaBody()
				b["firstName"] = "  Ana  "
				b["email"] = " a@b.com "
				return b
			}(),
			mockSetup: func(uc *MockDoctorUsecase) {
				uc.On("CreateDoctor", mock.Anything, mock.MatchedBy(func(req *dto.DoctorRequest) bool {
					return req.FirstName == "Ana" && req.Email == "a@b.com"
				})).Return(anaResponse(1), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Malformed JSON",
			body:           `{"firstName":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name: "Latitude without longitude",
			body: func() map[string]interface{} {
				b := anaBody()
				delete(b, "longitude")
				return b
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Validation failed",
			expectedFields: []string{"longitude"},
		},
		{
			name: "Blank required fields",
			body: func() map[string]interface{} {
				b := anaBody()
				b["lastName"] = "   "
				delete(b, "specialty")
				return b
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Validation failed",
			expectedFields: []string{"lastName", "specialty"},
		},
		{
			name: "Store failure",
			body: anaBody(),
			mockSetup: func(uc *MockDoctorUsecase) {
				uc.On("CreateDoctor", mock.Anything, mock.Anything).Return(nil, errors.New("not null violation"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Error inserting doctor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockDoctorUsecase)
			if tt.mockSetup != nil {
				tt.mockSetup(uc)
			}

			rec := doRequest(t, setupRouter(uc), http.MethodPost, "/api/doctors", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				body := decodeError(t, rec)
				assert.Equal(t, tt.expectedError, body.Error)
				for _, f := range tt.expectedFields {
					assert.Contains(t, body.Fields, f)
				}
			} else {
				var created dto.DoctorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
				assert.Equal(t, int64(1), created.ID)
			}
			if tt.mockSetup == nil {
				uc.AssertNotCalled(t, "CreateDoctor", mock.Anything, mock.Anything)
			}
			uc.AssertExpectations(t)
		})
	}
}

func TestDoctorHandler_UpdateDoctor(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           interface{}
		mockSetup      func(uc *MockDoctorUsecase)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Updated",
			path: "/api/doctors/3",
			body: anaBody(),
			mockSetup: func(uc *MockDoctorUsecase) {
				uc.On("UpdateDoctor", mock.Anything, int64(3), mock.Anything).Return(anaResponse(3), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Non numeric id",
			path:           "/api/doctors/abc",
			body:           anaBody(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid doctor ID",
		},
		{
			name:           "Zero id",
			path:           "/api/doctors/0",
			body:           anaBody(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid doctor ID",
		},
		{
			name: "Unknown id",
			path: "/api/doctors/404",
			body: anaBody(),
			mockSetup: func(uc *MockDoctorUsecase) {
				uc.On("UpdateDoctor", mock.Anything, int64(404), mock.Anything).Return(nil, usecase.ErrDoctorNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Doctor not found",
		},
		{
			name: "Longitude without latitude",
			path: "/api/doctors/3",
			body: func() map[string]interface{} {
				b := anaBody()
				b["latitude"] = nil
				return b
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Validation failed",
		},
		{
			name: "Store failure",
			path: "/api/doctors/3",
			body: anaBody(),
			mockSetup: func(uc *MockDoctorUsecase) {
				uc.On("UpdateDoctor", mock.Anything, int64(3), mock.Anything).Return(nil, errors.New("timeout"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Error updating doctor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockDoctorUsecase)
			if tt.mockSetup != nil {
				tt.mockSetup(uc)
			}

			rec := doRequest(t, setupRouter(uc), http.MethodPut, tt.path, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, rec).Error)
			}
			uc.AssertExpectations(t)
		})
	}
}

func TestDoctorHandler_DeleteDoctor(t *testing.T) {
	t.Run("No content", func(t *testing.T) {
		uc := new(MockDoctorUsecase)
		uc.On("DeleteDoctor", mock.Anything, int64(5)).Return(nil)

		rec := doRequest(t, setupRouter(uc), http.MethodDelete, "/api/doctors/5", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("Invalid id", func(t *testing.T) {
		uc := new(MockDoctorUsecase)

		rec := doRequest(t, setupRouter(uc), http.MethodDelete, "/api/doctors/-1", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		uc.AssertNotCalled(t, "DeleteDoctor", mock.Anything, mock.Anything)
	})

	t.Run("Store failure", func(t *testing.T) {
		uc := new(MockDoctorUsecase)
		uc.On("DeleteDoctor", mock.Anything, int64(5)).Return(errors.New("connection reset"))

		rec := doRequest(t, setupRouter(uc), http.MethodDelete, "/api/doctors/5", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Error deleting doctor", decodeError(t, rec).Error)
	})
}
