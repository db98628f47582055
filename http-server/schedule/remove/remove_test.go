package remove

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type MockAppointmentRemover struct {
	mock.Mock
}

func (m *MockAppointmentRemover) RemoveAppointment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestRemove(t *testing.T) {
	m := new(MockAppointmentRemover)
	m.On("RemoveAppointment", mock.Anything, "a1").Return(nil)
	m.On("RemoveAppointment", mock.Anything, "gone").Return(storage.ErrNotFound)

	r := chi.NewRouter()
	r.Delete("/api/appointments/{id}", Remove(slog.Default(), m))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/appointments/a1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"deleted","id":"a1"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/appointments/gone", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	m.AssertExpectations(t)
}
