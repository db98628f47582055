package update

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type MockStatusSetter struct {
	mock.Mock
}

func (m *MockStatusSetter) SetStatus(ctx context.Context, id, status string) (storage.Ticket, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(storage.Ticket), args.Error(1)
}

func TestSetStatus(t *testing.T) {
	resolved := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

	m := new(MockStatusSetter)
	m.On("SetStatus", mock.Anything, "t1", "resolu").
		Return(storage.Ticket{Status: "resolu", ResolvedAt: &resolved}, nil)
	m.On("SetStatus", mock.Anything, "t1", "ferme").
		Return(storage.Ticket{}, validate.Violations{"status": "invalid_value"})

	r := chi.NewRouter()
	r.Put("/api/sav/tickets/{id}/status", SetStatus(slog.Default(), m))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/sav/tickets/t1/status", strings.NewReader(`{"status":"resolu"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"resolvedAt":"2024-06-10T15:00:00Z"`)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/sav/tickets/t1/status", strings.NewReader(`{"status":"ferme"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	m.AssertExpectations(t)
}
