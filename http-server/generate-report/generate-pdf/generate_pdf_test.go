package generate_pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type MockDocumentRenderer struct {
	mock.Mock
}

func (m *MockDocumentRenderer) MaintenanceContract(ctx context.Context, id string, w io.Writer) error {
	args := m.Called(ctx, id, w)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "%PDF-1.3 contract")
	return err
}

func (m *MockDocumentRenderer) InterventionSheet(ctx context.Context, id string, w io.Writer) error {
	args := m.Called(ctx, id, w)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "%PDF-1.3 sheet")
	return err
}

func router(m *MockDocumentRenderer) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/maintenances/{id}/contract.pdf", Contract(slog.Default(), m))
	r.Get("/api/appointments/{id}/sheet.pdf", Sheet(slog.Default(), m))
	return r
}

func TestContract(t *testing.T) {
	m := new(MockDocumentRenderer)
	m.On("MaintenanceContract", mock.Anything, "m1", mock.Anything).Return(nil)

	rr := httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/maintenances/m1/contract.pdf", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, "inline; filename=contrat_m1.pdf", rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 contract", rr.Body.String())
}

func TestSheet_NotFound(t *testing.T) {
	m := new(MockDocumentRenderer)
	m.On("InterventionSheet", mock.Anything, "a9", mock.Anything).
		Return(fmt.Errorf("service.contract.InterventionSheet: %w", storage.ErrNotFound))

	rr := httptest.NewRecorder()
	router(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/appointments/a9/sheet.pdf", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"introuvable"}`, rr.Body.String())
}
