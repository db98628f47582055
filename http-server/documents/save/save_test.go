package save

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type MockResource struct {
	mock.Mock
	crm.Resource
}

func (m *MockResource) Create(ctx context.Context, raw []byte) (any, error) {
	args := m.Called(ctx, string(raw))
	return args.Get(0), args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Resource(name string) (crm.Resource, bool) {
	args := m.Called(name)
	rs, _ := args.Get(0).(crm.Resource)
	return rs, args.Bool(1)
}

func serve(p ResourceProvider, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Post("/api/{collection}", Create(slog.Default(), p))

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCreate_Success(t *testing.T) {
	rs := new(MockResource)
	rs.On("Create", mock.Anything, `{"name":"Alpha","active":true}`).
		Return(storage.Team{Meta: storage.Meta{ID: "t1"}, Name: "Alpha", Active: true}, nil)
	p := new(MockProvider)
	p.On("Resource", "teams").Return(rs, true)

	rr := serve(p, "/api/teams", `{"name":"Alpha","active":true}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var resp storage.Team
	assert.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, "t1", resp.ID)
	rs.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	rs := new(MockResource)
	rs.On("Create", mock.Anything, mock.Anything).Return(nil, validate.Violations{"name": "required"})
	p := new(MockProvider)
	p.On("Resource", "teams").Return(rs, true)

	rr := serve(p, "/api/teams", `{"color":"#fff"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp api.ErrorResponse
	assert.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, "validation", resp.Error)
	assert.Equal(t, map[string]any{"name": "required"}, resp.Details)
}

func TestCreate_InvalidJSON(t *testing.T) {
	for _, body := range []string{`{`, `[1,2]`, `"x"`, ``} {
		rs := new(MockResource)
		p := new(MockProvider)
		p.On("Resource", "teams").Return(rs, true)

		rr := serve(p, "/api/teams", body)

		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		rs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}
}

func TestCreate_UnknownCollection(t *testing.T) {
	p := new(MockProvider)
	p.On("Resource", "activity").Return(nil, false)

	rr := serve(p, "/api/activity", `{}`)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
