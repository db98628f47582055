package update

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type MockResource struct {
	mock.Mock
	crm.Resource
}

func (m *MockResource) Update(ctx context.Context, id string, patch map[string]any) (any, error) {
	args := m.Called(ctx, id, patch)
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
	r.Patch("/api/{collection}/{id}", Update(slog.Default(), p))

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestUpdate(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		setup  func(rs *MockResource)
		status int
	}{
		{
			name: "nested field",
			body: `{"contact.email":"a@b.fr"}`,
			setup: func(rs *MockResource) {
				rs.On("Update", mock.Anything, "c1", map[string]any{"contact.email": "a@b.fr"}).
					Return(storage.Client{Meta: storage.Meta{ID: "c1"}}, nil)
			},
			status: http.StatusOK,
		},
		{
			name: "missing document",
			body: `{"name":"x"}`,
			setup: func(rs *MockResource) {
				rs.On("Update", mock.Anything, "c1", mock.Anything).Return(nil, storage.ErrNotFound)
			},
			status: http.StatusNotFound,
		},
		{
			name: "immutable id",
			body: `{"id":"other"}`,
			setup: func(rs *MockResource) {
				rs.On("Update", mock.Anything, "c1", mock.Anything).Return(nil, validate.Violations{"id": "immutable"})
			},
			status: http.StatusBadRequest,
		},
		{name: "empty patch", body: `{}`, setup: func(rs *MockResource) {}, status: http.StatusBadRequest},
		{name: "broken json", body: `{"name":`, setup: func(rs *MockResource) {}, status: http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rs := new(MockResource)
			tc.setup(rs)
			p := new(MockProvider)
			p.On("Resource", "clients").Return(rs, true)

			rr := serve(p, "/api/clients/c1", tc.body)

			assert.Equal(t, tc.status, rr.Code)
			rs.AssertExpectations(t)
		})
	}
}
