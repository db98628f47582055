package authsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/config"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/token"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "users.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	s := NewStore(db)
	s.cost = bcrypt.MinCost
	require.NoError(t, s.Migrate())
	return s
}

func post(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestStore(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u, err := s.Create(ctx, "  Lea@Example.fr ", "Léa", RoleAdmin, "motdepasse")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "lea@example.fr", u.Email)
	assert.NotEqual(t, "motdepasse", u.PasswordHash)

	_, err = s.Create(ctx, "lea@example.fr", "Autre", RoleOffice, "x")
	assert.ErrorIs(t, err, ErrUserExists)

	got, err := s.ByEmail(ctx, "LEA@example.fr")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.Active)
	assert.Nil(t, got.LastLogin)

	at := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.TouchLogin(ctx, u.ID, at))
	got, err = s.ByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, at.Equal(*got.LastLogin))

	require.NoError(t, s.SetActive(ctx, u.Email, false))
	got, err = s.ByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.False(t, got.Active)

	_, err = s.ByEmail(ctx, "nobody@example.fr")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, s.SetActive(ctx, "nobody@example.fr", true), ErrUserNotFound)
}

func TestLogin_Integration(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u, err := s.Create(ctx, "lea@example.fr", "Léa", RoleTechnician, "motdepasse")
	require.NoError(t, err)

	srv := NewServer(zap.NewNop(), s, secret, time.Hour)
	h := srv.Router(nil)

	rr := post(t, h, LoginInput{Email: "lea@example.fr", Password: "motdepasse"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, UserView{ID: u.ID, Email: u.Email, Name: "Léa", Role: RoleTechnician}, resp.User)

	claims, err := token.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, RoleTechnician, claims.Role)

	got, err := s.ByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) ByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(User)
	return u, args.Error(1)
}

func (m *MockUsers) TouchLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func TestLogin_Rejects(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("motdepasse"), bcrypt.MinCost)
	require.NoError(t, err)
	active := User{ID: "u1", Email: "lea@example.fr", PasswordHash: string(hash), Active: true}
	inactive := active
	inactive.Active = false

	cases := []struct {
		name  string
		body  any
		setup func(m *MockUsers)
		want  int
	}{
		{
			name: "unknown email",
			body: LoginInput{Email: "x@example.fr", Password: "motdepasse"},
			setup: func(m *MockUsers) {
				m.On("ByEmail", mock.Anything, "x@example.fr").Return(User{}, ErrUserNotFound)
			},
			want: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			body: LoginInput{Email: "lea@example.fr", Password: "nope"},
			setup: func(m *MockUsers) {
				m.On("ByEmail", mock.Anything, "lea@example.fr").Return(active, nil)
			},
			want: http.StatusUnauthorized,
		},
		{
			name: "inactive",
			body: LoginInput{Email: "lea@example.fr", Password: "motdepasse"},
			setup: func(m *MockUsers) {
				m.On("ByEmail", mock.Anything, "lea@example.fr").Return(inactive, nil)
			},
			want: http.StatusUnauthorized,
		},
		{
			name:  "bad email",
			body:  map[string]string{"email": "lea", "password": "x"},
			setup: func(m *MockUsers) {},
			want:  http.StatusBadRequest,
		},
		{
			name:  "missing password",
			body:  map[string]string{"email": "lea@example.fr"},
			setup: func(m *MockUsers) {},
			want:  http.StatusBadRequest,
		},
		{
			name: "store down",
			body: LoginInput{Email: "lea@example.fr", Password: "motdepasse"},
			setup: func(m *MockUsers) {
				m.On("ByEmail", mock.Anything, "lea@example.fr").Return(User{}, errors.New("db down"))
			},
			want: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := new(MockUsers)
			tc.setup(users)

			h := NewServer(zap.NewNop(), users, secret, time.Hour).Router(nil)
			rr := post(t, h, tc.body)

			assert.Equal(t, tc.want, rr.Code)
			assert.NotContains(t, rr.Body.String(), "token")
			users.AssertExpectations(t)
			users.AssertNotCalled(t, "TouchLogin", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLogin_UnknownEmailStillHashes(t *testing.T) {
	users := new(MockUsers)
	users.On("ByEmail", mock.Anything, "x@example.fr").Return(User{}, ErrUserNotFound)

	srv := NewServer(zap.NewNop(), users, secret, time.Hour)
	var hashes [][]byte
	srv.compare = func(hash, password []byte) error {
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	rr := post(t, srv.Router(nil), LoginInput{Email: "x@example.fr", Password: "motdepasse"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Len(t, hashes, 1)
	assert.Equal(t, dummyHash(), hashes[0])

	cost, err := bcrypt.Cost(hashes[0])
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestLogin_TouchFailureStillLogsIn(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("motdepasse"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(MockUsers)
	users.On("ByEmail", mock.Anything, "lea@example.fr").
		Return(User{ID: "u1", Email: "lea@example.fr", PasswordHash: string(hash), Active: true}, nil)
	users.On("TouchLogin", mock.Anything, "u1", mock.Anything).Return(errors.New("read only"))

	h := NewServer(zap.NewNop(), users, secret, time.Hour).Router([]string{"http://localhost:5173"})
	rr := post(t, h, LoginInput{Email: "lea@example.fr", Password: "motdepasse"})

	assert.Equal(t, http.StatusOK, rr.Code)
	users.AssertExpectations(t)
}

func TestOpenDB(t *testing.T) {
	db, err := OpenDB(config.Storage{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "crm.db")}, "prod")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	s := NewStore(db)
	s.cost = bcrypt.MinCost
	require.NoError(t, s.Migrate())
	_, err = s.Create(context.Background(), "admin@clim.fr", "Admin", RoleAdmin, "motdepasse")
	require.NoError(t, err)

	_, err = OpenDB(config.Storage{Driver: "postgres"}, "prod")
	assert.Error(t, err)
}
