package authsvc

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/token"
)

type Users interface {
	ByEmail(ctx context.Context, email string) (User, error)
	TouchLogin(ctx context.Context, id string, at time.Time) error
}

type Server struct {
	log    *zap.Logger
	users  Users
	secret string
	ttl    time.Duration
	now    func() time.Time

	compare func(hash, password []byte) error
}

func NewServer(log *zap.Logger, users Users, secret string, ttl time.Duration) *Server {
	return &Server{
		log:     log,
		users:   users,
		secret:  secret,
		ttl:     ttl,
		now:     time.Now,
		compare: bcrypt.CompareHashAndPassword,
	}
}

// dummyHash is checked against when the email is unknown, so both
// rejections cost one bcrypt comparison at the store's cost.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("compte-inexistant"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
})

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// Router serves POST /login.
func (s *Server) Router(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.log))

	if len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.POST("/login", s.Login)
	return r
}

func (s *Server) Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requête invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	u, err := s.users.ByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.log.Debug("login: unknown email", zap.String("email", in.Email))
			_ = s.compare(dummyHash(), []byte(in.Password))
			unauthorized(c)
			return
		}
		s.log.Error("login: lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "une erreur est survenue"})
		return
	}

	if err := s.compare([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		s.log.Debug("login: wrong password", zap.String("user", u.ID))
		unauthorized(c)
		return
	}
	if !u.Active {
		s.log.Info("login: inactive user", zap.String("user", u.ID))
		unauthorized(c)
		return
	}

	now := s.now()
	signed, err := token.Issue(s.secret, u.ID, u.Name, u.Role, s.ttl, now)
	if err != nil {
		s.log.Error("login: issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "une erreur est survenue"})
		return
	}

	if err := s.users.TouchLogin(ctx, u.ID, now); err != nil {
		s.log.Warn("login: last login not saved", zap.String("user", u.ID), zap.Error(err))
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: signed,
		User:  UserView{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role},
	})
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "identifiants invalides"})
}
