package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bundasehat/screening-backend/internal/data/dberr"
	"github.com/bundasehat/screening-backend/internal/data/repos"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/apierr"
	"github.com/bundasehat/screening-backend/internal/platform/ctxutil"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

const DefaultAccessTTL = 7 * 24 * time.Hour

type JWTClaims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type LoginResult struct {
	Token string    `json:"token"`
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

type AuthService interface {
	// Register creates a regular user; the role in the payload is ignored.
	Register(ctx context.Context, in UserInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// ParseToken validates tokenString and returns the caller it names.
	ParseToken(tokenString string) (*ctxutil.RequestData, error)
	AccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	users        UserService
	jwtSecretKey []byte
	accessTTL    time.Duration
	now          func() time.Time
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, users UserService, jwtSecretKey string, accessTTL time.Duration) (AuthService, error) {
	if strings.TrimSpace(jwtSecretKey) == "" {
		return nil, errors.New("jwt secret key is empty")
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		users:        users,
		jwtSecretKey: []byte(jwtSecretKey),
		accessTTL:    accessTTL,
		now:          time.Now,
	}, nil
}

func (as *authService) Register(ctx context.Context, in UserInput) (*types.User, error) {
	in.Role = types.RoleUser
	return as.users.Create(ctx, in)
}

func (as *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalid("invalid_credentials", "email and password are required")
	}
	u, err := as.userRepo.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apierr.Unauthorized("invalid email or password")
		}
		return nil, apierr.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		as.log.Debug("Login rejected", "user_id", u.ID)
		return nil, apierr.Unauthorized("invalid email or password")
	}
	tok, err := as.sign(u)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("sign token: %w", err))
	}
	return &LoginResult{Token: tok, ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

func (as *authService) sign(u *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		Name: u.Name,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
}

func (as *authService) ParseToken(tokenString string) (*ctxutil.RequestData, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, apierr.Unauthorized("missing token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		return as.jwtSecretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil {
		return nil, apierr.Unauthorized("invalid or expired token")
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return nil, apierr.Unauthorized("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apierr.Unauthorized("invalid user id in token")
	}
	return &ctxutil.RequestData{TokenString: tokenString, UserID: userID, Role: claims.Role}, nil
}

func (as *authService) AccessTTL() time.Duration { return as.accessTTL }
