package services

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bundasehat/screening-backend/internal/data/repos"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/apierr"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/gcp"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

const minPasswordLength = 6

type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserUpdate carries optional fields; nil leaves the column unchanged.
type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type UserService interface {
	List(ctx context.Context) ([]*types.User, error)
	Get(ctx context.Context, id uuid.UUID) (*types.User, error)
	Create(ctx context.Context, in UserInput) (*types.User, error)
	Update(ctx context.Context, id uuid.UUID, in UserUpdate) (*types.User, error)
	Delete(ctx context.Context, id uuid.UUID) (*types.User, error)
	SetAvatar(ctx context.Context, id uuid.UUID, raw []byte) (*types.User, error)
	// EnsureAdmin creates an admin account for email unless one exists.
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	avatars  AvatarService
	bucket   gcp.BucketService
}

// NewUserService accepts nil avatars and bucket when object storage is off.
func NewUserService(log *logger.Logger, userRepo repos.UserRepo, avatars AvatarService, bucket gcp.BucketService) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
		avatars:  avatars,
		bucket:   bucket,
	}
}

func (us *userService) List(ctx context.Context) ([]*types.User, error) {
	users, err := us.userRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, mapRepoErr(err, "user_not_found")
	}
	return users, nil
}

func (us *userService) Get(ctx context.Context, id uuid.UUID) (*types.User, error) {
	u, err := us.userRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, mapRepoErr(err, "user_not_found")
	}
	return u, nil
}

func (us *userService) Create(ctx context.Context, in UserInput) (*types.User, error) {
	name := truncateRunes(in.Name, 100)
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, invalid("invalid_name", "name is required")
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = types.RoleUser
	}
	if !types.ValidRole(role) {
		return nil, invalid("invalid_role", "role must be %q or %q", types.RoleAdmin, types.RoleUser)
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	exists, err := us.userRepo.EmailExists(dbc, email)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if exists {
		return nil, apierr.Conflict("email_taken", fmt.Errorf("email %s is already registered", email))
	}

	u := &types.User{ID: uuid.New(), Name: name, Email: email, Password: hash, Role: role}
	if _, err := us.userRepo.Create(dbc, []*types.User{u}); err != nil {
		return nil, mapRepoErr(err, "user_not_found")
	}

	if us.avatars != nil {
		if err := us.avatars.UploadInitials(ctx, u); err != nil {
			us.log.Warn("Avatar not created (continuing)", "user_id", u.ID, "error", err)
		}
	}
	us.log.Info("User created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (us *userService) Update(ctx context.Context, id uuid.UUID, in UserUpdate) (*types.User, error) {
	dbc := dbctx.Context{Ctx: ctx}
	current, err := us.userRepo.GetByID(dbc, id)
	if err != nil {
		return nil, mapRepoErr(err, "user_not_found")
	}

	updates := map[string]any{}
	if in.Name != nil {
		name := truncateRunes(*in.Name, 100)
		if name == "" {
			return nil, invalid("invalid_name", "name is required")
		}
		updates["name"] = name
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if email != current.Email {
			exists, err := us.userRepo.EmailExists(dbc, email)
			if err != nil {
				return nil, apierr.Internal(err)
			}
			if exists {
				return nil, apierr.Conflict("email_taken", fmt.Errorf("email %s is already registered", email))
			}
			updates["email"] = email
		}
	}
	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}
	if in.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*in.Role))
		if !types.ValidRole(role) {
			return nil, invalid("invalid_role", "role must be %q or %q", types.RoleAdmin, types.RoleUser)
		}
		updates["role"] = role
	}

	if err := us.userRepo.UpdateFields(dbc, id, updates); err != nil {
		return nil, mapRepoErr(err, "user_not_found")
	}
	return us.Get(ctx, id)
}

func (us *userService) Delete(ctx context.Context, id uuid.UUID) (*types.User, error) {
	dbc := dbctx.Context{Ctx: ctx}
	u, err := us.userRepo.GetByID(dbc, id)
	if err != nil {
		return nil, mapRepoErr(err, "user_not_found")
	}
	if err := us.userRepo.Delete(dbc, id); err != nil {
		return nil, mapRepoErr(err, "user_not_found")
	}
	if us.bucket != nil && us.bucket.HasCategory(gcp.BucketCategoryAvatar) {
		if err := us.bucket.DeletePrefix(ctx, gcp.BucketCategoryAvatar, avatarPrefix(u)); err != nil {
			us.log.Warn("Failed to delete avatar objects", "user_id", id, "error", err)
		}
	}
	us.log.Info("User deleted", "user_id", id)
	return u, nil
}

func (us *userService) SetAvatar(ctx context.Context, id uuid.UUID, raw []byte) (*types.User, error) {
	if us.avatars == nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "storage_unavailable", fmt.Errorf("object storage is not configured"))
	}
	u, err := us.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := us.avatars.UploadImage(ctx, u, raw); err != nil {
		return nil, mapRepoErr(err, "user_not_found")
	}
	return u, nil
}

func (us *userService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	exists, err := us.userRepo.EmailExists(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	_, err = us.Create(ctx, UserInput{Name: name, Email: email, Password: password, Role: types.RoleAdmin})
	return err
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", invalid("invalid_email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("invalid_email", "email %q is not valid", raw)
	}
	return email, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", invalid("invalid_password", "password must be at least %d characters", minPasswordLength)
	}
	// bcrypt rejects inputs above 72 bytes.
	if len(password) > 72 {
		return "", invalid("invalid_password", "password must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apierr.Internal(fmt.Errorf("hash password: %w", err))
	}
	return string(hash), nil
}
