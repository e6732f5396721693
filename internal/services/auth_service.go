package services

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Matuku45/shuttle-booking-system/internal/config"
	"github.com/Matuku45/shuttle-booking-system/internal/domain"
	"github.com/Matuku45/shuttle-booking-system/internal/domain/models"
	"github.com/Matuku45/shuttle-booking-system/internal/repositories"
	"github.com/Matuku45/shuttle-booking-system/internal/utils"
)

// AuthService handles user accounts and the credential check. Passwords
// are stored as bcrypt hashes; the comparison never touches raw secrets.
type AuthService struct {
	UserRepo  repositories.UserRepository
	RequestID string
	DB        *sql.DB
}

func (s AuthService) users() repositories.UserRepository {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepository{DB: s.DB}
}

func (s AuthService) List(ctx context.Context) ([]models.User, error) {
	return s.users().List(ctx)
}

func (s AuthService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.users().GetByID(ctx, id)
}

func (s AuthService) Register(ctx context.Context, name, email, password, role string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return models.User{}, domain.ValidationError{Msg: "name, email, and password are required"}
	}
	if role == "" {
		role = models.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}

	created, err := s.users().Create(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return models.User{}, err
	}
	utils.LogEvent(s.RequestID, "auth", "register", "id="+strconv.FormatInt(created.ID, 10))
	return created, nil
}

// UpdateUser hashes a replacement password before it reaches the store.
func (s AuthService) UpdateUser(ctx context.Context, id int64, p models.UserPatch) (models.User, error) {
	if p.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*p.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, domain.InternalError{Msg: "failed to hash password", Err: err}
		}
		hashed := string(hash)
		p.Password = &hashed
	}
	return s.users().Update(ctx, id, p)
}

func (s AuthService) DeleteUser(ctx context.Context, id int64) error {
	return s.users().Delete(ctx, id)
}

// Authenticate checks email, claimed role, then the bcrypt hash, in that
// order. The distinct "User not found" message mirrors the historical API
// contract even though it leaks account existence.
func (s AuthService) Authenticate(ctx context.Context, email, password, role string) (models.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" || strings.TrimSpace(role) == "" {
		return models.User{}, "", domain.ValidationError{Msg: "all fields are required"}
	}

	user, err := s.users().GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.User{}, "", domain.AuthError{Msg: "User not found", Err: err}
		}
		return models.User{}, "", err
	}

	if !strings.EqualFold(user.Role, strings.TrimSpace(role)) {
		return models.User{}, "", domain.AuthError{Msg: "Role mismatch", Forbidden: true}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", domain.AuthError{Msg: "Invalid password", Err: err}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(config.JWTSecret())
	if err != nil {
		return models.User{}, "", domain.InternalError{Msg: "failed to sign token", Err: err}
	}

	utils.LogEvent(s.RequestID, "auth", "login", "id="+strconv.FormatInt(user.ID, 10))
	return user, signed, nil
}
