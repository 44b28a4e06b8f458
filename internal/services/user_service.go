package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"obmenBack/internal/models"
)

// UserRepo is satisfied by repositories.UserRepository.
type UserRepo interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, id int) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
}

// SessionRepo is satisfied by repositories.SessionStore.
type SessionRepo interface {
	SaveSession(ctx context.Context, session models.Session) error
	GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error)
	DeleteSession(ctx context.Context, refreshToken string) error
}

// RefreshTokenSource is satisfied by utils.Manager.
type RefreshTokenSource interface {
	NewRefreshToken() (string, error)
}

type UserService struct {
	UserRepo     UserRepo
	Sessions     SessionRepo
	TokenManager RefreshTokenSource
	SigningKey   string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

func (s *UserService) SignUp(ctx context.Context, user models.User) (models.User, error) {
	if strings.TrimSpace(user.Name) == "" {
		return models.User{}, fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if !strings.Contains(user.Email, "@") {
		return models.User{}, fmt.Errorf("%w: invalid email", models.ErrValidation)
	}
	if len(user.Password) < 6 {
		return models.User{}, fmt.Errorf("%w: password must be at least 6 characters", models.ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user.Password = string(hashedPassword)
	user.Role = "user"

	created, err := s.UserRepo.CreateUser(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	created.Password = ""
	return created, nil
}

func (s *UserService) SignIn(ctx context.Context, email, password string) (models.Tokens, error) {
	user, err := s.UserRepo.GetUserByEmail(ctx, email)
	if err != nil {
		log.Printf("User not found: %s", email)
		return models.Tokens{}, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("Invalid password for user: %s", email)
		return models.Tokens{}, models.ErrInvalidCredentials
	}

	accessToken, err := s.newAccessToken(user.ID, user.Role)
	if err != nil {
		return models.Tokens{}, err
	}

	return s.createSession(ctx, user, accessToken)
}

func (s *UserService) createSession(ctx context.Context, user models.User, accessToken string) (models.Tokens, error) {
	var (
		res models.Tokens
		err error
	)

	res.AccessToken = accessToken

	// uuid as a fallback when no token manager is wired
	res.RefreshToken = uuid.New().String()
	if s.TokenManager != nil {
		res.RefreshToken, err = s.TokenManager.NewRefreshToken()
		if err != nil {
			return res, err
		}
	}

	session := models.Session{
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    time.Now().Add(s.RefreshTTL),
	}
	if err := s.Sessions.SaveSession(ctx, session); err != nil {
		return models.Tokens{}, err
	}
	return res, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (models.Tokens, error) {
	session, err := s.Sessions.GetSessionByToken(ctx, refreshToken)
	if err != nil {
		return models.Tokens{}, err
	}
	if session.ExpiresAt.Before(time.Now()) {
		return models.Tokens{}, models.ErrSessionNotFound
	}

	accessToken, err := s.newAccessToken(session.UserID, session.Role)
	if err != nil {
		return models.Tokens{}, err
	}
	return models.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *UserService) LogOut(ctx context.Context, refreshToken string) error {
	return s.Sessions.DeleteSession(ctx, refreshToken)
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	user, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, actorID int, user models.User) (models.User, error) {
	if actorID == 0 {
		return models.User{}, models.ErrUnauthenticated
	}
	if actorID != user.ID {
		return models.User{}, models.ErrPermissionDenied
	}
	updated, err := s.UserRepo.UpdateUser(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	updated.Password = ""
	return updated, nil
}

func (s *UserService) newAccessToken(userID int, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		UserID: uint(userID),
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(s.AccessTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})
	return token.SignedString([]byte(s.SigningKey))
}
