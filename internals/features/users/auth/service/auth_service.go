package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"cashierku_backend/internals/features/users/auth/dto"
	authModel "cashierku_backend/internals/features/users/auth/model"
	authRepo "cashierku_backend/internals/features/users/auth/repository"
	helper "cashierku_backend/internals/helpers"
	helperAuth "cashierku_backend/internals/helpers/auth"
)

const accessTTLDefault = 12 * time.Hour

var errBadCredentials = fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")

type AuthService struct {
	DB     *gorm.DB
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = accessTTLDefault
	}
	return &AuthService{DB: db, Secret: secret, TTL: ttl, Now: time.Now}
}

// Login checks email + password and issues an access token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := authRepo.FindUserByEmail(ctx, s.DB, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// compare anyway so unknown emails take as long as wrong passwords
			_ = CheckPasswordHash(dummyHash, req.Password)
			return nil, errBadCredentials
		}
		return nil, err
	}
	if err := CheckPasswordHash(user.Password, req.Password); err != nil {
		return nil, errBadCredentials
	}
	if !user.IsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, "Account is disabled")
	}

	token, exp, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		User:        dto.FromUserModel(user),
	}, nil
}

// IssueToken signs an HS256 token carrying id, role and name.
func (s *AuthService) IssueToken(user *authModel.UserModel) (string, time.Time, error) {
	if strings.TrimSpace(s.Secret) == "" {
		return "", time.Time{}, fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET is not set")
	}
	now := s.Now()
	exp := now.Add(s.TTL)
	claims := jwt.MapClaims{
		"id":   user.ID.String(),
		"role": user.Role,
		"name": user.UserName,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NewNotFound("user", userID)
		}
		return nil, err
	}
	out := dto.FromUserModel(user)
	return &out, nil
}

// Logout revokes the presented access token until it expires.
func (s *AuthService) Logout(ctx context.Context, rawToken string, expiresAt time.Time) error {
	if expiresAt.IsZero() {
		expiresAt = s.Now().Add(s.TTL)
	}
	return helperAuth.Revoke(ctx, s.DB, rawToken, s.Secret, expiresAt)
}

func (s *AuthService) IsRevoked(ctx context.Context, rawToken string) (bool, error) {
	return helperAuth.IsRevoked(ctx, s.DB, rawToken, s.Secret)
}
