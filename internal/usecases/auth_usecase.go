package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/repository"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// bcrypt rejects longer input; the max tag only counts runes.
const maxPasswordBytes = 72

type credentials struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type AuthUsecase struct {
	users     repository.UserRepo
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthUsecase(users repository.UserRepo, secret string, tokenTTL time.Duration) *AuthUsecase {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthUsecase{
		users:     users,
		jwtSecret: []byte(secret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Register creates a login with its own tenant.
func (uc *AuthUsecase) Register(ctx context.Context, email, password string) (*entities.Identity, error) {
	return uc.createAccount(ctx, email, password, entities.RoleUser)
}

func (uc *AuthUsecase) createAccount(ctx context.Context, email, password, role string) (*entities.Identity, error) {
	creds := credentials{Email: strings.ToLower(strings.TrimSpace(email)), Password: password}
	if err := validateStruct(creds); err != nil {
		return nil, err
	}
	if len(creds.Password) > maxPasswordBytes {
		return nil, apperrors.Validation("password must be at most %d bytes", maxPasswordBytes)
	}

	_, err := uc.users.FindByEmail(ctx, creds.Email)
	switch {
	case err == nil:
		return nil, apperrors.New(apperrors.ErrDuplicate, "Email already registered")
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entities.User{Email: creds.Email, PasswordHash: string(hashed), Role: role}
	client := &entities.Client{Name: &creds.Email}
	profile := &entities.Profile{Email: &creds.Email}
	if err := uc.users.CreateAccount(ctx, user, client, profile); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.New(apperrors.ErrDuplicate, "Email already registered")
		}
		return nil, err
	}

	logger.FromContext(ctx).Info("Account created",
		zap.String("user_id", user.ID),
		zap.String("client_id", client.ID),
		zap.String("role", role),
	)
	return &entities.Identity{UserID: user.ID, Email: user.Email, Role: role, ClientID: client.ID}, nil
}

// Login checks credentials and issues an HS256 token.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (string, *entities.User, error) {
	invalid := apperrors.New(apperrors.ErrUnauthorized, "Invalid credentials")

	user, err := uc.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", nil, invalid
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, invalid
	}

	token, err := uc.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (uc *AuthUsecase) IssueToken(user *entities.User) (string, error) {
	now := uc.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.tokenTTL)),
		},
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ParseToken verifies signature and expiry.
func (uc *AuthUsecase) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return uc.jwtSecret, nil
	}, jwt.WithTimeFunc(uc.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, apperrors.New(apperrors.ErrUnauthorized, "Invalid token")
	}
	return claims, nil
}

// EnsureAdmin creates the configured admin login if it does not exist.
func (uc *AuthUsecase) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := uc.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	_, err = uc.createAccount(ctx, email, password, entities.RoleAdmin)
	return err
}

// ClientIDForUser resolves the tenant of a user through its profile.
func (uc *AuthUsecase) ClientIDForUser(ctx context.Context, userID string) (string, error) {
	profile, err := uc.users.FindProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	return profile.ClientID, nil
}

// Me describes the caller. A user without a profile has no client_id.
func (uc *AuthUsecase) Me(ctx context.Context, userID string) (*entities.Identity, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	identity := &entities.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
	clientID, err := uc.ClientIDForUser(ctx, userID)
	switch {
	case err == nil:
		identity.ClientID = clientID
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}
	return identity, nil
}
