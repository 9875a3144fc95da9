package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userrepo "github.com/yungbote/datahub-backend/internal/data/repos/user"
	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	PrincipalFromToken(ctx context.Context, tokenString string) (*domain.User, error)
	AccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	userRepo     userrepo.UserRepo
	jwtSecretKey []byte
	accessTTL    time.Duration
}

func NewAuthService(baseLog *logger.Logger, userRepo userrepo.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	serviceLog := baseLog.With("service", "AuthService")
	return &authService{
		log:          serviceLog,
		userRepo:     userRepo,
		jwtSecretKey: []byte(jwtSecretKey),
		accessTTL:    accessTTL,
	}
}

// Login checks the credentials and returns a signed access token whose
// subject is the user id. Unknown email and wrong password are deliberately
// indistinguishable to the caller.
func (as *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.Unauthorized("incorrect email or password")
		}
		return "", apperr.Wrap(apperr.KindBackend, "failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", apperr.Unauthorized("incorrect email or password")
	}
	if !user.IsActive {
		return "", apperr.Validation("inactive user")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.jwtSecretKey)
	if err != nil {
		return "", apperr.Wrap(apperr.KindBackend, "failed to sign access token", err)
	}
	as.log.Info("Issued access token", "user_id", user.ID, "ttl", as.accessTTL)
	return signed, nil
}

// PrincipalFromToken validates the bearer token and loads the user it names.
// Any parse or signature failure collapses into a single Unauthorized error;
// a token naming a deleted user is NotFound, matching the lookup taxonomy.
func (as *authService) PrincipalFromToken(ctx context.Context, tokenString string) (*domain.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthorized("unexpected token signing method")
		}
		return as.jwtSecretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("could not validate credentials")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, apperr.Unauthorized("could not validate credentials")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.Unauthorized("could not validate credentials")
	}

	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Wrap(apperr.KindBackend, "failed to load user", err)
	}
	return user, nil
}

func (as *authService) AccessTTL() time.Duration {
	return as.accessTTL
}

// RequireActive gates routes that any signed-in, non-disabled user may call.
func RequireActive(user *domain.User) error {
	if !user.IsActive {
		return apperr.Validation("inactive user")
	}
	return nil
}

// RequireSuperuser gates admin-only routes.
func RequireSuperuser(user *domain.User) error {
	if !user.IsSuperuser {
		return apperr.Validation("the user doesn't have enough privileges")
	}
	return nil
}

// HashPassword produces the bcrypt hash stored on the user row.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Wrap(apperr.KindBackend, "failed to hash password", err)
	}
	return string(hashed), nil
}
