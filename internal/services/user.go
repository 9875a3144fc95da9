package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userrepo "github.com/yungbote/datahub-backend/internal/data/repos/user"
	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
)

// UserCreate is the admin/open-registration input.
type UserCreate struct {
	Email        string
	Password     string
	Organization string
	IsActive     *bool
	IsSuperuser  bool
}

// UserUpdate carries only the fields the caller wants changed.
type UserUpdate struct {
	Email        *string
	Password     *string
	Organization *string
	IsActive     *bool
	IsSuperuser  *bool
}

type UserService interface {
	List(ctx context.Context, skip, limit int) ([]*domain.User, error)
	Create(ctx context.Context, in UserCreate) (*domain.User, error)
	CreateOpen(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, principal *domain.User, userID uuid.UUID) (*domain.User, error)
	UpdateMe(ctx context.Context, principal *domain.User, in UserUpdate) (*domain.User, error)
	Update(ctx context.Context, userID uuid.UUID, in UserUpdate) (*domain.User, error)
	EnsureFirstSuperuser(ctx context.Context, email, password string) error
}

type userService struct {
	log              *logger.Logger
	userRepo         userrepo.UserRepo
	openRegistration bool
}

func NewUserService(baseLog *logger.Logger, userRepo userrepo.UserRepo, openRegistration bool) UserService {
	serviceLog := baseLog.With("service", "UserService")
	return &userService{log: serviceLog, userRepo: userRepo, openRegistration: openRegistration}
}

func (us *userService) List(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	users, err := us.userRepo.List(ctx, nil, skip, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to list users", err)
	}
	return users, nil
}

func (us *userService) Create(ctx context.Context, in UserCreate) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	exists, err := us.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to check email uniqueness", err)
	}
	if exists {
		return nil, apperr.Conflict("the user with this username already exists in the system")
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:          email,
		Organization:   in.Organization,
		HashedPassword: hashed,
		IsActive:       true,
		IsSuperuser:    in.IsSuperuser,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	created, err := us.userRepo.Create(ctx, nil, user)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to create user", err)
	}
	us.log.Info("Created user", "user_id", created.ID, "is_superuser", created.IsSuperuser)
	return created, nil
}

func (us *userService) CreateOpen(ctx context.Context, email, password string) (*domain.User, error) {
	if !us.openRegistration {
		return nil, apperr.Forbidden("open user registration is forbidden on this server")
	}
	return us.Create(ctx, UserCreate{Email: email, Password: password})
}

// GetByID returns any user to a superuser; everyone else can only look up
// themselves.
func (us *userService) GetByID(ctx context.Context, principal *domain.User, userID uuid.UUID) (*domain.User, error) {
	if userID == principal.ID {
		return principal, nil
	}
	if !principal.IsSuperuser {
		return nil, apperr.Validation("the user doesn't have enough privileges")
	}
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no user found with the id provided")
		}
		return nil, apperr.Wrap(apperr.KindBackend, "failed to load user", err)
	}
	return user, nil
}

func (us *userService) UpdateMe(ctx context.Context, principal *domain.User, in UserUpdate) (*domain.User, error) {
	// Self-service cannot change activation or privileges.
	in.IsActive = nil
	in.IsSuperuser = nil
	return us.Update(ctx, principal.ID, in)
}

func (us *userService) Update(ctx context.Context, userID uuid.UUID, in UserUpdate) (*domain.User, error) {
	fields := map[string]any{}
	if in.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Password != nil {
		hashed, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		fields["hashed_password"] = hashed
	}
	if in.Organization != nil {
		fields["organization"] = *in.Organization
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if in.IsSuperuser != nil {
		fields["is_superuser"] = *in.IsSuperuser
	}
	if len(fields) > 0 {
		if err := us.userRepo.Update(ctx, nil, userID, fields); err != nil {
			return nil, apperr.Wrap(apperr.KindBackend, "failed to update user", err)
		}
	}
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no user found with the id provided")
		}
		return nil, apperr.Wrap(apperr.KindBackend, "failed to load user", err)
	}
	return user, nil
}

// EnsureFirstSuperuser seeds the bootstrap admin account on startup when it
// does not exist yet. A blank email disables seeding.
func (us *userService) EnsureFirstSuperuser(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	exists, err := us.userRepo.EmailExists(ctx, nil, strings.ToLower(email))
	if err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to check first superuser", err)
	}
	if exists {
		return nil
	}
	_, err = us.Create(ctx, UserCreate{Email: email, Password: password, IsSuperuser: true})
	if err != nil {
		return err
	}
	us.log.Info("Seeded first superuser", "email", strings.ToLower(email))
	return nil
}
