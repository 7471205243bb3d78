package service

import (
	"context"
	"fmt"
	"time"

	"github.com/staywell/staywell-server/internal/domain"
	"github.com/staywell/staywell-server/internal/repo/postgres"
	"github.com/staywell/staywell-server/internal/utils"
	"github.com/staywell/staywell-server/pkg/events"
	"github.com/staywell/staywell-server/pkg/logger"
)

type UserService interface {
	Get(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Upsert(ctx context.Context, req *domain.UserUpsertReq) (*domain.User, error)
	UpdateProfile(ctx context.Context, email string, req *domain.UserUpdateReq) (*domain.User, error)
}

type userService struct {
	users    postgres.UserRepo
	eventBus events.Publisher
}

func NewUserService(users postgres.UserRepo, eventBus events.Publisher) UserService {
	return &userService{users: users, eventBus: eventBus}
}

func (s *userService) Get(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Upsert implements the lenient sign-in write: a new identity is inserted
// with the guest role and registered_at stamped once. An existing identity
// is only touched when it asks for the host role (status "Requested");
// otherwise the stored record is returned unchanged. Profile updates go
// through UpdateProfile instead.
func (s *userService) Upsert(ctx context.Context, req *domain.UserUpsertReq) (*domain.User, error) {
	req.Email = utils.NormalizeEmail(req.Email)
	if !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	if existing != nil {
		if req.Status != domain.StatusRequested {
			return existing, nil
		}

		updated, err := s.users.UpdateStatus(ctx, req.Email, domain.StatusRequested)
		if err != nil {
			return nil, fmt.Errorf("failed to record host request: %w", err)
		}

		event := events.UserRoleRequestedEvent{Email: req.Email, RequestedAt: time.Now()}
		if err := s.eventBus.Publish(ctx, events.UserRoleRequested, event); err != nil {
			logger.ErrorContext(ctx, "Failed to publish role requested event", "error", err, "email", req.Email)
		}
		return updated, nil
	}

	user, err := s.users.Insert(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial update and stamps updated_at. A role in
// the patch must name a known role; admins use this path to approve host
// requests.
func (s *userService) UpdateProfile(ctx context.Context, email string, req *domain.UserUpdateReq) (*domain.User, error) {
	email = utils.NormalizeEmail(email)

	if req.Role != nil {
		if _, ok := domain.ParseRole(*req.Role); !ok {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, *req.Role)
		}
	}

	user, err := s.users.UpdateProfile(ctx, email, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update identity: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	if req.Role != nil {
		event := events.UserRoleChangedEvent{Email: email, Role: *req.Role, ChangedAt: time.Now()}
		if err := s.eventBus.Publish(ctx, events.UserRoleChanged, event); err != nil {
			logger.ErrorContext(ctx, "Failed to publish role changed event", "error", err, "email", email)
		}
	}

	return user, nil
}
