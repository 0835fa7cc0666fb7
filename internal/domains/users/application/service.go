package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Apurer/backoffice-api/internal/domains/users/domain"
	"github.com/Apurer/backoffice-api/internal/domains/users/ports"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
	"github.com/Apurer/backoffice-api/internal/shared/uow"
)

// Service exposes user bounded context use cases.
type Service struct {
	uow uow.UnitOfWork
	now func() time.Time
}

func NewService(unitOfWork uow.UnitOfWork) *Service {
	return &Service{uow: unitOfWork, now: time.Now}
}

func (s *Service) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	created, err := s.CreateUsers(ctx, []*domain.User{user})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// CreateUsers stores the batch in one transaction; one invalid user rejects all of them.
func (s *Service) CreateUsers(ctx context.Context, users []*domain.User) ([]*domain.User, error) {
	for _, u := range users {
		if u == nil {
			return nil, fmt.Errorf("%w: user is nil", apperr.ErrInvalidInput)
		}
		if err := u.Validate(); err != nil {
			return nil, mapError(err)
		}
	}
	var saved []*domain.User
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		saved = make([]*domain.User, 0, len(users))
		for _, u := range users {
			if _, err := tx.Users().GetByEmail(ctx, u.Email); err == nil {
				return ports.ErrDuplicateEmail
			} else if !errors.Is(err, ports.ErrNotFound) {
				return err
			}
			if u.CreatedAt.IsZero() {
				u.CreatedAt = s.now().UTC()
			}
			persisted, err := tx.Users().Create(ctx, u)
			if err != nil {
				return err
			}
			saved = append(saved, persisted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user *domain.User
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		user, err = tx.Users().Get(ctx, id)
		return err
	})
	return user, err
}

func (s *Service) List(ctx context.Context, page repository.Page) ([]*domain.User, error) {
	var users []*domain.User
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		users, err = tx.Users().List(ctx, page.Normalize(repository.DefaultLimit))
		return err
	})
	return users, err
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		return tx.Users().Delete(ctx, id)
	})
}

// Identify resolves an authenticated user ID to the caller identity used by the core.
func (s *Service) Identify(ctx context.Context, id int64) (domain.Caller, error) {
	if id <= 0 {
		return domain.Caller{}, fmt.Errorf("%w: missing caller identity", apperr.ErrAuthorization)
	}
	user, err := s.GetByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.Caller{}, fmt.Errorf("%w: unknown caller %d", apperr.ErrAuthorization, id)
	}
	if err != nil {
		return domain.Caller{}, err
	}
	return user.Caller(), nil
}

var _ ports.Service = (*Service)(nil)
