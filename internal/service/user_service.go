package service

import (
	"context"

	"go-event-reservation/internal/model"
	"go-event-reservation/internal/repository"
)

type UserService interface {
	List(ctx context.Context) ([]*model.User, error)
	GetByID(ctx context.Context, id int) (*model.User, error)
	Create(ctx context.Context, user *model.User) (*model.User, error)
	Update(ctx context.Context, id int, params repository.UpdateUserParams) (*model.User, error)
	Delete(ctx context.Context, id int) error
}

type UserServiceImpl struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &UserServiceImpl{repo: repo}
}

func (s *UserServiceImpl) List(ctx context.Context) ([]*model.User, error) {
	return s.repo.List(ctx)
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserServiceImpl) Create(ctx context.Context, user *model.User) (*model.User, error) {
	return s.repo.Create(ctx, user)
}

func (s *UserServiceImpl) Update(ctx context.Context, id int, params repository.UpdateUserParams) (*model.User, error) {
	return s.repo.Update(ctx, id, params)
}

func (s *UserServiceImpl) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
