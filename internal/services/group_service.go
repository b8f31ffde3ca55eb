package services

import (
	"context"
	"errors"
	"strings"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
	"github.com/kelvinjchung/LittleLemon-api/internal/repository"
)

// GroupService manages membership of the manager and delivery-crew groups.
type GroupService struct {
	users repository.UserRepository
}

func NewGroupService(users repository.UserRepository) *GroupService {
	return &GroupService{users: users}
}

func resolveGroup(group string) (models.Role, error) {
	role, ok := models.RoleForGroup(group)
	if !ok {
		return "", notFoundError("Invalid Group")
	}
	return role, nil
}

func (s *GroupService) Members(ctx context.Context, group string) ([]models.User, error) {
	role, err := resolveGroup(group)
	if err != nil {
		return nil, err
	}
	return s.users.ListByRole(ctx, role)
}

func (s *GroupService) Add(ctx context.Context, group, username string) (*models.User, error) {
	role, err := resolveGroup(group)
	if err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationError("Must provide username")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError(msgUserNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := s.users.AddRole(ctx, user.ID, role); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *GroupService) Remove(ctx context.Context, group string, userID uint) error {
	role, err := resolveGroup(group)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundError(msgUserNotFound)
	}
	if err != nil {
		return err
	}

	if !user.HasRole(role) {
		return validationError("User is not a " + string(role))
	}
	err = s.users.RemoveRole(ctx, user.ID, role)
	if errors.Is(err, repository.ErrNotFound) {
		return validationError("User is not a " + string(role))
	}
	return err
}
