package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foamwash/foamwash-backend/pkg/config"
	"github.com/foamwash/foamwash-backend/pkg/db"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	pkgerrors "github.com/foamwash/foamwash-backend/pkg/errors"
	"github.com/foamwash/foamwash-backend/pkg/pagination"
	"github.com/foamwash/foamwash-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service covers the admin-facing account operations.
type Service interface {
	CreateStaff(ctx context.Context, req CreateStaffRequest) (*UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, req ListRequest) (*ListResult, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
}

// NewService wires the users service.
func NewService(repo *Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

// CreateStaffRequest is the admin payload for provisioning staff accounts.
type CreateStaffRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"required,oneof=admin employee"`
}

// ListRequest filters the account listing.
type ListRequest struct {
	Role   string
	Limit  int
	Cursor string
}

// ListResult wraps a page of accounts and the next-page cursor.
type ListResult struct {
	Items  []UserDTO `json:"items"`
	Cursor string    `json:"cursor"`
}

func (s *service) CreateStaff(ctx context.Context, req CreateStaffRequest) (*UserDTO, error) {
	role, err := enums.ParseMemberRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if err != nil || role == enums.MemberRoleClient {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be admin or employee")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	dto := FromModel(user)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	dto := FromModel(user)
	return &dto, nil
}

func (s *service) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	query := listUsersParams{Limit: req.Limit}
	if strings.TrimSpace(req.Role) != "" {
		role, err := enums.ParseMemberRole(strings.ToLower(strings.TrimSpace(req.Role)))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role filter")
		}
		query.Role = &role
	}
	if req.Cursor != "" {
		cursor, err := pagination.ParseCursor(req.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	result := &ListResult{Items: make([]UserDTO, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, FromModel(&rows[i]))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	changed, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	if changed == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}
