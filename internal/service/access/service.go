// Package access implements the shared-password role gate. Two passwords,
// two roles, no per-user accounts.
package access

import (
	"context"
	"time"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/config"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
	"github.com/sergiokmpos/PersonalTrainerAgenda/pkg/auth"
	apperrors "github.com/sergiokmpos/PersonalTrainerAgenda/pkg/errors"
	"github.com/sergiokmpos/PersonalTrainerAgenda/pkg/security"
	"github.com/sergiokmpos/PersonalTrainerAgenda/pkg/validator"
)

type Service struct {
	access   config.AccessConfig
	hasher   security.PasswordHasher
	jwtSvc   auth.JWTService
	expiry   time.Duration
	validate validator.Validator
}

func NewService(access config.AccessConfig, hasher security.PasswordHasher,
	jwtSvc auth.JWTService, expiry time.Duration) *Service {
	return &Service{
		access:   access,
		hasher:   hasher,
		jwtSvc:   jwtSvc,
		expiry:   expiry,
		validate: validator.New(),
	}
}

// Login compares the submitted password against the bcrypt hash for the
// requested role and issues a role token on success.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	role := model.Role(req.Role)
	var hash string
	switch role {
	case model.RoleStudent:
		hash = s.access.StudentPasswordHash
	case model.RoleStaff:
		hash = s.access.StaffPasswordHash
	}

	if err := s.hasher.Compare(hash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	token, err := s.jwtSvc.GenerateToken(string(role))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.TokenResponse{
		Token:     token,
		Role:      role,
		ExpiresAt: time.Now().Add(s.expiry),
	}, nil
}
