package services

import (
	"itad_backend/internal/auth"
	"itad_backend/internal/models"
	"itad_backend/internal/repositories"
	"itad_backend/pkg/apperrors"
)

type AuthService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, apperrors.NewForbiddenError("Account is deactivated")
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return "", nil, apperrors.InternalError(err)
	}
	return token, user, nil
}
