package services

import (
	"itad_backend/internal/models"
	"itad_backend/internal/repositories"
)

// repoRecipientResolver backs RecipientResolver with the user store.
type repoRecipientResolver struct {
	userRepo repositories.UserRepository
}

func NewRecipientResolver(userRepo repositories.UserRepository) RecipientResolver {
	return &repoRecipientResolver{userRepo: userRepo}
}

func (r *repoRecipientResolver) ResolveRecipient(userID string) (*models.User, error) {
	return r.userRepo.FindByID(userID)
}

func (r *repoRecipientResolver) ResolveStaffRecipients() ([]models.User, error) {
	return r.userRepo.FindStaffUsers()
}

func (r *repoRecipientResolver) ResolveCompanyRecipients(companyID string) ([]models.User, error) {
	return r.userRepo.FindCompanyUsers(companyID)
}
