package repositories

import (
	"errors"

	"itad_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrCompanyNotFound = errors.New("company not found")
)

type UserRepository interface {
	CreateUser(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)

	// FindStaffUsers resolves the broadcast recipient set: every
	// active internal operator. Privileged cross-tenant lookup, only
	// the notification dispatcher should need it.
	FindStaffUsers() ([]models.User, error)

	// FindCompanyUsers resolves all active users of one company.
	FindCompanyUsers(companyID string) ([]models.User, error)

	CreateCompany(company *models.Company) error
	FindCompanyByID(id string) (*models.Company, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindStaffUsers() ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role = ? AND is_active = ?", models.UserRoleStaff, true).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) FindCompanyUsers(companyID string) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("company_id = ? AND is_active = ?", companyID, true).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) CreateCompany(company *models.Company) error {
	return r.db.Create(company).Error
}

func (r *UserRepositoryImpl) FindCompanyByID(id string) (*models.Company, error) {
	var company models.Company
	err := r.db.First(&company, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}
