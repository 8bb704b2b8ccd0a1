package repositories

import (
	"errors"

	"itad_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRequestNotFound = errors.New("request not found")

type RequestRepository interface {
	CreateRequest(request *models.Request) error
	FindRequestByID(id string) (*models.Request, error)
	UpdateRequest(id string, updates map[string]interface{}) error

	// TransitionStatus performs a conditional status write: the update
	// applies only if the row's current status is one of from. Returns
	// false when the row was not in any of those states, so concurrent
	// duplicate transitions fail closed.
	TransitionStatus(id string, from []string, updates map[string]interface{}) (bool, error)

	FindCompanyRequests(companyID string, page, pageSize int) ([]models.Request, int64, error)
}

type RequestRepositoryImpl struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &RequestRepositoryImpl{db: db}
}

func (r *RequestRepositoryImpl) CreateRequest(request *models.Request) error {
	return r.db.Create(request).Error
}

func (r *RequestRepositoryImpl) FindRequestByID(id string) (*models.Request, error) {
	var request models.Request
	err := r.db.First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepositoryImpl) UpdateRequest(id string, updates map[string]interface{}) error {
	result := r.db.Model(&models.Request{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepositoryImpl) TransitionStatus(id string, from []string, updates map[string]interface{}) (bool, error) {
	result := r.db.Model(&models.Request{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *RequestRepositoryImpl) FindCompanyRequests(companyID string, page, pageSize int) ([]models.Request, int64, error) {
	var requests []models.Request
	var total int64

	query := r.db.Model(&models.Request{}).Where("company_id = ?", companyID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}
