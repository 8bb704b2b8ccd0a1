package repositories

import (
	"errors"

	"itad_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrJobAlreadyExists = errors.New("job already exists for this quote")
)

type JobRepository interface {
	// CreateJob inserts a job. The quote reference carries a unique
	// index; a second insert for the same quote returns
	// ErrJobAlreadyExists instead of creating a duplicate.
	CreateJob(job *models.Job) error
	FindJobByID(id string) (*models.Job, error)
	FindJobByQuoteID(quoteID string) (*models.Job, error)
	UpdateJob(id string, updates map[string]interface{}) error

	// TransitionStatus performs a conditional status write, see
	// RequestRepository.TransitionStatus.
	TransitionStatus(id string, from []string, updates map[string]interface{}) (bool, error)

	FindCompanyJobs(companyID string, page, pageSize int) ([]models.Job, int64, error)
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) CreateJob(job *models.Job) error {
	err := r.db.Create(job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrJobAlreadyExists
		}
		return err
	}
	return nil
}

func (r *JobRepositoryImpl) FindJobByID(id string) (*models.Job, error) {
	var job models.Job
	err := r.db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindJobByQuoteID(quoteID string) (*models.Job, error) {
	var job models.Job
	err := r.db.First(&job, "quote_id = ?", quoteID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) UpdateJob(id string, updates map[string]interface{}) error {
	result := r.db.Model(&models.Job{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) TransitionStatus(id string, from []string, updates map[string]interface{}) (bool, error) {
	result := r.db.Model(&models.Job{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *JobRepositoryImpl) FindCompanyJobs(companyID string, page, pageSize int) ([]models.Job, int64, error) {
	var jobs []models.Job
	var total int64

	query := r.db.Model(&models.Job{}).Where("company_id = ?", companyID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}
