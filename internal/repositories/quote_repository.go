package repositories

import (
	"errors"

	"itad_backend/internal/models"

	"gorm.io/gorm"
)

var ErrQuoteNotFound = errors.New("quote not found")

type QuoteRepository interface {
	// CreateQuote inserts the quote together with its line items.
	CreateQuote(quote *models.Quote) error
	FindQuoteByID(id string) (*models.Quote, error)
	UpdateQuote(id string, updates map[string]interface{}) error

	// ReplaceLineItems deletes the quote's current line items and
	// inserts the new set in one transaction. Line items are replaced
	// wholesale on edit, never patched.
	ReplaceLineItems(quoteID string, items []models.QuoteLineItem) error

	// TransitionStatus performs a conditional status write, see
	// RequestRepository.TransitionStatus.
	TransitionStatus(id string, from []string, updates map[string]interface{}) (bool, error)

	// FindActiveQuoteByRequest returns the most recently created quote
	// for a request. A request has at most one active quote at a time.
	FindActiveQuoteByRequest(requestID string) (*models.Quote, error)
}

type QuoteRepositoryImpl struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &QuoteRepositoryImpl{db: db}
}

func (r *QuoteRepositoryImpl) CreateQuote(quote *models.Quote) error {
	return r.db.Create(quote).Error
}

func (r *QuoteRepositoryImpl) FindQuoteByID(id string) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.Preload("LineItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&quote, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepositoryImpl) UpdateQuote(id string, updates map[string]interface{}) error {
	result := r.db.Model(&models.Quote{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

func (r *QuoteRepositoryImpl) ReplaceLineItems(quoteID string, items []models.QuoteLineItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quoteID).Delete(&models.QuoteLineItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].QuoteID = quoteID
			items[i].Position = i
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *QuoteRepositoryImpl) TransitionStatus(id string, from []string, updates map[string]interface{}) (bool, error) {
	result := r.db.Model(&models.Quote{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *QuoteRepositoryImpl) FindActiveQuoteByRequest(requestID string) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.Preload("LineItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("request_id = ?", requestID).
		Order("created_at DESC").
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return &quote, nil
}
