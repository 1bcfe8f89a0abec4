package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pivotpath/pivot-api/internal/models"
)

type MatchRecordRepository interface {
	Create(record *models.MatchRecord) error
	FindByID(id uuid.UUID) (*models.MatchRecord, error)
	FindRecent(limit int) ([]models.MatchRecord, error)
}

type matchRecordRepository struct {
	db *gorm.DB
}

func NewMatchRecordRepository(db *gorm.DB) MatchRecordRepository {
	return &matchRecordRepository{db: db}
}

// Create implements MatchRecordRepository.
func (r *matchRecordRepository) Create(record *models.MatchRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create match record: %w", err)
	}

	return nil
}

// FindByID implements MatchRecordRepository.
func (r *matchRecordRepository) FindByID(id uuid.UUID) (*models.MatchRecord, error) {
	var record models.MatchRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("match record not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find match record: %w", err)
	}

	return &record, nil
}

// FindRecent implements MatchRecordRepository.
func (r *matchRecordRepository) FindRecent(limit int) ([]models.MatchRecord, error) {
	var records []models.MatchRecord
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find match records: %w", err)
	}

	return records, nil
}
