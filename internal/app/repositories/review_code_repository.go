package repositories

import (
	"github.com/google/uuid"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"gorm.io/gorm"
)

type ReviewCodeRepository struct{}

func NewReviewCodeRepository() *ReviewCodeRepository {
	return &ReviewCodeRepository{}
}

// Create inserts the code. A duplicate code surfaces as gorm.ErrDuplicatedKey.
func (r *ReviewCodeRepository) Create(db *gorm.DB, code *models.ReviewCode) error {
	return db.Create(code).Error
}

func (r *ReviewCodeRepository) FindByCode(db *gorm.DB, code string) (*models.ReviewCode, error) {
	var reviewCode models.ReviewCode
	if err := db.Where("code = ?", code).First(&reviewCode).Error; err != nil {
		return nil, err
	}
	return &reviewCode, nil
}

func (r *ReviewCodeRepository) CountByBusiness(db *gorm.DB, businessID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&models.ReviewCode{}).Where("business_id = ?", businessID).Count(&count).Error
	return count, err
}
