package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/unimatch-go-api/internal/models"
)

// QualificationFilter narrows qualification listings.
type QualificationFilter struct {
	StudentID    *uint
	Type         string
	VerifiedOnly bool
}

// QualificationRepository provides access to qualification records.
type QualificationRepository interface {
	List(ctx context.Context, filter QualificationFilter) ([]models.Qualification, error)
	GetByID(ctx context.Context, id uint) (models.Qualification, error)
	Create(ctx context.Context, qualification *models.Qualification) error
	Update(ctx context.Context, qualification *models.Qualification) error
	Delete(ctx context.Context, id uint) error
}

type qualificationRepository struct {
	db *gorm.DB
}

// NewQualificationRepository constructs a qualification repository.
func NewQualificationRepository(db *gorm.DB) QualificationRepository {
	return &qualificationRepository{db: db}
}

func (r *qualificationRepository) List(ctx context.Context, filter QualificationFilter) ([]models.Qualification, error) {
	query := r.db.WithContext(ctx).Model(&models.Qualification{})

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.VerifiedOnly {
		query = query.Where("verified = ?", true)
	}

	var qualifications []models.Qualification
	if err := query.Order("id asc").Find(&qualifications).Error; err != nil {
		return nil, err
	}

	return qualifications, nil
}

func (r *qualificationRepository) GetByID(ctx context.Context, id uint) (models.Qualification, error) {
	var qualification models.Qualification
	if err := r.db.WithContext(ctx).First(&qualification, id).Error; err != nil {
		return models.Qualification{}, err
	}

	return qualification, nil
}

func (r *qualificationRepository) Create(ctx context.Context, qualification *models.Qualification) error {
	return r.db.WithContext(ctx).Create(qualification).Error
}

func (r *qualificationRepository) Update(ctx context.Context, qualification *models.Qualification) error {
	return r.db.WithContext(ctx).Save(qualification).Error
}

func (r *qualificationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Qualification{}, id).Error
}
