package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/unimatch-go-api/internal/models"
)

// RequirementRepository provides access to program requirement records.
type RequirementRepository interface {
	GetByID(ctx context.Context, id uint) (models.ProgramRequirement, error)
	Create(ctx context.Context, requirement *models.ProgramRequirement) error
	Update(ctx context.Context, requirement *models.ProgramRequirement) error
	Delete(ctx context.Context, id uint) error
}

type requirementRepository struct {
	db *gorm.DB
}

// NewRequirementRepository constructs a requirement repository.
func NewRequirementRepository(db *gorm.DB) RequirementRepository {
	return &requirementRepository{db: db}
}

func (r *requirementRepository) GetByID(ctx context.Context, id uint) (models.ProgramRequirement, error) {
	var requirement models.ProgramRequirement
	if err := r.db.WithContext(ctx).First(&requirement, id).Error; err != nil {
		return models.ProgramRequirement{}, err
	}

	return requirement, nil
}

func (r *requirementRepository) Create(ctx context.Context, requirement *models.ProgramRequirement) error {
	return r.db.WithContext(ctx).Create(requirement).Error
}

func (r *requirementRepository) Update(ctx context.Context, requirement *models.ProgramRequirement) error {
	return r.db.WithContext(ctx).Save(requirement).Error
}

func (r *requirementRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ProgramRequirement{}, id).Error
}
