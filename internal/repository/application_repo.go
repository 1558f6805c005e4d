package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/unimatch-go-api/internal/models"
)

// ApplicationFilter narrows application listings.
type ApplicationFilter struct {
	StudentID *uint
	ProgramID *uint
	Status    string
}

// ApplicationRepository provides access to application records.
type ApplicationRepository interface {
	List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error)
	GetByID(ctx context.Context, id uint) (models.Application, error)
	FindByStudentAndProgram(ctx context.Context, studentID, programID uint) (models.Application, error)
	Create(ctx context.Context, application *models.Application) error
	Update(ctx context.Context, application *models.Application) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository constructs an application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error) {
	query := r.db.WithContext(ctx).Model(&models.Application{}).Preload("Program")

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.ProgramID != nil {
		query = query.Where("program_id = ?", *filter.ProgramID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var applications []models.Application
	if err := query.Order("id desc").Find(&applications).Error; err != nil {
		return nil, err
	}

	return applications, nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).Preload("Program").First(&application, id).Error; err != nil {
		return models.Application{}, err
	}

	return application, nil
}

func (r *applicationRepository) FindByStudentAndProgram(ctx context.Context, studentID, programID uint) (models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND program_id = ?", studentID, programID).
		First(&application).Error
	if err != nil {
		return models.Application{}, err
	}

	return application, nil
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) Update(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Save(application).Error
}
