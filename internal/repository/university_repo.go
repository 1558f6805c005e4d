package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/unimatch-go-api/internal/models"
)

// UniversityFilter narrows university listings.
type UniversityFilter struct {
	Page     int
	PageSize int
	Country  string
	Search   string
}

// UniversityRepository provides access to universities and departments.
type UniversityRepository interface {
	List(ctx context.Context, filter UniversityFilter) ([]models.University, int64, error)
	GetByID(ctx context.Context, id uint) (models.University, error)
	Create(ctx context.Context, university *models.University) error
	Update(ctx context.Context, university *models.University) error
	Delete(ctx context.Context, id uint) error
	CreateDepartment(ctx context.Context, department *models.Department) error
	GetDepartment(ctx context.Context, id uint) (models.Department, error)
	DeleteDepartment(ctx context.Context, id uint) error
}

type universityRepository struct {
	db *gorm.DB
}

// NewUniversityRepository constructs a university repository.
func NewUniversityRepository(db *gorm.DB) UniversityRepository {
	return &universityRepository{db: db}
}

func (r *universityRepository) List(ctx context.Context, filter UniversityFilter) ([]models.University, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.University{})

	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	var universities []models.University
	err := query.
		Preload("Departments").
		Order("id asc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&universities).Error
	if err != nil {
		return nil, 0, err
	}

	return universities, total, nil
}

func (r *universityRepository) GetByID(ctx context.Context, id uint) (models.University, error) {
	var university models.University
	if err := r.db.WithContext(ctx).Preload("Departments").First(&university, id).Error; err != nil {
		return models.University{}, err
	}

	return university, nil
}

func (r *universityRepository) Create(ctx context.Context, university *models.University) error {
	return r.db.WithContext(ctx).Create(university).Error
}

func (r *universityRepository) Update(ctx context.Context, university *models.University) error {
	return r.db.WithContext(ctx).Save(university).Error
}

func (r *universityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select("Departments").Delete(&models.University{ID: id}).Error
}

func (r *universityRepository) CreateDepartment(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *universityRepository) GetDepartment(ctx context.Context, id uint) (models.Department, error) {
	var department models.Department
	if err := r.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return models.Department{}, err
	}

	return department, nil
}

func (r *universityRepository) DeleteDepartment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Department{}, id).Error
}
