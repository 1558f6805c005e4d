package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/unimatch-go-api/internal/models"
)

// ProgramFilter narrows catalog listings.
type ProgramFilter struct {
	Page         int
	PageSize     int
	UniversityID *uint
	DepartmentID *uint
	Degree       string
	Search       string
	ActiveOnly   bool
}

// ProgramRepository provides access to the program catalog. Listings
// preload requirements, department and university so callers can evaluate
// and present programs without further queries.
type ProgramRepository interface {
	List(ctx context.Context, filter ProgramFilter) ([]models.Program, int64, error)
	ListCatalog(ctx context.Context) ([]models.Program, error)
	GetByID(ctx context.Context, id uint) (models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id uint) error
}

type programRepository struct {
	db *gorm.DB
}

// NewProgramRepository constructs a program repository.
func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Requirements", func(db *gorm.DB) *gorm.DB { return db.Order("program_requirements.id asc") }).
		Preload("Department").
		Preload("Department.University")
}

func (r *programRepository) List(ctx context.Context, filter ProgramFilter) ([]models.Program, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Program{})

	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.UniversityID != nil {
		query = query.Joins("JOIN departments ON departments.id = programs.department_id").
			Where("departments.university_id = ?", *filter.UniversityID)
	}
	if filter.Degree != "" {
		query = query.Where("degree = ?", filter.Degree)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(programs.name) LIKE ?", pattern)
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

	var programs []models.Program
	err := query.
		Preload("Requirements", func(db *gorm.DB) *gorm.DB { return db.Order("program_requirements.id asc") }).
		Preload("Department").
		Preload("Department.University").
		Order("programs.id asc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&programs).Error
	if err != nil {
		return nil, 0, err
	}

	return programs, total, nil
}

// ListCatalog returns every active program with requirements preloaded, in
// stable id order. This is the evaluation input for match ranking.
func (r *programRepository) ListCatalog(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	err := r.preloaded(ctx).
		Where("active = ?", true).
		Order("programs.id asc").
		Find(&programs).Error
	if err != nil {
		return nil, err
	}

	return programs, nil
}

func (r *programRepository) GetByID(ctx context.Context, id uint) (models.Program, error) {
	var program models.Program
	if err := r.preloaded(ctx).First(&program, id).Error; err != nil {
		return models.Program{}, err
	}

	return program, nil
}

func (r *programRepository) Create(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *programRepository) Update(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Save(program).Error
}

func (r *programRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select("Requirements").Delete(&models.Program{ID: id}).Error
}
