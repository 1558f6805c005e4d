package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/unimatch-go-api/internal/models"
	"github.com/noah-isme/unimatch-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func ptrUint(v uint) *uint {
	return &v
}

type fakeStudentRepo struct {
	students map[uint]models.Student
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id uint) (models.Student, error) {
	if student, ok := f.students[id]; ok {
		return student, nil
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

type fakeQualificationRepo struct {
	items  map[uint]models.Qualification
	nextID uint
}

func newFakeQualificationRepo() *fakeQualificationRepo {
	return &fakeQualificationRepo{items: map[uint]models.Qualification{}}
}

func (f *fakeQualificationRepo) List(_ context.Context, filter repository.QualificationFilter) ([]models.Qualification, error) {
	var results []models.Qualification
	for _, qualification := range f.items {
		if filter.StudentID != nil && qualification.StudentID != *filter.StudentID {
			continue
		}
		if filter.VerifiedOnly && !qualification.Verified {
			continue
		}
		if filter.Type != "" && string(qualification.Type) != filter.Type {
			continue
		}
		results = append(results, qualification)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (f *fakeQualificationRepo) GetByID(_ context.Context, id uint) (models.Qualification, error) {
	if qualification, ok := f.items[id]; ok {
		return qualification, nil
	}
	return models.Qualification{}, gorm.ErrRecordNotFound
}

func (f *fakeQualificationRepo) Create(_ context.Context, qualification *models.Qualification) error {
	f.nextID++
	qualification.ID = f.nextID
	qualification.CreatedAt = time.Now()
	f.items[qualification.ID] = *qualification
	return nil
}

func (f *fakeQualificationRepo) Update(_ context.Context, qualification *models.Qualification) error {
	if _, ok := f.items[qualification.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[qualification.ID] = *qualification
	return nil
}

func (f *fakeQualificationRepo) Delete(_ context.Context, id uint) error {
	delete(f.items, id)
	return nil
}

type fakeProgramRepo struct {
	items  map[uint]models.Program
	nextID uint
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{items: map[uint]models.Program{}}
}

func (f *fakeProgramRepo) List(_ context.Context, filter repository.ProgramFilter) ([]models.Program, int64, error) {
	catalog, _ := f.ListCatalog(context.Background())
	return catalog, int64(len(catalog)), nil
}

func (f *fakeProgramRepo) ListCatalog(_ context.Context) ([]models.Program, error) {
	var catalog []models.Program
	for _, program := range f.items {
		if program.Active {
			catalog = append(catalog, program)
		}
	}
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].ID < catalog[j].ID })
	return catalog, nil
}

func (f *fakeProgramRepo) GetByID(_ context.Context, id uint) (models.Program, error) {
	if program, ok := f.items[id]; ok {
		return program, nil
	}
	return models.Program{}, gorm.ErrRecordNotFound
}

func (f *fakeProgramRepo) Create(_ context.Context, program *models.Program) error {
	f.nextID++
	program.ID = f.nextID
	f.items[program.ID] = *program
	return nil
}

func (f *fakeProgramRepo) Update(_ context.Context, program *models.Program) error {
	if _, ok := f.items[program.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[program.ID] = *program
	return nil
}

func (f *fakeProgramRepo) Delete(_ context.Context, id uint) error {
	delete(f.items, id)
	return nil
}

type fakeRequirementRepo struct {
	items  map[uint]models.ProgramRequirement
	nextID uint
}

func newFakeRequirementRepo() *fakeRequirementRepo {
	return &fakeRequirementRepo{items: map[uint]models.ProgramRequirement{}}
}

func (f *fakeRequirementRepo) GetByID(_ context.Context, id uint) (models.ProgramRequirement, error) {
	if requirement, ok := f.items[id]; ok {
		return requirement, nil
	}
	return models.ProgramRequirement{}, gorm.ErrRecordNotFound
}

func (f *fakeRequirementRepo) Create(_ context.Context, requirement *models.ProgramRequirement) error {
	f.nextID++
	requirement.ID = f.nextID
	f.items[requirement.ID] = *requirement
	return nil
}

func (f *fakeRequirementRepo) Update(_ context.Context, requirement *models.ProgramRequirement) error {
	if _, ok := f.items[requirement.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[requirement.ID] = *requirement
	return nil
}

func (f *fakeRequirementRepo) Delete(_ context.Context, id uint) error {
	delete(f.items, id)
	return nil
}

type fakeApplicationRepo struct {
	items  map[uint]models.Application
	nextID uint
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{items: map[uint]models.Application{}}
}

func (f *fakeApplicationRepo) List(_ context.Context, filter repository.ApplicationFilter) ([]models.Application, error) {
	var results []models.Application
	for _, application := range f.items {
		if filter.StudentID != nil && application.StudentID != *filter.StudentID {
			continue
		}
		if filter.ProgramID != nil && application.ProgramID != *filter.ProgramID {
			continue
		}
		if filter.Status != "" && application.Status != filter.Status {
			continue
		}
		results = append(results, application)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (f *fakeApplicationRepo) GetByID(_ context.Context, id uint) (models.Application, error) {
	if application, ok := f.items[id]; ok {
		return application, nil
	}
	return models.Application{}, gorm.ErrRecordNotFound
}

func (f *fakeApplicationRepo) FindByStudentAndProgram(_ context.Context, studentID, programID uint) (models.Application, error) {
	for _, application := range f.items {
		if application.StudentID == studentID && application.ProgramID == programID {
			return application, nil
		}
	}
	return models.Application{}, gorm.ErrRecordNotFound
}

func (f *fakeApplicationRepo) Create(_ context.Context, application *models.Application) error {
	f.nextID++
	application.ID = f.nextID
	application.CreatedAt = time.Now()
	f.items[application.ID] = *application
	return nil
}

func (f *fakeApplicationRepo) Update(_ context.Context, application *models.Application) error {
	if _, ok := f.items[application.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[application.ID] = *application
	return nil
}

type memoryActivityRepo struct {
	entries []models.ActivityLog
}

func (m *memoryActivityRepo) Create(_ context.Context, entry *models.ActivityLog) error {
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(_ context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	return append([]models.ActivityLog(nil), m.entries...), int64(len(m.entries)), nil
}

type fakeEventBus struct {
	published []Event
	handlers  []func(Event)
}

func (f *fakeEventBus) Publish(_ context.Context, event Event) error {
	f.published = append(f.published, event)
	for _, handler := range f.handlers {
		handler(event)
	}
	return nil
}

func (f *fakeEventBus) Subscribe(handler func(Event)) {
	f.handlers = append(f.handlers, handler)
}

func (f *fakeEventBus) Start(context.Context) {}
