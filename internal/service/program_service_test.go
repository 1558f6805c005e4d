package service

import (
	"context"
	"sort"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/unimatch-go-api/internal/dto"
	"github.com/noah-isme/unimatch-go-api/internal/models"
	"github.com/noah-isme/unimatch-go-api/internal/repository"
)

type fakeUniversityRepo struct {
	universities     map[uint]models.University
	departments      map[uint]models.Department
	nextUniversityID uint
	nextDepartmentID uint
}

func newFakeUniversityRepo() *fakeUniversityRepo {
	return &fakeUniversityRepo{
		universities: map[uint]models.University{},
		departments:  map[uint]models.Department{},
	}
}

func (f *fakeUniversityRepo) List(_ context.Context, _ repository.UniversityFilter) ([]models.University, int64, error) {
	var results []models.University
	for _, university := range f.universities {
		results = append(results, university)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, int64(len(results)), nil
}

func (f *fakeUniversityRepo) GetByID(_ context.Context, id uint) (models.University, error) {
	if university, ok := f.universities[id]; ok {
		return university, nil
	}
	return models.University{}, gorm.ErrRecordNotFound
}

func (f *fakeUniversityRepo) Create(_ context.Context, university *models.University) error {
	f.nextUniversityID++
	university.ID = f.nextUniversityID
	f.universities[university.ID] = *university
	return nil
}

func (f *fakeUniversityRepo) Update(_ context.Context, university *models.University) error {
	if _, ok := f.universities[university.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.universities[university.ID] = *university
	return nil
}

func (f *fakeUniversityRepo) Delete(_ context.Context, id uint) error {
	delete(f.universities, id)
	return nil
}

func (f *fakeUniversityRepo) CreateDepartment(_ context.Context, department *models.Department) error {
	f.nextDepartmentID++
	department.ID = f.nextDepartmentID
	f.departments[department.ID] = *department
	return nil
}

func (f *fakeUniversityRepo) GetDepartment(_ context.Context, id uint) (models.Department, error) {
	if department, ok := f.departments[id]; ok {
		return department, nil
	}
	return models.Department{}, gorm.ErrRecordNotFound
}

func (f *fakeUniversityRepo) DeleteDepartment(_ context.Context, id uint) error {
	delete(f.departments, id)
	return nil
}

type programFixture struct {
	svc          ProgramService
	programs     *fakeProgramRepo
	requirements *fakeRequirementRepo
	universities *fakeUniversityRepo
	events       *fakeEventBus
	activity     *memoryActivityRepo
}

func newProgramFixture(t *testing.T) programFixture {
	t.Helper()

	programs := newFakeProgramRepo()
	requirements := newFakeRequirementRepo()
	universities := newFakeUniversityRepo()
	events := &fakeEventBus{}
	activity := &memoryActivityRepo{}

	svc := NewProgramService(programs, requirements, universities, events,
		NewActivityService(activity, testLogger()),
		validator.New(validator.WithRequiredStructEnabled()), testLogger())

	return programFixture{
		svc:          svc,
		programs:     programs,
		requirements: requirements,
		universities: universities,
		events:       events,
		activity:     activity,
	}
}

func (f programFixture) seedDepartment(t *testing.T) uint {
	t.Helper()
	department := models.Department{UniversityID: 1, Name: "Engineering"}
	require.NoError(t, f.universities.CreateDepartment(context.Background(), &department))
	return department.ID
}

func TestProgramCreateRequiresExistingDepartment(t *testing.T) {
	f := newProgramFixture(t)

	_, err := f.svc.Create(context.Background(), ActivityActor{ID: 1, Role: models.RoleSuperAdmin}, dto.ProgramCreateRequest{
		DepartmentID: 99,
		Name:         "Computer Science BSc",
	})
	require.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestProgramCreateSanitizesDescription(t *testing.T) {
	f := newProgramFixture(t)
	departmentID := f.seedDepartment(t)

	created, err := f.svc.Create(context.Background(), ActivityActor{ID: 1, Role: models.RoleSuperAdmin}, dto.ProgramCreateRequest{
		DepartmentID: departmentID,
		Name:         "Computer Science BSc",
		Degree:       "BSc",
		Description:  `Solid <b>foundations</b><script>alert(1)</script>`,
	})
	require.NoError(t, err)
	require.Equal(t, "Solid <b>foundations</b>", created.Description)
	require.True(t, created.Active)

	require.Len(t, f.activity.entries, 1)
	require.Equal(t, "program.created", f.activity.entries[0].Action)
}

func TestRequirementMutationsPublishChangeEvents(t *testing.T) {
	f := newProgramFixture(t)
	departmentID := f.seedDepartment(t)
	actor := ActivityActor{ID: 1, Role: models.RoleDepartmentAdministrator}

	program, err := f.svc.Create(context.Background(), actor, dto.ProgramCreateRequest{
		DepartmentID: departmentID,
		Name:         "Computer Science BSc",
	})
	require.NoError(t, err)

	requirement, err := f.svc.AddRequirement(context.Background(), actor, program.ID, dto.RequirementCreateRequest{
		Type:     "GRADE",
		Subject:  "Mathematics",
		MinGrade: "B3",
	})
	require.NoError(t, err)
	require.Equal(t, "GRADE", requirement.Type)

	_, err = f.svc.UpdateRequirement(context.Background(), actor, requirement.ID, dto.RequirementUpdateRequest{
		Subject:  "Mathematics",
		MinGrade: "B2",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRequirement(context.Background(), actor, requirement.ID))

	var changeEvents int
	for _, event := range f.events.published {
		if event.Name == EventRequirementChanged {
			changeEvents++
		}
	}
	require.Equal(t, 3, changeEvents)
}

func TestRequirementUpdateMissingReturnsNotFound(t *testing.T) {
	f := newProgramFixture(t)

	_, err := f.svc.UpdateRequirement(context.Background(), ActivityActor{ID: 1, Role: models.RoleSuperAdmin}, 404, dto.RequirementUpdateRequest{
		Subject: "Mathematics",
	})
	require.ErrorIs(t, err, ErrRequirementNotFound)
}
