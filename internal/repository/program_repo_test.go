package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unimatch-go-api/internal/matching"
	"github.com/noah-isme/unimatch-go-api/internal/models"
)

func seedCatalog(t *testing.T) (*programRepository, uint) {
	t.Helper()
	db := setupTestDB(t,
		&models.University{}, &models.Department{},
		&models.Program{}, &models.ProgramRequirement{},
	)

	university := models.University{Name: "University of Lagos", Country: "Nigeria", City: "Lagos"}
	require.NoError(t, db.Create(&university).Error)

	department := models.Department{UniversityID: university.ID, Name: "Engineering"}
	require.NoError(t, db.Create(&department).Error)

	active := models.Program{
		DepartmentID: department.ID,
		Name:         "Computer Engineering",
		Degree:       "BSc",
		Active:       true,
		Requirements: []models.ProgramRequirement{
			{Type: matching.RequirementGrade, Subject: "Mathematics", MinGrade: "B3"},
			{Type: matching.RequirementLanguage, MinGrade: "6.5"},
		},
	}
	inactive := models.Program{DepartmentID: department.ID, Name: "Dormant Program", Active: false}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&inactive).Error)

	return NewProgramRepository(db).(*programRepository), university.ID
}

func TestProgramRepositoryCatalogPreloadsRelations(t *testing.T) {
	repo, _ := seedCatalog(t)

	programs, err := repo.ListCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, programs, 1, "inactive programs are not part of the catalog")

	program := programs[0]
	require.Equal(t, "Computer Engineering", program.Name)
	require.Len(t, program.Requirements, 2)
	require.Equal(t, "Engineering", program.Department.Name)
	require.Equal(t, "University of Lagos", program.Department.University.Name)
}

func TestProgramRepositoryListFiltersByUniversity(t *testing.T) {
	repo, universityID := seedCatalog(t)

	programs, total, err := repo.List(context.Background(), ProgramFilter{UniversityID: &universityID, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, programs, 2)

	missing := universityID + 100
	programs, total, err = repo.List(context.Background(), ProgramFilter{UniversityID: &missing, PageSize: 10})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, programs)
}

func TestProgramRepositoryListSearch(t *testing.T) {
	repo, _ := seedCatalog(t)

	programs, total, err := repo.List(context.Background(), ProgramFilter{Search: "computer", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, programs, 1)
	require.Equal(t, "Computer Engineering", programs[0].Name)
}
