package repository_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/testutil"
)

// ============================================================================
// CREATE
// ============================================================================

func TestEmployee_Create(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewEmployeeRepository(db)

	now := time.Now()
	mockDB.ExpectTenantQuery(testCompanyID,
		"INSERT INTO employees",
		testutil.MockRows("created_at", "updated_at").AddRow(now, now),
	)

	emp := &repository.Employee{
		Name:     "Maria Souza",
		Position: testutil.PtrString("Analista"),
	}
	err := repo.Create(tenantCtx(), emp)
	require.NoError(t, err)

	// ID is generated and the company comes from the context, never
	// from the payload
	assert.NotEmpty(t, emp.ID)
	assert.Equal(t, testCompanyID, emp.CompanyID)
	assert.True(t, emp.Active)
	assert.Equal(t, now, emp.CreatedAt)

	mockDB.ExpectationsWereMet(t)
}

func TestEmployee_Create_DuplicateCPF(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewEmployeeRepository(db)

	mockDB.ExpectTenantBegin(testCompanyID)
	mockDB.ExpectQuery("INSERT INTO employees").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "employees_company_id_cpf_key"})
	mockDB.ExpectRollback()

	emp := &repository.Employee{
		Name: "Maria Souza",
		CPF:  testutil.PtrString("12345678901"),
	}
	err := repo.Create(tenantCtx(), emp)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.StatusCode)

	mockDB.ExpectationsWereMet(t)
}

// ============================================================================
// LIST AND COUNT
// ============================================================================

func TestEmployee_List_ActiveOnly(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewEmployeeRepository(db)

	now := time.Now()
	rows := testutil.MockRows("id", "company_id", "name", "cpf", "position", "active", "created_at", "updated_at").
		AddRow(testEmployeeID, testCompanyID, "Ana Lima", nil, nil, true, now, now)

	mockDB.ExpectTenantQuery(testCompanyID, "AND active = TRUE", rows)

	employees, err := repo.List(tenantCtx(), true)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Ana Lima", employees[0].Name)

	mockDB.ExpectationsWereMet(t)
}

func TestEmployee_CountActive(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewEmployeeRepository(db)

	mockDB.ExpectTenantQuery(testCompanyID,
		"SELECT COUNT(*)",
		testutil.MockRows("count").AddRow(19),
	)

	count, err := repo.CountActive(tenantCtx())
	require.NoError(t, err)
	assert.Equal(t, 19, count)

	mockDB.ExpectationsWereMet(t)
}

// ============================================================================
// UPDATE AND DELETE
// ============================================================================

func TestEmployee_Update_NotFound(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewEmployeeRepository(db)

	mockDB.ExpectTenantBegin(testCompanyID)
	mockDB.ExpectExec("UPDATE employees").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectRollback()

	err := repo.Update(tenantCtx(), testEmployeeID, &repository.EmployeeUpdate{
		Name: testutil.PtrString("Novo Nome"),
	})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode)

	mockDB.ExpectationsWereMet(t)
}

func TestEmployee_Delete_Soft(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewEmployeeRepository(db)

	mockDB.ExpectTenantExec(testCompanyID,
		"SET deleted_at = NOW(), active = FALSE",
		sqlmock.NewResult(0, 1),
	)

	err := repo.Delete(tenantCtx(), testEmployeeID)
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}
