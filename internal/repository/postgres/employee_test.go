package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

func TestEmployeeCreateDoctor(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO employees")).
		WithArgs(int64(5), "Meera", 41, 9000.0, "meera@example.org", "Doctor", "doctor").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO doctors")).
		WithArgs(int64(5), "Cardiology", "Meera", 9000.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	emp := &model.Employee{EmployeeID: 5, Name: "Meera", Age: 41, Salary: 9000, Email: "meera@example.org", Designation: "Doctor", Kind: model.EmployeeKindDoctor}
	doc := &model.Doctor{EmployeeID: 5, Specialisation: "Cardiology", DocName: "Meera", Salary: 9000}
	require.NoError(t, repo.Create(context.Background(), emp, doc))
}

func TestEmployeeCreateReportsFailedStep(t *testing.T) {
	emp := &model.Employee{EmployeeID: 5, Name: "Meera", Kind: model.EmployeeKindDoctor}
	doc := &model.Doctor{EmployeeID: 5, Specialisation: "Cardiology", DocName: "Meera"}

	t.Run("duplicate employee", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(q("INSERT INTO employees")).WillReturnError(uniqueViolation("employees_pkey"))
		mock.ExpectRollback()

		err := NewEmployeeRepository(db).Create(context.Background(), emp, doc)
		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.Equal(t, repository.StepEmployee, repository.FailedStep(err))
	})

	t.Run("doctor row", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(q("INSERT INTO employees")).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q("INSERT INTO doctors")).WillReturnError(errors.New("value too long"))
		mock.ExpectRollback()

		err := NewEmployeeRepository(db).Create(context.Background(), emp, doc)
		require.Error(t, err)
		assert.Equal(t, repository.StepDoctor, repository.FailedStep(err))
	})
}

func expectCascade(mock sqlmock.Sqlmock, failAt string) {
	boom := errors.New("boom")
	mock.ExpectBegin()

	doctor := mock.ExpectExec(q("DELETE FROM doctors WHERE employee_id = $1")).WithArgs(int64(7))
	if failAt == repository.StepDoctor {
		doctor.WillReturnError(boom)
		mock.ExpectRollback()
		return
	}
	doctor.WillReturnResult(sqlmock.NewResult(0, 1))

	employee := mock.ExpectExec(q("DELETE FROM employees WHERE employee_id = $1")).WithArgs(int64(7))
	if failAt == repository.StepEmployee {
		employee.WillReturnError(boom)
		mock.ExpectRollback()
		return
	}
	employee.WillReturnResult(sqlmock.NewResult(0, 1))

	appts := mock.ExpectExec(q("DELETE FROM appointments WHERE doctor_id = $1")).WithArgs(int64(7))
	if failAt == repository.StepAppointments {
		appts.WillReturnError(boom)
		mock.ExpectRollback()
		return
	}
	appts.WillReturnResult(sqlmock.NewResult(0, 2))

	wards := mock.ExpectQuery(q("UPDATE wards SET occupied = FALSE, appointment_id = NULL")).WithArgs(sqlmock.AnyArg())
	if failAt == repository.StepWards {
		wards.WillReturnError(boom)
		mock.ExpectRollback()
		return
	}
	wards.WillReturnRows(sqlmock.NewRows([]string{"ward_id"}).AddRow(3).AddRow(4))

	expectOutbox(mock).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestEmployeeDeleteCascade(t *testing.T) {
	db, mock := newMock(t)
	expectCascade(mock, "")

	result, err := NewEmployeeRepository(db).DeleteCascade(context.Background(), 7, []int64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.EmployeeID)
	assert.Equal(t, int64(2), result.AppointmentsDeleted)
	assert.Equal(t, []int64{3, 4}, result.WardsReleased)
}

func TestEmployeeDeleteCascadeRollsBackAtEveryStep(t *testing.T) {
	steps := []string{
		repository.StepDoctor,
		repository.StepEmployee,
		repository.StepAppointments,
		repository.StepWards,
	}
	for _, step := range steps {
		t.Run(step, func(t *testing.T) {
			db, mock := newMock(t)
			expectCascade(mock, step)

			result, err := NewEmployeeRepository(db).DeleteCascade(context.Background(), 7, []int64{3, 4})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, step, repository.FailedStep(err))
		})
	}
}

func TestEmployeeDeleteCascadeMissingEmployee(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM doctors")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("DELETE FROM employees")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := NewEmployeeRepository(db).DeleteCascade(context.Background(), 7, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEmployeeDeleteCascadeWithoutWards(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM doctors")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("DELETE FROM employees")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM appointments")).WillReturnResult(sqlmock.NewResult(0, 0))
	expectOutbox(mock).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := NewEmployeeRepository(db).DeleteCascade(context.Background(), 7, nil)
	require.NoError(t, err)
	assert.Empty(t, result.WardsReleased)
}
