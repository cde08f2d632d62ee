package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
)

func TestSeedEmptyDatabase(t *testing.T) {
	db, mock := newMock(t)
	data := SeedData{
		Wards:     []string{"ICU", "Maternity"},
		Medicines: []model.Medicine{{MedName: "Paracetamol", Price: 2.5}},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT COUNT(*) FROM wards")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(q("INSERT INTO wards (ward_name) VALUES ($1)")).
		WithArgs("ICU").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q("INSERT INTO wards (ward_name) VALUES ($1)")).
		WithArgs("Maternity").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(q("INSERT INTO medicines (med_name, price)")).
		WithArgs("Paracetamol", 2.5).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	result, err := Seed(context.Background(), db, data)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Wards: 2, Medicines: 1}, result)
}

func TestSeedSkipsExistingWardsAndMedicines(t *testing.T) {
	db, mock := newMock(t)
	data := SeedData{
		Wards:     []string{"ICU"},
		Medicines: []model.Medicine{{MedName: "Paracetamol", Price: 2.5}},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT COUNT(*) FROM wards")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectExec(q("ON CONFLICT (med_name) DO NOTHING")).
		WithArgs("Paracetamol", 2.5).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	result, err := Seed(context.Background(), db, data)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, result)
}

func TestSeedRollsBackOnFailure(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT COUNT(*) FROM wards")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(q("INSERT INTO wards")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := Seed(context.Background(), db, SeedData{Wards: []string{"ICU"}})
	assert.ErrorContains(t, err, "failed to seed ward")
}
