package staff

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/repository/fake"
	"github.com/jwalitptl/hospital-api/internal/service/booking"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

func newServices(t *testing.T) (*Service, *booking.Service, *fake.Store) {
	t.Helper()
	store := fake.NewStore()
	for id := int64(1); id <= 4; id++ {
		store.AddWard(id, "Ward")
	}
	m := metrics.NewNop()
	staff := NewService(store.EmployeeRepo(), store.AppointmentRepo(), m)
	bookings := booking.NewService(store.AppointmentRepo(), store.WardRepo(), m)
	return staff, bookings, store
}

func doctorReq(id int64) model.AddEmployeeRequest {
	return model.AddEmployeeRequest{
		EmployeeID:     id,
		Name:           "Asha",
		Age:            40,
		Salary:         5000,
		Designation:    "Doctor",
		Specialisation: "Neurology",
	}
}

func TestAddEmployeeThenListDoctors(t *testing.T) {
	svc, _, _ := newServices(t)
	ctx := context.Background()

	msg, err := svc.AddEmployee(ctx, doctorReq(5))
	require.NoError(t, err)
	assert.Equal(t, MsgDoctorAdded, msg)

	msg, err = svc.AddEmployee(ctx, model.AddEmployeeRequest{EmployeeID: 6, Name: "Ravi", Designation: "Nurse"})
	require.NoError(t, err)
	assert.Equal(t, MsgEmployeeAdded, msg)

	doctors, err := svc.ListDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, model.Doctor{EmployeeID: 5, Specialisation: "Neurology", DocName: "Asha", Salary: 5000}, *doctors[0])

	employees, err := svc.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, model.EmployeeKindStaff, employees[1].Kind)

	name, err := svc.DoctorName(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Asha", name)
}

func TestAddEmployeeExplicitKindWins(t *testing.T) {
	svc, _, store := newServices(t)

	req := doctorReq(5)
	req.Designation = "Consultant"
	req.Kind = model.EmployeeKindDoctor
	_, err := svc.AddEmployee(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, store.Doctors, int64(5))
}

func TestAddEmployeeErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate", func(t *testing.T) {
		svc, _, _ := newServices(t)
		_, err := svc.AddEmployee(ctx, doctorReq(5))
		require.NoError(t, err)
		_, err = svc.AddEmployee(ctx, doctorReq(5))
		assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))
	})

	t.Run("doctor without specialisation", func(t *testing.T) {
		svc, _, _ := newServices(t)
		req := doctorReq(5)
		req.Specialisation = " "
		_, err := svc.AddEmployee(ctx, req)
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
	})

	t.Run("doctor record failure", func(t *testing.T) {
		svc, _, store := newServices(t)
		store.Fail("CreateEmployee:"+repository.StepDoctor, errors.New("disk full"))
		_, err := svc.AddEmployee(ctx, doctorReq(5))
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, "failed to add doctor record", appErr.Message)
		assert.NotContains(t, store.Employees, int64(5))
	})

	t.Run("employee failure", func(t *testing.T) {
		svc, _, store := newServices(t)
		store.Fail("CreateEmployee:"+repository.StepEmployee, errors.New("disk full"))
		_, err := svc.AddEmployee(ctx, doctorReq(5))
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, "failed to add employee", appErr.Message)
	})
}

func TestDeleteEmployeeCascades(t *testing.T) {
	svc, bookings, store := newServices(t)
	ctx := context.Background()
	day := model.NewDate(2024, time.May, 1)

	_, err := svc.AddEmployee(ctx, doctorReq(5))
	require.NoError(t, err)
	_, err = svc.AddEmployee(ctx, doctorReq(6))
	require.NoError(t, err)

	for slot, ward := range map[int]int64{1: 1, 2: 2} {
		_, err := bookings.BookAppointment(ctx, model.BookAppointmentRequest{DoctorID: 5, PatientID: "p1", AppDate: day, WardID: ward, Slot: slot})
		require.NoError(t, err)
	}
	_, err = bookings.BookAppointment(ctx, model.BookAppointmentRequest{DoctorID: 6, PatientID: "p2", AppDate: day, WardID: 3, Slot: 1})
	require.NoError(t, err)

	result, err := svc.DeleteEmployee(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.AppointmentsDeleted)
	assert.ElementsMatch(t, []int64{1, 2}, result.WardsReleased)

	assert.NotContains(t, store.Employees, int64(5))
	assert.NotContains(t, store.Doctors, int64(5))
	assert.False(t, store.Wards[1].Occupied)
	assert.False(t, store.Wards[2].Occupied)
	assert.True(t, store.Wards[3].Occupied, "other doctor's ward stays held")

	remaining, err := bookings.ListAllAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, int64(6), remaining[0].DoctorID)
	assert.Contains(t, store.EventTypes(), model.EventEmployeeDeleted)
}

func TestDeleteEmployeeFailureLeavesNoPartialState(t *testing.T) {
	steps := []string{repository.StepDoctor, repository.StepEmployee, repository.StepAppointments, repository.StepWards}
	for _, step := range steps {
		t.Run(step, func(t *testing.T) {
			svc, bookings, store := newServices(t)
			ctx := context.Background()

			_, err := svc.AddEmployee(ctx, doctorReq(5))
			require.NoError(t, err)
			_, err = bookings.BookAppointment(ctx, model.BookAppointmentRequest{
				DoctorID: 5, PatientID: "p1", AppDate: model.NewDate(2024, time.May, 1), WardID: 1, Slot: 1,
			})
			require.NoError(t, err)

			store.Fail("DeleteCascade:"+step, errors.New("boom"))
			_, err = svc.DeleteEmployee(ctx, 5)
			assert.Equal(t, http.StatusInternalServerError, apperrors.StatusOf(err))

			assert.Contains(t, store.Employees, int64(5))
			assert.Contains(t, store.Doctors, int64(5))
			assert.Len(t, store.Appointments, 1)
			assert.True(t, store.Wards[1].Occupied)
		})
	}
}

func TestDeleteEmployeeMissing(t *testing.T) {
	svc, _, _ := newServices(t)
	_, err := svc.DeleteEmployee(context.Background(), 404)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))
}
