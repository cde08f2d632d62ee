package fake

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type appointmentRepo struct{ *Store }

type wardRepo struct{ *Store }

type employeeRepo struct{ *Store }

func (s *Store) AppointmentRepo() repository.AppointmentRepository { return appointmentRepo{s} }
func (s *Store) WardRepo() repository.WardRepository               { return wardRepo{s} }
func (s *Store) EmployeeRepo() repository.EmployeeRepository       { return employeeRepo{s} }

func (r appointmentRepo) List(_ context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("ListAppointments"); err != nil {
		return nil, err
	}
	out := []*model.Appointment{}
	for _, id := range sortedKeys(r.Appointments) {
		a := r.Appointments[id]
		if filter.Date != nil && !a.AppDate.Equal(filter.Date.Time) {
			continue
		}
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	return out, nil
}

func (r appointmentRepo) Get(_ context.Context, id int64) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.Appointments[id]
	if !ok {
		return nil, notFound("appointment", id)
	}
	c := *a
	return &c, nil
}

func (r appointmentRepo) ExistsForSlot(_ context.Context, doctorID int64, date model.Date, slot int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slotTaken(doctorID, date, slot), nil
}

func (s *Store) slotTaken(doctorID int64, date model.Date, slot int) bool {
	for _, a := range s.Appointments {
		if a.DoctorID == doctorID && a.AppDate.Equal(date.Time) && a.Slot == slot {
			return true
		}
	}
	return false
}

func (r appointmentRepo) NextID(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for id := range r.Appointments {
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}

func (r appointmentRepo) Book(_ context.Context, appt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("Book"); err != nil {
		return err
	}
	if _, ok := r.Doctors[appt.DoctorID]; !ok {
		return notFound("doctor", appt.DoctorID)
	}
	ward, ok := r.Wards[appt.WardID]
	if !ok {
		return notFound("ward", appt.WardID)
	}
	if r.slotTaken(appt.DoctorID, appt.AppDate, appt.Slot) {
		return fmt.Errorf("%w: appointments_doctor_date_slot_key", repository.ErrConflict)
	}
	if ward.Occupied {
		return fmt.Errorf("ward %d: %w", ward.WardID, repository.ErrWardUnavailable)
	}

	var max int64
	for id := range r.Appointments {
		if id > max {
			max = id
		}
	}
	appt.AppID = max + 1
	c := *appt
	r.Appointments[appt.AppID] = &c
	ward.Occupied = true
	ward.AppointmentID = &c.AppID
	return r.emit(model.EventAppointmentBooked, appt)
}

func (r appointmentRepo) Cancel(_ context.Context, appointmentID, wardID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("Cancel"); err != nil {
		return 0, err
	}
	a, ok := r.Appointments[appointmentID]
	if !ok {
		return 0, notFound("appointment", appointmentID)
	}
	if wardID != 0 && wardID != a.WardID {
		return 0, repository.ErrWardMismatch
	}
	delete(r.Appointments, appointmentID)
	if ward, ok := r.Wards[a.WardID]; ok {
		ward.Occupied = false
		ward.AppointmentID = nil
	}
	return a.WardID, r.emit(model.EventAppointmentCancelled, a)
}

func (r appointmentRepo) WardIDsForDoctor(_ context.Context, doctorID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[int64]bool{}
	ids := []int64{}
	for _, id := range sortedKeys(r.Appointments) {
		a := r.Appointments[id]
		if a.DoctorID == doctorID && !seen[a.WardID] {
			seen[a.WardID] = true
			ids = append(ids, a.WardID)
		}
	}
	return ids, nil
}

func (r wardRepo) ListAvailable(context.Context) ([]*model.Ward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Ward{}
	for _, id := range sortedKeys(r.Wards) {
		if w := r.Wards[id]; !w.Occupied {
			c := *w
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r wardRepo) Get(_ context.Context, id int64) (*model.Ward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.Wards[id]
	if !ok {
		return nil, notFound("ward", id)
	}
	c := *w
	return &c, nil
}

func (r wardRepo) SetOccupied(_ context.Context, id int64, occupied bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.Wards[id]
	if !ok {
		return notFound("ward", id)
	}
	if w.AppointmentID != nil {
		if occupied {
			return nil
		}
		return fmt.Errorf("ward %d: %w", id, repository.ErrWardUnavailable)
	}
	w.Occupied = occupied
	return nil
}

func (r employeeRepo) Create(_ context.Context, employee *model.Employee, doctor *model.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Employees[employee.EmployeeID]; ok {
		return &repository.StepError{Step: repository.StepEmployee, Err: fmt.Errorf("%w: employees_pkey", repository.ErrConflict)}
	}
	if err := r.failure("CreateEmployee:" + repository.StepEmployee); err != nil {
		return &repository.StepError{Step: repository.StepEmployee, Err: err}
	}
	if doctor != nil {
		if err := r.failure("CreateEmployee:" + repository.StepDoctor); err != nil {
			return &repository.StepError{Step: repository.StepDoctor, Err: err}
		}
		d := *doctor
		r.Doctors[d.EmployeeID] = &d
	}
	e := *employee
	r.Employees[e.EmployeeID] = &e
	return nil
}

func (r employeeRepo) List(context.Context) ([]*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Employee{}
	for _, id := range sortedKeys(r.Employees) {
		c := *r.Employees[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r employeeRepo) ListDoctors(context.Context) ([]*model.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Doctor{}
	for _, id := range sortedKeys(r.Doctors) {
		c := *r.Doctors[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r employeeRepo) GetDoctor(_ context.Context, employeeID int64) (*model.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.Doctors[employeeID]
	if !ok {
		return nil, notFound("doctor", employeeID)
	}
	c := *d
	return &c, nil
}

// DeleteCascade checks every step for an injected failure before mutating,
// so a failed cascade leaves the store untouched.
func (r employeeRepo) DeleteCascade(_ context.Context, employeeID int64, wardIDs []int64) (*model.EmployeeDeletion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	steps := []string{repository.StepDoctor, repository.StepEmployee, repository.StepAppointments, repository.StepWards}
	for _, step := range steps {
		if step == repository.StepEmployee {
			if _, ok := r.Employees[employeeID]; !ok {
				return nil, &repository.StepError{Step: step, Err: notFound("employee", employeeID)}
			}
		}
		if err := r.failure("DeleteCascade:" + step); err != nil {
			return nil, &repository.StepError{Step: step, Err: err}
		}
	}

	result := &model.EmployeeDeletion{EmployeeID: employeeID, WardsReleased: []int64{}}
	delete(r.Doctors, employeeID)
	delete(r.Employees, employeeID)
	for id, a := range r.Appointments {
		if a.DoctorID == employeeID {
			delete(r.Appointments, id)
			if w, ok := r.Wards[a.WardID]; ok && w.AppointmentID != nil && *w.AppointmentID == id {
				w.AppointmentID = nil
			}
			result.AppointmentsDeleted++
		}
	}
	for _, id := range wardIDs {
		if w, ok := r.Wards[id]; ok && w.AppointmentID == nil {
			w.Occupied = false
			result.WardsReleased = append(result.WardsReleased, id)
		}
	}
	return result, r.emit(model.EventEmployeeDeleted, result)
}
