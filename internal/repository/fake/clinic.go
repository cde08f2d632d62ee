package fake

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type patientRepo struct{ *Store }

type physicianRepo struct{ *Store }

type visitRepo struct{ *Store }

func (s *Store) PatientRepo() repository.PatientRepository     { return patientRepo{s} }
func (s *Store) PhysicianRepo() repository.PhysicianRepository { return physicianRepo{s} }
func (s *Store) VisitRepo() repository.VisitRepository         { return visitRepo{s} }

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (r patientRepo) Create(_ context.Context, p *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("CreatePatient"); err != nil {
		return err
	}
	p.ID = r.nextID()
	p.CreatedAt, p.UpdatedAt = now(), now()
	c := *p
	r.Patients[p.ID] = &c
	return nil
}

func (r patientRepo) Get(_ context.Context, id int64) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Patients[id]
	if !ok || p.DeletedAt != nil {
		return nil, notFound("patient", id)
	}
	c := *p
	return &c, nil
}

func (r patientRepo) Update(_ context.Context, p *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.Patients[p.ID]
	if !ok || cur.DeletedAt != nil {
		return notFound("patient", p.ID)
	}
	p.UpdatedAt = now()
	c := *p
	r.Patients[p.ID] = &c
	return nil
}

func (r patientRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Patients[id]
	if !ok || p.DeletedAt != nil {
		return notFound("patient", id)
	}
	t := now()
	p.DeletedAt = &t
	return nil
}

func (r patientRepo) List(_ context.Context, search string) ([]*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Patient{}
	for _, id := range sortedKeys(r.Patients) {
		p := r.Patients[id]
		if p.DeletedAt != nil {
			continue
		}
		if search != "" && !containsFold(p.FirstName, search) && !containsFold(p.LastName, search) &&
			!containsFold(p.Email, search) && !containsFold(p.Phone, search) {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (r patientRepo) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.Patients {
		if id != excludeID && p.DeletedAt == nil && p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r patientRepo) PhoneTaken(_ context.Context, phone string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.Patients {
		if id != excludeID && p.DeletedAt == nil && p.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r physicianRepo) Create(_ context.Context, p *model.Physician) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID()
	p.CreatedAt, p.UpdatedAt = now(), now()
	c := *p
	r.Physicians[p.ID] = &c
	return nil
}

func (r physicianRepo) Get(_ context.Context, id int64) (*model.Physician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Physicians[id]
	if !ok || p.DeletedAt != nil {
		return nil, notFound("physician", id)
	}
	c := *p
	return &c, nil
}

func (r physicianRepo) Update(_ context.Context, p *model.Physician) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.Physicians[p.ID]
	if !ok || cur.DeletedAt != nil {
		return notFound("physician", p.ID)
	}
	p.UpdatedAt = now()
	c := *p
	r.Physicians[p.ID] = &c
	return nil
}

func (r physicianRepo) SetAvailability(_ context.Context, id int64, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Physicians[id]
	if !ok || p.DeletedAt != nil {
		return notFound("physician", id)
	}
	p.IsAvailable = available
	return nil
}

func (r physicianRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Physicians[id]
	if !ok || p.DeletedAt != nil {
		return notFound("physician", id)
	}
	t := now()
	p.DeletedAt = &t
	return nil
}

func (r physicianRepo) List(_ context.Context, f model.PhysicianFilter) ([]*model.Physician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Physician{}
	for _, id := range sortedKeys(r.Physicians) {
		p := r.Physicians[id]
		switch {
		case p.DeletedAt != nil,
			f.Specialization != "" && !strings.EqualFold(p.Specialization, f.Specialization),
			f.Department != "" && !strings.EqualFold(p.Department, f.Department),
			f.AvailableOnly && !p.IsAvailable,
			f.Search != "" && !containsFold(p.FirstName, f.Search) && !containsFold(p.LastName, f.Search) &&
				!containsFold(p.Specialization, f.Search):
			continue
		}
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (r physicianRepo) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.Physicians {
		if id != excludeID && p.DeletedAt == nil && p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r physicianRepo) LicenseTaken(_ context.Context, license string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.Physicians {
		if id != excludeID && p.DeletedAt == nil && p.LicenseNumber == license {
			return true, nil
		}
	}
	return false, nil
}

func (r visitRepo) Create(_ context.Context, v *model.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.visitConflict(v.PhysicianID, v.Date, v.Time, 0) {
		return fmt.Errorf("%w: visits_physician_slot_key", repository.ErrConflict)
	}
	v.ID = r.nextID()
	v.CreatedAt, v.UpdatedAt = now(), now()
	c := *v
	r.Visits[v.ID] = &c
	return nil
}

func (r visitRepo) Get(_ context.Context, id int64) (*model.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.Visits[id]
	if !ok {
		return nil, notFound("visit", id)
	}
	c := *v
	return &c, nil
}

func (r visitRepo) Update(_ context.Context, v *model.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Visits[v.ID]; !ok {
		return notFound("visit", v.ID)
	}
	v.UpdatedAt = now()
	c := *v
	r.Visits[v.ID] = &c
	return nil
}

func (r visitRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Visits[id]; !ok {
		return notFound("visit", id)
	}
	delete(r.Visits, id)
	return nil
}

func (r visitRepo) List(_ context.Context, f model.VisitFilter) ([]*model.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Visit{}
	for _, id := range sortedKeys(r.Visits) {
		v := r.Visits[id]
		switch {
		case f.PatientID != nil && v.PatientID != *f.PatientID,
			f.PhysicianID != nil && v.PhysicianID != *f.PhysicianID,
			f.Date != nil && !v.Date.Equal(f.Date.Time),
			f.Status != "" && v.Status != f.Status:
			continue
		}
		c := *v
		out = append(out, &c)
	}
	return out, nil
}

func (r visitRepo) HasConflict(_ context.Context, physicianID int64, date model.Date, at string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visitConflict(physicianID, date, at, excludeID), nil
}

func (s *Store) visitConflict(physicianID int64, date model.Date, at string, excludeID int64) bool {
	for id, v := range s.Visits {
		if id == excludeID || v.Status == model.VisitStatusCancelled || v.Status == model.VisitStatusNoShow {
			continue
		}
		if v.PhysicianID == physicianID && v.Date.Equal(date.Time) && v.Time == at {
			return true
		}
	}
	return false
}
