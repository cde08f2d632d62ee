// Package fake is an in-memory implementation of the repository interfaces
// for service and handler tests. It enforces the same uniqueness and
// occupancy rules as the SQL schema.
package fake

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

// Store holds all tables. Tests may seed the maps directly before use.
type Store struct {
	mu sync.Mutex

	Appointments    map[int64]*model.Appointment
	Wards           map[int64]*model.Ward
	Employees       map[int64]*model.Employee
	Doctors         map[int64]*model.Doctor
	Medicines       []*model.Medicine
	PaymentRecords  map[int64]*model.PaymentRecord
	Credentials     map[string]*model.Credential
	Feedback        []*model.Feedback
	Patients        map[int64]*model.Patient
	Physicians      map[int64]*model.Physician
	Visits          map[int64]*model.Visit
	Invoices        map[int64]*model.Invoice
	InvoicePayments map[int64][]*model.Payment
	Events          []*model.OutboxEvent

	// Failures maps an operation name such as "Book" or "DeleteCascade:wards"
	// to the error it should return.
	Failures map[string]error

	seq int64
}

func NewStore() *Store {
	return &Store{
		Appointments:    map[int64]*model.Appointment{},
		Wards:           map[int64]*model.Ward{},
		Employees:       map[int64]*model.Employee{},
		Doctors:         map[int64]*model.Doctor{},
		PaymentRecords:  map[int64]*model.PaymentRecord{},
		Credentials:     map[string]*model.Credential{},
		Patients:        map[int64]*model.Patient{},
		Physicians:      map[int64]*model.Physician{},
		Visits:          map[int64]*model.Visit{},
		Invoices:        map[int64]*model.Invoice{},
		InvoicePayments: map[int64][]*model.Payment{},
		Failures:        map[string]error{},
	}
}

// Fail makes op return err until cleared.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failures[op] = err
}

func (s *Store) failure(op string) error {
	return s.Failures[op]
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// AddWard seeds a free ward.
func (s *Store) AddWard(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Wards[id] = &model.Ward{WardID: id, WardName: name}
}

// EventTypes lists the outbox event types written so far, in order.
func (s *Store) EventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		types = append(types, e.EventType)
	}
	return types
}

func (s *Store) emit(eventType string, payload interface{}) error {
	event, err := model.NewOutboxEvent(eventType, payload)
	if err != nil {
		return err
	}
	s.Events = append(s.Events, event)
	return nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func notFound(what string, id interface{}) error {
	return fmt.Errorf("%s %v: %w", what, id, repository.ErrNotFound)
}

func now() time.Time {
	return time.Now().UTC()
}
