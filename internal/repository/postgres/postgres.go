package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

type wardRepository struct {
	db *sqlx.DB
}

type employeeRepository struct {
	BaseRepository
}

type pharmacyRepository struct {
	db *sqlx.DB
}

type credentialRepository struct {
	db *sqlx.DB
}

type feedbackRepository struct {
	db *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type physicianRepository struct {
	db *sqlx.DB
}

type visitRepository struct {
	db *sqlx.DB
}

type invoiceRepository struct {
	BaseRepository
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db)}
}

func NewWardRepository(db *sqlx.DB) repository.WardRepository {
	return &wardRepository{db: db}
}

func NewEmployeeRepository(db *sqlx.DB) repository.EmployeeRepository {
	return &employeeRepository{NewBaseRepository(db)}
}

func NewPharmacyRepository(db *sqlx.DB) repository.PharmacyRepository {
	return &pharmacyRepository{db: db}
}

func NewCredentialRepository(db *sqlx.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

func NewFeedbackRepository(db *sqlx.DB) repository.FeedbackRepository {
	return &feedbackRepository{db: db}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewPhysicianRepository(db *sqlx.DB) repository.PhysicianRepository {
	return &physicianRepository{db: db}
}

func NewVisitRepository(db *sqlx.DB) repository.VisitRepository {
	return &visitRepository{db: db}
}

func NewInvoiceRepository(db *sqlx.DB) repository.InvoiceRepository {
	return &invoiceRepository{NewBaseRepository(db)}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

// Repositories bundles every store the server wires up.
type Repositories struct {
	Appointments repository.AppointmentRepository
	Wards        repository.WardRepository
	Employees    repository.EmployeeRepository
	Pharmacy     repository.PharmacyRepository
	Credentials  repository.CredentialRepository
	Feedback     repository.FeedbackRepository
	Patients     repository.PatientRepository
	Physicians   repository.PhysicianRepository
	Visits       repository.VisitRepository
	Invoices     repository.InvoiceRepository
	Outbox       repository.OutboxRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Appointments: NewAppointmentRepository(db),
		Wards:        NewWardRepository(db),
		Employees:    NewEmployeeRepository(db),
		Pharmacy:     NewPharmacyRepository(db),
		Credentials:  NewCredentialRepository(db),
		Feedback:     NewFeedbackRepository(db),
		Patients:     NewPatientRepository(db),
		Physicians:   NewPhysicianRepository(db),
		Visits:       NewVisitRepository(db),
		Invoices:     NewInvoiceRepository(db),
		Outbox:       NewOutboxRepository(db),
	}
}
