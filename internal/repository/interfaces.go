package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository owns slot bookings and their ward coordination.
	AppointmentRepository interface {
		List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error)
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		ExistsForSlot(ctx context.Context, doctorID int64, date model.Date, slot int) (bool, error)
		NextID(ctx context.Context) (int64, error)
		// Book inserts the appointment and occupies its ward in one transaction.
		Book(ctx context.Context, appt *model.Appointment) error
		// Cancel deletes the appointment and releases a ward in one transaction.
		// A zero wardID releases the appointment's own ward. Returns the released ward.
		Cancel(ctx context.Context, appointmentID, wardID int64) (int64, error)
		WardIDsForDoctor(ctx context.Context, doctorID int64) ([]int64, error)
	}

	WardRepository interface {
		ListAvailable(ctx context.Context) ([]*model.Ward, error)
		Get(ctx context.Context, id int64) (*model.Ward, error)
		SetOccupied(ctx context.Context, id int64, occupied bool) error
	}

	EmployeeRepository interface {
		// Create inserts the employee and, when doctor is non-nil, its doctor
		// sub-record in one transaction. A doctor failure is a *StepError.
		Create(ctx context.Context, employee *model.Employee, doctor *model.Doctor) error
		List(ctx context.Context) ([]*model.Employee, error)
		ListDoctors(ctx context.Context) ([]*model.Doctor, error)
		GetDoctor(ctx context.Context, employeeID int64) (*model.Doctor, error)
		// DeleteCascade removes doctor, employee and appointments and releases
		// wardIDs, all or nothing.
		DeleteCascade(ctx context.Context, employeeID int64, wardIDs []int64) (*model.EmployeeDeletion, error)
	}

	PharmacyRepository interface {
		ListMedicines(ctx context.Context) ([]*model.Medicine, error)
		LatestPaymentID(ctx context.Context) (*int64, error)
		NextPaymentID(ctx context.Context) (int64, error)
		// RecordPayment honors a non-zero PaymentID, otherwise assigns one.
		RecordPayment(ctx context.Context, record *model.PaymentRecord) error
		ListPayments(ctx context.Context) ([]*model.PaymentRecord, error)
	}

	CredentialRepository interface {
		Get(ctx context.Context, userID string) (*model.Credential, error)
		Create(ctx context.Context, cred *model.Credential) error
	}

	FeedbackRepository interface {
		Create(ctx context.Context, feedback *model.Feedback) error
		List(ctx context.Context) ([]*model.Feedback, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int64) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, search string) ([]*model.Patient, error)
		EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
		PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error)
	}

	PhysicianRepository interface {
		Create(ctx context.Context, physician *model.Physician) error
		Get(ctx context.Context, id int64) (*model.Physician, error)
		Update(ctx context.Context, physician *model.Physician) error
		SetAvailability(ctx context.Context, id int64, available bool) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filter model.PhysicianFilter) ([]*model.Physician, error)
		EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
		LicenseTaken(ctx context.Context, license string, excludeID int64) (bool, error)
	}

	VisitRepository interface {
		Create(ctx context.Context, visit *model.Visit) error
		Get(ctx context.Context, id int64) (*model.Visit, error)
		Update(ctx context.Context, visit *model.Visit) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filter model.VisitFilter) ([]*model.Visit, error)
		// HasConflict ignores cancelled and no-show visits.
		HasConflict(ctx context.Context, physicianID int64, date model.Date, at string, excludeID int64) (bool, error)
	}

	InvoiceRepository interface {
		Create(ctx context.Context, invoice *model.Invoice) error
		Get(ctx context.Context, id int64) (*model.Invoice, error)
		List(ctx context.Context, filter model.InvoiceFilter) ([]*model.Invoice, error)
		ExistsForVisit(ctx context.Context, visitID int64) (bool, error)
		// AddPayment locks the invoice, lets apply validate and mutate it and
		// stores the returned payment with the updated totals.
		AddPayment(ctx context.Context, invoiceID int64, apply func(*model.Invoice) (*model.Payment, error)) (*model.Invoice, error)
		// UpdateStatus locks the invoice and persists the changes made by apply.
		UpdateStatus(ctx context.Context, invoiceID int64, apply func(*model.Invoice) error) (*model.Invoice, error)
		ListPayments(ctx context.Context, invoiceID int64) ([]*model.Payment, error)
	}

	OutboxRepository interface {
		// ClaimPending leases up to limit due events so concurrent relays skip them.
		ClaimPending(ctx context.Context, limit int, lease time.Duration) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
		// DeleteBefore removes events of any status created before the cutoff.
		DeleteBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
