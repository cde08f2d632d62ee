package model

import "time"

type VisitStatus string

const (
	VisitStatusScheduled VisitStatus = "SCHEDULED"
	VisitStatusConfirmed VisitStatus = "CONFIRMED"
	VisitStatusCompleted VisitStatus = "COMPLETED"
	VisitStatusCancelled VisitStatus = "CANCELLED"
	VisitStatusNoShow    VisitStatus = "NO_SHOW"
)

func (s VisitStatus) Valid() bool {
	switch s {
	case VisitStatusScheduled, VisitStatusConfirmed, VisitStatusCompleted, VisitStatusCancelled, VisitStatusNoShow:
		return true
	}
	return false
}

// Final statuses cannot transition further.
func (s VisitStatus) Final() bool {
	return s == VisitStatusCompleted || s == VisitStatusCancelled
}

// Visit is a timed appointment of the /api/v1 surface.
type Visit struct {
	Base
	PatientID    int64       `db:"patient_id" json:"patientId"`
	PhysicianID  int64       `db:"physician_id" json:"doctorId"`
	Date         Date        `db:"visit_date" json:"appointmentDate"`
	Time         string      `db:"visit_time" json:"appointmentTime"`
	Reason       string      `db:"reason" json:"reason"`
	Notes        string      `db:"notes" json:"notes,omitempty"`
	Status       VisitStatus `db:"status" json:"status"`
	Diagnosis    string      `db:"diagnosis" json:"diagnosis,omitempty"`
	Prescription string      `db:"prescription" json:"prescription,omitempty"`
	CancelledAt  *time.Time  `db:"cancelled_at" json:"cancelledAt,omitempty"`
	CompletedAt  *time.Time  `db:"completed_at" json:"completedAt,omitempty"`
}

type VisitRequest struct {
	PatientID   int64  `json:"patientId" binding:"required,gt=0"`
	PhysicianID int64  `json:"doctorId" binding:"required,gt=0"`
	Date        Date   `json:"appointmentDate"`
	Time        string `json:"appointmentTime" binding:"required,hhmm"`
	Reason      string `json:"reason" binding:"required,max=500"`
	Notes       string `json:"notes" binding:"max=1000"`
}

type VisitStatusRequest struct {
	Status VisitStatus `json:"status" binding:"required,oneof=SCHEDULED CONFIRMED COMPLETED CANCELLED NO_SHOW"`
}

type MedicalDetailsRequest struct {
	Diagnosis    string `json:"diagnosis" binding:"max=2000"`
	Prescription string `json:"prescription" binding:"max=2000"`
	Notes        string `json:"notes" binding:"max=1000"`
}

type VisitFilter struct {
	PatientID   *int64
	PhysicianID *int64
	Date        *Date
	Status      VisitStatus
}
