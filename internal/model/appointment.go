package model

const (
	MinSlot = 1
	MaxSlot = 5
)

// Appointment is a slot booking of a doctor, holding one ward.
type Appointment struct {
	AppID     int64  `db:"app_id" json:"appID"`
	DoctorID  int64  `db:"doctor_id" json:"doctorID"`
	PatientID string `db:"patient_id" json:"patientID"`
	AppDate   Date   `db:"app_date" json:"appDate"`
	WardID    int64  `db:"ward_id" json:"wardID"`
	Slot      int    `db:"slot" json:"slot"`
}

// AppointmentFilter selects by date, by doctor, or nothing.
type AppointmentFilter struct {
	Date     *Date
	DoctorID *int64
}

type BookAppointmentRequest struct {
	DoctorID  int64  `json:"doctorID" binding:"required,gt=0"`
	PatientID string `json:"patientID" binding:"required,max=50"`
	AppDate   Date   `json:"appDate"`
	WardID    int64  `json:"wardID" binding:"required,gt=0"`
	Slot      int    `json:"slot" binding:"required,min=1,max=5"`
}

type CancelAppointmentRequest struct {
	AppointmentID int64 `json:"appointmentID" binding:"required,gt=0"`
	WardID        int64 `json:"wardID" binding:"gte=0"`
}
