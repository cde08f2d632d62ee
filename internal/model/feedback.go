package model

import "time"

type Feedback struct {
	FeedbackNo   int64     `db:"feedback_no" json:"feedbackNo"`
	PatientID    string    `db:"patient_id" json:"patientID"`
	EmployeeName string    `db:"employee_name" json:"employeeName"`
	Review       string    `db:"review" json:"review"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type SubmitFeedbackRequest struct {
	PatientID    string `json:"patientID" binding:"max=50"`
	EmployeeName string `json:"employeeName" binding:"max=100"`
	Review       string `json:"review" binding:"required,max=2000"`
}
