package model

import "strings"

// EmployeeKind is fixed when the employee is created.
type EmployeeKind string

const (
	EmployeeKindDoctor EmployeeKind = "doctor"
	EmployeeKindStaff  EmployeeKind = "staff"
)

func (k EmployeeKind) Valid() bool {
	return k == EmployeeKindDoctor || k == EmployeeKindStaff
}

// KindFromDesignation derives the kind for requests that only carry a job title.
func KindFromDesignation(designation string) EmployeeKind {
	if strings.EqualFold(strings.TrimSpace(designation), string(EmployeeKindDoctor)) {
		return EmployeeKindDoctor
	}
	return EmployeeKindStaff
}

type Employee struct {
	EmployeeID  int64        `db:"employee_id" json:"employeeID"`
	Name        string       `db:"name" json:"name"`
	Age         int          `db:"age" json:"age"`
	Salary      float64      `db:"salary" json:"salary"`
	Email       string       `db:"email" json:"email"`
	Designation string       `db:"designation" json:"designation"`
	Kind        EmployeeKind `db:"kind" json:"kind"`
}

// Doctor is the sub-record kept for employees of kind doctor.
type Doctor struct {
	EmployeeID     int64   `db:"employee_id" json:"employeeID"`
	Specialisation string  `db:"specialisation" json:"specialisation"`
	DocName        string  `db:"doc_name" json:"docName"`
	Salary         float64 `db:"salary" json:"salary"`
}

type AddEmployeeRequest struct {
	EmployeeID     int64        `json:"employeeID" binding:"required,gt=0"`
	Name           string       `json:"name" binding:"required,max=100"`
	Age            int          `json:"age" binding:"gte=0,lte=120"`
	Salary         float64      `json:"salary" binding:"gte=0"`
	Email          string       `json:"email" binding:"omitempty,email"`
	Designation    string       `json:"designation" binding:"required,max=50"`
	Kind           EmployeeKind `json:"kind" binding:"omitempty,oneof=doctor staff"`
	Specialisation string       `json:"specialisation" binding:"max=100"`
}

type DeleteEmployeeRequest struct {
	EmployeeID int64 `json:"employeeID" binding:"required,gt=0"`
}
