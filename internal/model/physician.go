package model

// Physician is a doctor profile of the /api/v1 surface.
type Physician struct {
	Base
	FirstName       string  `db:"first_name" json:"firstName"`
	LastName        string  `db:"last_name" json:"lastName"`
	Email           string  `db:"email" json:"email"`
	Phone           string  `db:"phone" json:"phone"`
	LicenseNumber   string  `db:"license_number" json:"licenseNumber"`
	Specialization  string  `db:"specialization" json:"specialization"`
	Qualification   string  `db:"qualification" json:"qualification,omitempty"`
	ExperienceYears int     `db:"experience_years" json:"experienceYears"`
	ConsultationFee float64 `db:"consultation_fee" json:"consultationFee"`
	Department      string  `db:"department" json:"department,omitempty"`
	RoomNumber      string  `db:"room_number" json:"roomNumber,omitempty"`
	AvailableDays   string  `db:"available_days" json:"availableDays,omitempty"`
	StartTime       string  `db:"start_time" json:"startTime,omitempty"`
	EndTime         string  `db:"end_time" json:"endTime,omitempty"`
	IsAvailable     bool    `db:"is_available" json:"isAvailable"`
}

func (p *Physician) FullName() string {
	return "Dr. " + p.FirstName + " " + p.LastName
}

type PhysicianRequest struct {
	FirstName       string  `json:"firstName" binding:"required,max=50"`
	LastName        string  `json:"lastName" binding:"required,max=50"`
	Email           string  `json:"email" binding:"required,email"`
	Phone           string  `json:"phone" binding:"required,min=7,max=20"`
	LicenseNumber   string  `json:"licenseNumber" binding:"required,max=50"`
	Specialization  string  `json:"specialization" binding:"required,max=100"`
	Qualification   string  `json:"qualification" binding:"max=255"`
	ExperienceYears int     `json:"experienceYears" binding:"gte=0,lte=60"`
	ConsultationFee float64 `json:"consultationFee" binding:"gte=0"`
	Department      string  `json:"department" binding:"max=100"`
	RoomNumber      string  `json:"roomNumber" binding:"max=20"`
	AvailableDays   string  `json:"availableDays" binding:"max=100"`
	StartTime       string  `json:"startTime" binding:"omitempty,hhmm"`
	EndTime         string  `json:"endTime" binding:"omitempty,hhmm"`
	IsAvailable     *bool   `json:"isAvailable"`
}

func (r *PhysicianRequest) Apply(p *Physician) {
	p.FirstName = r.FirstName
	p.LastName = r.LastName
	p.Email = r.Email
	p.Phone = r.Phone
	p.LicenseNumber = r.LicenseNumber
	p.Specialization = r.Specialization
	p.Qualification = r.Qualification
	p.ExperienceYears = r.ExperienceYears
	p.ConsultationFee = r.ConsultationFee
	p.Department = r.Department
	p.RoomNumber = r.RoomNumber
	p.AvailableDays = r.AvailableDays
	p.StartTime = r.StartTime
	p.EndTime = r.EndTime
	if r.IsAvailable != nil {
		p.IsAvailable = *r.IsAvailable
	}
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

type PhysicianFilter struct {
	Specialization string
	Department     string
	AvailableOnly  bool
	Search         string
}
