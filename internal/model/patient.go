package model

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type Patient struct {
	Base
	FirstName        string `db:"first_name" json:"firstName"`
	LastName         string `db:"last_name" json:"lastName"`
	Email            string `db:"email" json:"email"`
	Phone            string `db:"phone" json:"phone"`
	DateOfBirth      *Date  `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	Gender           Gender `db:"gender" json:"gender"`
	Address          string `db:"address" json:"address,omitempty"`
	BloodGroup       string `db:"blood_group" json:"bloodGroup,omitempty"`
	EmergencyContact string `db:"emergency_contact" json:"emergencyContact,omitempty"`
	MedicalHistory   string `db:"medical_history" json:"medicalHistory,omitempty"`
	Allergies        string `db:"allergies" json:"allergies,omitempty"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// PatientRequest is used for both create and full update.
type PatientRequest struct {
	FirstName        string `json:"firstName" binding:"required,max=50"`
	LastName         string `json:"lastName" binding:"required,max=50"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"required,min=7,max=20"`
	DateOfBirth      *Date  `json:"dateOfBirth"`
	Gender           Gender `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	Address          string `json:"address" binding:"max=255"`
	BloodGroup       string `json:"bloodGroup" binding:"omitempty,bloodgroup"`
	EmergencyContact string `json:"emergencyContact" binding:"max=50"`
	MedicalHistory   string `json:"medicalHistory" binding:"max=2000"`
	Allergies        string `json:"allergies" binding:"max=500"`
}

// Apply copies the request fields onto p.
func (r *PatientRequest) Apply(p *Patient) {
	p.FirstName = r.FirstName
	p.LastName = r.LastName
	p.Email = r.Email
	p.Phone = r.Phone
	p.DateOfBirth = r.DateOfBirth
	p.Gender = r.Gender
	p.Address = r.Address
	p.BloodGroup = r.BloodGroup
	p.EmergencyContact = r.EmergencyContact
	p.MedicalHistory = r.MedicalHistory
	p.Allergies = r.Allergies
}
