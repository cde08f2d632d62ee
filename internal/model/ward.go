package model

type Ward struct {
	WardID   int64  `db:"ward_id" json:"wardID"`
	WardName string `db:"ward_name" json:"wardName"`
	Occupied bool   `db:"occupied" json:"occupied"`
	// AppointmentID references the booking holding the ward, nil for manual holds.
	AppointmentID *int64 `db:"appointment_id" json:"appointmentID,omitempty"`
}

// WardRequest accepts the legacy field names of /bookWard and /unbookWard.
type WardRequest struct {
	WardToBook   int64 `json:"wardToBook"`
	WardToUnbook int64 `json:"wardToUnbook"`
	WardID       int64 `json:"wardID"`
}

// Ward returns the first ward id present in the request.
func (r WardRequest) Ward() int64 {
	switch {
	case r.WardToBook > 0:
		return r.WardToBook
	case r.WardToUnbook > 0:
		return r.WardToUnbook
	default:
		return r.WardID
	}
}
