package model

import "time"

type Medicine struct {
	MedID   int64   `db:"med_id" json:"medID"`
	MedName string  `db:"med_name" json:"medName"`
	Price   float64 `db:"price" json:"price"`
}

// PaymentRecord is an append-only pharmacy checkout entry.
type PaymentRecord struct {
	PaymentID int64     `db:"payment_id" json:"paymentID"`
	Amount    float64   `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type RecordPaymentRequest struct {
	PaymentID int64   `json:"paymentID" binding:"gte=0"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}
