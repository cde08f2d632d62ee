package model

import (
	"math"
	"time"
)

type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "PENDING"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"
	InvoiceStatusRefunded      InvoiceStatus = "REFUNDED"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusPartiallyPaid, InvoiceStatusCancelled, InvoiceStatusRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodNetBanking PaymentMethod = "NET_BANKING"
	PaymentMethodInsurance  PaymentMethod = "INSURANCE"
)

type Invoice struct {
	Base
	InvoiceNumber     string         `db:"invoice_number" json:"invoiceNumber"`
	PatientID         int64          `db:"patient_id" json:"patientId"`
	VisitID           *int64         `db:"visit_id" json:"appointmentId,omitempty"`
	ConsultationFee   float64        `db:"consultation_fee" json:"consultationFee"`
	MedicationCharges float64        `db:"medication_charges" json:"medicationCharges"`
	TestCharges       float64        `db:"test_charges" json:"testCharges"`
	OtherCharges      float64        `db:"other_charges" json:"otherCharges"`
	Discount          float64        `db:"discount" json:"discount"`
	Tax               float64        `db:"tax" json:"tax"`
	TotalAmount       float64        `db:"total_amount" json:"totalAmount"`
	PaidAmount        float64        `db:"paid_amount" json:"paidAmount"`
	BalanceAmount     float64        `db:"balance_amount" json:"balanceAmount"`
	Status            InvoiceStatus  `db:"status" json:"status"`
	PaymentMethod     *PaymentMethod `db:"payment_method" json:"paymentMethod,omitempty"`
	Notes             string         `db:"notes" json:"notes,omitempty"`
	PaidAt            *time.Time     `db:"paid_at" json:"paidAt,omitempty"`
	CancelledAt       *time.Time     `db:"cancelled_at" json:"cancelledAt,omitempty"`
	Items             []InvoiceItem  `db:"-" json:"items"`
}

type InvoiceItem struct {
	ID          int64   `db:"id" json:"id"`
	InvoiceID   int64   `db:"invoice_id" json:"invoiceId"`
	Description string  `db:"description" json:"description"`
	Quantity    int     `db:"quantity" json:"quantity"`
	UnitPrice   float64 `db:"unit_price" json:"unitPrice"`
	TotalPrice  float64 `db:"total_price" json:"totalPrice"`
}

type Payment struct {
	ID            int64         `db:"id" json:"id"`
	InvoiceID     int64         `db:"invoice_id" json:"invoiceId"`
	Amount        float64       `db:"amount" json:"amount"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`
	TransactionID string        `db:"transaction_id" json:"transactionId,omitempty"`
	Notes         string        `db:"notes" json:"notes,omitempty"`
	PaidAt        time.Time     `db:"paid_at" json:"paymentDate"`
}

// Terminal invoices accept no further payments.
func (inv *Invoice) Terminal() bool {
	return inv.Status == InvoiceStatusCancelled || inv.Status == InvoiceStatusRefunded
}

// Recalculate derives item totals, total, balance and, for non-terminal
// invoices, the status.
func (inv *Invoice) Recalculate() {
	subtotal := inv.ConsultationFee + inv.MedicationCharges + inv.TestCharges + inv.OtherCharges
	for i := range inv.Items {
		item := &inv.Items[i]
		item.TotalPrice = RoundMoney(float64(item.Quantity) * item.UnitPrice)
		subtotal += item.TotalPrice
	}

	inv.TotalAmount = RoundMoney(subtotal - inv.Discount + inv.Tax)
	inv.PaidAmount = RoundMoney(inv.PaidAmount)
	inv.BalanceAmount = RoundMoney(inv.TotalAmount - inv.PaidAmount)

	if inv.Terminal() {
		return
	}
	switch {
	case inv.BalanceAmount <= 0 && inv.PaidAmount > 0:
		inv.Status = InvoiceStatusPaid
	case inv.PaidAmount > 0:
		inv.Status = InvoiceStatusPartiallyPaid
	default:
		inv.Status = InvoiceStatusPending
	}
}

// RoundMoney rounds to cents.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

type InvoiceRequest struct {
	PatientID         int64                `json:"patientId" binding:"required,gt=0"`
	VisitID           *int64               `json:"appointmentId" binding:"omitempty,gt=0"`
	ConsultationFee   float64              `json:"consultationFee" binding:"gte=0"`
	MedicationCharges float64              `json:"medicationCharges" binding:"gte=0"`
	TestCharges       float64              `json:"testCharges" binding:"gte=0"`
	OtherCharges      float64              `json:"otherCharges" binding:"gte=0"`
	Discount          float64              `json:"discount" binding:"gte=0"`
	Tax               float64              `json:"tax" binding:"gte=0"`
	Notes             string               `json:"notes" binding:"max=1000"`
	Items             []InvoiceItemRequest `json:"items" binding:"dive"`
}

type InvoiceItemRequest struct {
	Description string  `json:"description" binding:"required,max=255"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unitPrice" binding:"gte=0"`
}

type PaymentRequest struct {
	Amount        float64       `json:"amount" binding:"required,gt=0"`
	PaymentMethod PaymentMethod `json:"paymentMethod" binding:"required,oneof=CASH CREDIT_CARD DEBIT_CARD UPI NET_BANKING INSURANCE"`
	TransactionID string        `json:"transactionId" binding:"max=100"`
	Notes         string        `json:"notes" binding:"max=500"`
}

type InvoiceFilter struct {
	PatientID *int64
	VisitID   *int64
	Status    InvoiceStatus
}
