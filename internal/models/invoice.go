package models

import "time"

type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "unpaid"
	InvoicePaid   InvoiceStatus = "paid"
)

type Invoice struct {
	ID          uint `gorm:"primaryKey"`
	ClinicID    uint `gorm:"not null;index"`
	Clinic      *Clinic
	PatientName string        `gorm:"size:100;not null"`
	Description string        `gorm:"size:255"`
	Amount      float64       `gorm:"not null"`
	Date        time.Time     `gorm:"not null;index"`
	Status      InvoiceStatus `gorm:"size:20;not null;default:'unpaid'"`
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
