package models

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID          uint `gorm:"primaryKey"`
	ClinicID    uint `gorm:"not null;index"`
	Clinic      *Clinic
	PatientName string            `gorm:"size:100;not null"`
	DoctorName  string            `gorm:"size:100"`
	Date        time.Time         `gorm:"not null;index"`
	Notes       string            `gorm:"size:255"`
	Status      AppointmentStatus `gorm:"size:20;not null;default:'scheduled'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
