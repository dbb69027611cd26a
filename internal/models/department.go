package models

import "time"

type Department struct {
	ID        uint `gorm:"primaryKey"`
	ClinicID  uint `gorm:"not null;index"`
	Clinic    *Clinic
	Name      string `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
