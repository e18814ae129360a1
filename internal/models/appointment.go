package models

import "time"

// Appointment is a scheduled doctor visit, optionally tied to a Report
type Appointment struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	AppointmentDate string    `json:"appointment_date"`
	DoctorName      string    `json:"doctor_name"`
	ReportID        *string   `json:"report_id"`
	Memo            *string   `json:"memo"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
