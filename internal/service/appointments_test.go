package service

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/carelog/internal/models"
)

func TestAppointments(t *testing.T) {
	ctx := context.Background()
	svc, user := setupService(t)

	report, err := svc.GenerateReport(ctx, user.ID, models.ReportInput{AppointmentDate: "2024-03-20"})
	if err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	upcoming, err := svc.CreateAppointment(ctx, user.ID, models.AppointmentInput{
		AppointmentDate: "2024-03-20", DoctorName: "Dr. Lee", ReportID: &report.ID, Memo: ptr("bring report"),
	})
	if err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}
	past, err := svc.CreateAppointment(ctx, user.ID, models.AppointmentInput{AppointmentDate: "2024-02-20", DoctorName: "Dr. Kim"})
	if err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}

	tests := []struct {
		scope string
		want  string
	}{
		{"", upcoming.ID},
		{ScopeUpcoming, upcoming.ID},
		{ScopePast, past.ID},
	}
	for _, tt := range tests {
		got, err := svc.ListAppointments(ctx, user.ID, tt.scope)
		if err != nil {
			t.Fatalf("ListAppointments(%q) failed: %v", tt.scope, err)
		}
		if len(got) != 1 || got[0].ID != tt.want {
			t.Errorf("ListAppointments(%q) = %+v", tt.scope, got)
		}
	}

	_, err = svc.ListAppointments(ctx, user.ID, "someday")
	assertValidation(t, err, "scope")

	updated, err := svc.UpdateAppointment(ctx, user.ID, upcoming.ID, models.AppointmentInput{
		AppointmentDate: "2024-03-22", DoctorName: "Dr. Lee", ReportID: ptr(""),
	})
	if err != nil {
		t.Fatalf("UpdateAppointment failed: %v", err)
	}
	if updated.AppointmentDate != "2024-03-22" || updated.ReportID != nil || updated.Memo != nil {
		t.Errorf("unexpected update %+v", updated)
	}

	if err := svc.DeleteAppointment(ctx, user.ID, past.ID); err != nil {
		t.Fatalf("DeleteAppointment failed: %v", err)
	}
	if _, err := svc.GetAppointment(ctx, user.ID, past.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted appointment error = %v, want ErrNotFound", err)
	}
}

func TestAppointmentRejectsForeignReport(t *testing.T) {
	ctx := context.Background()
	svc, user := setupService(t)
	other, err := svc.CreateUser(ctx, models.UserInput{Name: "Other", Email: "other@example.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	report, err := svc.GenerateReport(ctx, other.ID, models.ReportInput{AppointmentDate: "2024-03-20"})
	if err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	_, err = svc.CreateAppointment(ctx, user.ID, models.AppointmentInput{AppointmentDate: "2024-03-20", DoctorName: "Dr. Lee", ReportID: &report.ID})
	assertValidation(t, err, "report_id")

	_, err = svc.CreateAppointment(ctx, user.ID, models.AppointmentInput{})
	assertValidation(t, err, "appointment_date")
	assertValidation(t, err, "doctor_name")
}
