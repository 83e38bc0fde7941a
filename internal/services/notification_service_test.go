package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/validator"
)

func notificationFixture(repo *mockRepository, publisher events.EventPublisher) NotificationService {
	teacherID := "t1"
	repo.course.courses["c1"] = &models.Course{ID: "c1", Name: "Biología", TeacherID: &teacherID}
	repo.profile.profiles["s1"] = &models.Profile{ID: "s1", Role: models.RoleStudent}
	repo.profile.profiles["s2"] = &models.Profile{ID: "s2", Role: models.RoleStudent}
	repo.enrollment.Add(context.Background(), "c1", "s1")
	repo.enrollment.Add(context.Background(), "c1", "s2")

	enrollment := NewEnrollmentService(repo, testLogger(), events.NewMockEventPublisher(testLogger()))
	return NewNotificationService(repo, testLogger(), validator.New(), publisher, enrollment)
}

func TestNotifyCourseStudentsPublishesPerStudent(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := notificationFixture(repo, publisher)

	req := &NotificationRequest{Title: "Examen parcial", Message: "El examen es el viernes."}
	err := svc.NotifyCourseStudents(context.Background(), "c1", req, Actor{ID: "t1", Role: models.RoleTeacher})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 2 {
		t.Fatalf("expected one event per student, got %d", len(published))
	}
	for _, event := range published {
		if event.Type != events.EventNotificationSent {
			t.Errorf("unexpected event type %s", event.Type)
		}
		if event.Source != "lms-service" || event.Version != "1.0" {
			t.Errorf("malformed envelope: %+v", event)
		}
		data, ok := event.Data.(map[string]string)
		if !ok {
			t.Fatalf("unexpected payload type %T", event.Data)
		}
		if data["priority"] != "normal" {
			t.Errorf("expected default priority normal, got %s", data["priority"])
		}
	}
}

func TestNotifyCourseStudentsForbiddenForUnassignedTeacher(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := notificationFixture(repo, publisher)

	req := &NotificationRequest{Title: "Aviso", Message: "Hola"}
	err := svc.NotifyCourseStudents(context.Background(), "c1", req, Actor{ID: "t2", Role: models.RoleTeacher})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("no events should publish on denied request")
	}
}

func TestNotifyCourseStudentsValidatesRequest(t *testing.T) {
	repo := newMockRepository()
	svc := notificationFixture(repo, events.NewMockEventPublisher(testLogger()))

	err := svc.NotifyCourseStudents(context.Background(), "c1", &NotificationRequest{Title: "", Message: "x"}, Actor{ID: "t1", Role: models.RoleTeacher})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
}
