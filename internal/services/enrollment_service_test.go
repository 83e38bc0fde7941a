package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func strPtr(s string) *string { return &s }

func TestRosterFallsBackToLegacyOnlyWhenPrimaryEmpty(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewEnrollmentService(repo, testLogger(), publisher)

	admin := Actor{ID: "admin-1", Role: models.RoleAdmin}
	repo.course.courses["c1"] = &models.Course{ID: "c1", Name: "Historia", Code: "HIS-1"}
	repo.profile.profiles["s1"] = &models.Profile{ID: "s1", Role: models.RoleStudent}
	repo.profile.profiles["s2"] = &models.Profile{ID: "s2", Role: models.RoleStudent}

	repo.enrollment.legacyByCourse["c1"] = []*models.Enrollment{
		{CourseID: "c1", StudentID: "s1"},
		{CourseID: "c1", StudentID: "s2"},
	}

	roster, err := svc.Roster(context.Background(), "c1", admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roster.Source != models.EnrollmentTableLegacy {
		t.Errorf("expected legacy source, got %s", roster.Source)
	}
	if len(roster.Students) != 2 {
		t.Errorf("expected 2 students, got %d", len(roster.Students))
	}

	// Once the primary relation has rows, legacy must be ignored even
	// though it still holds data.
	repo.enrollment.primaryByCourse["c1"] = []*models.Enrollment{
		{CourseID: "c1", StudentID: "s1"},
	}

	roster, err = svc.Roster(context.Background(), "c1", admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roster.Source != models.EnrollmentTablePrimary {
		t.Errorf("expected primary source, got %s", roster.Source)
	}
	if len(roster.Students) != 1 {
		t.Errorf("expected 1 student, got %d", len(roster.Students))
	}
}

func TestRosterPrimaryErrorPropagatesWithoutFallback(t *testing.T) {
	repo := newMockRepository()
	svc := NewEnrollmentService(repo, testLogger(), events.NewMockEventPublisher(testLogger()))

	repo.course.courses["c1"] = &models.Course{ID: "c1"}
	repo.enrollment.primaryErr = errors.New("connection refused")
	repo.enrollment.legacyByCourse["c1"] = []*models.Enrollment{{CourseID: "c1", StudentID: "s1"}}

	_, err := svc.Roster(context.Background(), "c1", Actor{ID: "a", Role: models.RoleAdmin})
	if err == nil {
		t.Fatal("expected primary error to propagate")
	}
}

func TestRosterLegacyErrorDegradesToEmptyPrimary(t *testing.T) {
	repo := newMockRepository()
	svc := NewEnrollmentService(repo, testLogger(), events.NewMockEventPublisher(testLogger()))

	repo.course.courses["c1"] = &models.Course{ID: "c1"}
	repo.enrollment.legacyErr = errors.New(`relation "curso_estudiantes" does not exist`)

	roster, err := svc.Roster(context.Background(), "c1", Actor{ID: "a", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roster.Students) != 0 {
		t.Errorf("expected empty roster, got %d students", len(roster.Students))
	}
	if roster.Source != models.EnrollmentTablePrimary {
		t.Errorf("expected primary source, got %s", roster.Source)
	}
}

func TestStudentCoursesFallback(t *testing.T) {
	repo := newMockRepository()
	svc := NewEnrollmentService(repo, testLogger(), events.NewMockEventPublisher(testLogger()))

	repo.course.courses["c1"] = &models.Course{ID: "c1", Name: "Historia"}
	repo.enrollment.legacyByStudent["s1"] = []*models.Enrollment{{CourseID: "c1", StudentID: "s1"}}

	resp, err := svc.StudentCourses(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Source != models.EnrollmentTableLegacy {
		t.Errorf("expected legacy source, got %s", resp.Source)
	}
	if len(resp.Courses) != 1 || resp.Courses[0].ID != "c1" {
		t.Errorf("unexpected courses: %+v", resp.Courses)
	}
}

func TestIsEnrolledConsultsLegacy(t *testing.T) {
	repo := newMockRepository()
	svc := NewEnrollmentService(repo, testLogger(), events.NewMockEventPublisher(testLogger()))

	repo.enrollment.legacyByCourse["c1"] = []*models.Enrollment{{CourseID: "c1", StudentID: "s1"}}

	enrolled, err := svc.IsEnrolled(context.Background(), "c1", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !enrolled {
		t.Error("expected legacy-only student to count as enrolled")
	}

	enrolled, err = svc.IsEnrolled(context.Background(), "c1", "other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enrolled {
		t.Error("expected unknown student to not be enrolled")
	}
}

func TestEnrollRequiresAdminAndStudentRole(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewEnrollmentService(repo, testLogger(), publisher)
	ctx := context.Background()

	repo.course.courses["c1"] = &models.Course{ID: "c1"}
	repo.profile.profiles["s1"] = &models.Profile{ID: "s1", Role: models.RoleStudent}
	repo.profile.profiles["t1"] = &models.Profile{ID: "t1", Role: models.RoleTeacher}

	if err := svc.Enroll(ctx, "c1", &EnrollRequest{StudentID: "s1"}, Actor{ID: "t1", Role: models.RoleTeacher}); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for teacher actor, got %v", err)
	}

	if err := svc.Enroll(ctx, "c1", &EnrollRequest{StudentID: "t1"}, Actor{ID: "a1", Role: models.RoleAdmin}); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden when enrolling a teacher, got %v", err)
	}

	if err := svc.Enroll(ctx, "c1", &EnrollRequest{StudentID: "s1"}, Actor{ID: "a1", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.enrollment.added) != 1 {
		t.Fatalf("expected 1 enrollment write, got %d", len(repo.enrollment.added))
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventStudentEnrolled {
		t.Errorf("expected student_enrolled event, got %+v", published)
	}
}
