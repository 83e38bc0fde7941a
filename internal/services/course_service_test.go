package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/validator"
)

func newCourseService(repo *mockRepository, publisher events.EventPublisher) CourseService {
	return NewCourseService(repo, testLogger(), validator.New(), publisher)
}

func TestCourseCreateAdminOnly(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := newCourseService(repo, publisher)

	req := &CreateCourseRequest{Name: "Matemáticas", Code: "mat-101"}

	_, err := svc.Create(context.Background(), req, Actor{ID: "t1", Role: models.RoleTeacher})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for teacher, got %v", err)
	}

	resp, err := svc.Create(context.Background(), req, Actor{ID: "admin", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Code != "MAT-101" {
		t.Errorf("expected normalized code MAT-101, got %s", resp.Code)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventCourseCreated {
		t.Errorf("expected course_created event, got %+v", published)
	}
}

func TestCourseCreateRejectsNonTeacherAssignment(t *testing.T) {
	repo := newMockRepository()
	svc := newCourseService(repo, events.NewMockEventPublisher(testLogger()))

	repo.profile.profiles["s1"] = &models.Profile{ID: "s1", Role: models.RoleStudent}

	studentID := "s1"
	_, err := svc.Create(context.Background(), &CreateCourseRequest{Name: "Química", Code: "QUI-1", TeacherID: &studentID}, Actor{ID: "admin", Role: models.RoleAdmin})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden when assigning a student as teacher, got %v", err)
	}
}

func TestCourseGetTeacherScoped(t *testing.T) {
	repo := newMockRepository()
	svc := newCourseService(repo, events.NewMockEventPublisher(testLogger()))

	ownerID := "t1"
	repo.course.courses["c1"] = &models.Course{ID: "c1", Name: "Historia", TeacherID: &ownerID}

	if _, err := svc.GetByID(context.Background(), "c1", Actor{ID: "t1", Role: models.RoleTeacher}); err != nil {
		t.Fatalf("assigned teacher should read own course: %v", err)
	}

	_, err := svc.GetByID(context.Background(), "c1", Actor{ID: "t2", Role: models.RoleTeacher})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unassigned teacher, got %v", err)
	}
}

func TestCourseListForcesTeacherFilter(t *testing.T) {
	repo := newMockRepository()
	svc := newCourseService(repo, events.NewMockEventPublisher(testLogger()))

	mine, other := "t1", "t2"
	repo.course.courses["c1"] = &models.Course{ID: "c1", TeacherID: &mine}
	repo.course.courses["c2"] = &models.Course{ID: "c2", TeacherID: &other}

	// Even asking for another teacher's courses, a teacher only sees
	// their own.
	resp, err := svc.List(context.Background(), repositories.CourseFilters{TeacherID: &other}, Actor{ID: "t1", Role: models.RoleTeacher})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Courses) != 1 || resp.Courses[0].ID != "c1" {
		t.Errorf("expected only own course, got %+v", resp.Courses)
	}
}

func TestCourseDeleteClearsRoster(t *testing.T) {
	repo := newMockRepository()
	svc := newCourseService(repo, events.NewMockEventPublisher(testLogger()))

	repo.course.courses["c1"] = &models.Course{ID: "c1"}
	repo.enrollment.Add(context.Background(), "c1", "s1")

	if err := svc.Delete(context.Background(), "c1", Actor{ID: "admin", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.course.courses["c1"]; ok {
		t.Error("course not deleted")
	}
	if rows := repo.enrollment.primaryByCourse["c1"]; len(rows) != 0 {
		t.Errorf("roster not cleared: %+v", rows)
	}
}
