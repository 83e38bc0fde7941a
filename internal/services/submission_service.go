package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/storage"
	"github.com/aulalink/lms-service/internal/validator"
)

type submissionService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	store      storage.ObjectStore
	publisher  events.EventPublisher
	enrollment EnrollmentService
}

func NewSubmissionService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	store storage.ObjectStore,
	publisher events.EventPublisher,
	enrollment EnrollmentService,
) SubmissionService {
	return &submissionService{
		repo:       repo,
		logger:     logger,
		validator:  validator,
		store:      store,
		publisher:  publisher,
		enrollment: enrollment,
	}
}

// ===== STUDENT OPERATIONS =====

// Submit records a student's answer. A file is required for file
// delivery; text answers ride the request body. Resubmission before
// grading is not allowed.
func (s *submissionService) Submit(ctx context.Context, homeworkID string, req *CreateSubmissionRequest, file *Upload, actor Actor) (*models.Submission, error) {
	if actor.Role != models.RoleStudent {
		return nil, ErrForbidden
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	homework, err := s.repo.Homework().GetByID(ctx, homeworkID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	enrolled, err := s.enrollment.IsEnrolled(ctx, homework.CourseID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrForbidden
	}

	existing, err := s.repo.Submission().GetByHomeworkAndStudent(ctx, homeworkID, actor.ID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: homework already submitted", ErrAlreadyExists)
	}

	if homework.DeliveryType == models.DeliveryFile && file == nil {
		return nil, validator.ValidationErrors{{Field: "file", Message: "is required for this homework", Rule: "required"}}
	}

	submission := &models.Submission{
		ID:         newID(),
		HomeworkID: homeworkID,
		StudentID:  actor.ID,
		TextAnswer: req.TextAnswer,
	}

	if file != nil {
		stored, err := s.store.Upload(ctx, actor.ID, "submissions", file.Filename, file.Data)
		if err != nil {
			return nil, err
		}
		submission.FileURL = stored.URL
		submission.FileName = file.Filename
	}

	if err := s.repo.Submission().Create(ctx, submission); err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "submission created",
		"submission_id", submission.ID,
		"homework_id", homeworkID,
		"student_id", actor.ID,
	)

	event := events.NewEvent(events.EventSubmissionCreated, map[string]string{
		"submission_id": submission.ID,
		"homework_id":   homeworkID,
		"student_id":    actor.ID,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish submission event", "error", err)
	}

	return submission, nil
}

func (s *submissionService) ListMine(ctx context.Context, courseID string, actor Actor) ([]*models.Submission, error) {
	if actor.Role != models.RoleStudent {
		return nil, ErrForbidden
	}

	submissions, err := s.repo.Submission().ListByStudentAndCourse(ctx, actor.ID, courseID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return submissions, nil
}

// ===== TEACHER OPERATIONS =====

func (s *submissionService) ListByHomework(ctx context.Context, homeworkID string, filters repositories.SubmissionFilters, actor Actor) ([]*SubmissionResponse, error) {
	if _, err := s.getManagedHomework(ctx, homeworkID, actor); err != nil {
		return nil, err
	}

	submissions, err := s.repo.Submission().ListByHomework(ctx, homeworkID, filters)
	if err != nil {
		return nil, mapRepoError(err)
	}

	ids := make([]string, 0, len(submissions))
	for _, sub := range submissions {
		ids = append(ids, sub.StudentID)
	}
	profiles, err := s.repo.Profile().GetByIDs(ctx, ids)
	if err != nil {
		return nil, mapRepoError(err)
	}
	byID := make(map[string]*models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	out := make([]*SubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		out = append(out, &SubmissionResponse{
			Submission: sub,
			Student:    byID[sub.StudentID],
		})
	}
	return out, nil
}

func (s *submissionService) Grade(ctx context.Context, submissionID string, req *GradeRequest, actor Actor) (*models.Submission, error) {
	if errs := s.validator.ValidateGrade(req); len(errs) > 0 {
		return nil, errs
	}

	submission, err := s.repo.Submission().GetByID(ctx, submissionID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if _, err := s.getManagedHomework(ctx, submission.HomeworkID, actor); err != nil {
		return nil, err
	}

	update := repositories.GradeUpdate{
		SubmissionID: submissionID,
		Score:        req.Score,
		Feedback:     req.Feedback,
		GraderID:     actor.ID,
	}
	if err := s.repo.Submission().Grade(ctx, update); err != nil {
		return nil, mapRepoError(err)
	}

	graded, err := s.repo.Submission().GetByID(ctx, submissionID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "submission graded",
		"submission_id", submissionID,
		"score", req.Score,
		"grader_id", actor.ID,
	)

	event := events.NewEvent(events.EventSubmissionGraded, map[string]interface{}{
		"submission_id": submissionID,
		"student_id":    graded.StudentID,
		"score":         req.Score,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish grading event", "error", err)
	}

	return graded, nil
}

func (s *submissionService) GradingStats(ctx context.Context, homeworkID string, actor Actor) (*GradingOverview, error) {
	homework, err := s.getManagedHomework(ctx, homeworkID, actor)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.Submission().GetGradingStats(ctx, homeworkID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	return &GradingOverview{Homework: homework, Stats: stats}, nil
}

// ExportGrades renders one row per submission with student, timing and
// score columns.
func (s *submissionService) ExportGrades(ctx context.Context, homeworkID string, actor Actor) ([]byte, error) {
	homework, err := s.getManagedHomework(ctx, homeworkID, actor)
	if err != nil {
		return nil, err
	}

	responses, err := s.ListByHomework(ctx, homeworkID, repositories.SubmissionFilters{}, actor)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Calificaciones"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Estudiante", "Correo", "Entregado", "Archivo", "Calificación", "Retroalimentación"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, resp := range responses {
		name, email := resp.StudentID, ""
		if resp.Student != nil {
			name = resp.Student.DisplayName()
			email = resp.Student.Email
		}

		values := []interface{}{
			name,
			email,
			resp.SubmittedAt.Format("2006-01-02 15:04"),
			resp.FileName,
		}
		if resp.Score != nil {
			values = append(values, *resp.Score)
		} else {
			values = append(values, "")
		}
		if resp.Feedback != nil {
			values = append(values, *resp.Feedback)
		} else {
			values = append(values, "")
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render grade export: %w", err)
	}

	s.logger.InfoContext(ctx, "grades exported",
		"homework_id", homework.ID,
		"rows", len(responses),
		"actor_id", actor.ID,
	)
	return buf.Bytes(), nil
}

// ===== HELPERS =====

func (s *submissionService) getManagedHomework(ctx context.Context, homeworkID string, actor Actor) (*models.Homework, error) {
	homework, err := s.repo.Homework().GetByID(ctx, homeworkID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if _, err := getManagedCourse(ctx, s.repo, homework.CourseID, actor); err != nil {
		return nil, err
	}
	return homework, nil
}
