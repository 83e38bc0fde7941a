package repositories

import (
	"time"

	"github.com/aulalink/lms-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ProfileFilters struct {
	Query  string           // Search query for name or email
	Role   *models.UserRole // Restrict to a single role
	Limit  int              // Page size
	Offset int              // Offset for pagination
}

type CourseFilters struct {
	TeacherID *string    `json:"teacher_id"`
	Query     *string    `json:"query"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "created_at", "name", "code"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

type SubmissionFilters struct {
	IsGraded *bool      `json:"is_graded"`
	GradedBy *string    `json:"graded_by"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

// ===== SHARED HELPER STRUCTS =====

// EnrollmentSource names the relation a roster read was satisfied from.
type EnrollmentSource string

const (
	SourcePrimary EnrollmentSource = models.EnrollmentTablePrimary
	SourceLegacy  EnrollmentSource = models.EnrollmentTableLegacy
)

// EnrollmentResult is a roster read annotated with the relation that
// satisfied it, for diagnostics.
type EnrollmentResult struct {
	Rows   []*models.Enrollment `json:"rows"`
	Source EnrollmentSource     `json:"source"`
}

// GradeUpdate carries a teacher's grading of a single submission.
type GradeUpdate struct {
	SubmissionID string   `json:"submission_id"`
	Score        float64  `json:"score"`
	Feedback     *string  `json:"feedback"`
	GraderID     string   `json:"grader_id"`
}

// ===== SHARED STATISTICS STRUCTS =====

type CourseStats struct {
	SessionCount    int `json:"session_count"`
	HomeworkCount   int `json:"homework_count"`
	StudentCount    int `json:"student_count"`
	SubmissionCount int `json:"submission_count"`
}

type GradingStats struct {
	TotalSubmissions   int     `json:"total_submissions"`
	GradedSubmissions  int     `json:"graded_submissions"`
	PendingSubmissions int     `json:"pending_submissions"`
	AverageScore       float64 `json:"average_score"`
}
