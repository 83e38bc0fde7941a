package services

import (
	"context"
	"errors"

	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/validator"
)

// ===== SENTINEL ERRORS =====

var (
	ErrNotFound      = errors.New("resource not found")
	ErrUnauthorized  = errors.New("authentication required")
	ErrForbidden     = errors.New("operation not allowed for this role")
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrPartialUpdate signals a two-step role mutation whose first step
	// (profile) committed but whose second step (identity metadata) did
	// not. The mutation is queued for retry; callers should surface the
	// partial outcome rather than report failure.
	ErrPartialUpdate = errors.New("role updated but identity metadata sync pending")
)

// Actor identifies the authenticated caller for ownership checks.
type Actor struct {
	ID   string
	Role models.UserRole
}

// Upload is an in-memory file received from a multipart request.
type Upload struct {
	Filename string
	Data     []byte
}

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator request types
type RegisterRequest = validator.RegisterRequest
type RecoverRequest = validator.RecoverRequest
type ResetPasswordRequest = validator.ResetPasswordRequest
type RoleUpdateRequest = validator.RoleUpdateRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type AssignTeacherRequest = validator.AssignTeacherRequest
type EnrollRequest = validator.EnrollmentRequest
type CreateSessionRequest = validator.SessionCreateRequest
type CreateHomeworkRequest = validator.HomeworkCreateRequest
type CreateSubmissionRequest = validator.SubmissionCreateRequest
type GradeRequest = validator.GradeRequest

type RegisterResult struct {
	UserID  string          `json:"user_id"`
	Email   string          `json:"email"`
	Role    models.UserRole `json:"role"`
	Profile *models.Profile `json:"profile"`
}

type RoleUpdateResult struct {
	UserID         string          `json:"user_id"`
	Role           models.UserRole `json:"role"`
	MetadataSynced bool            `json:"metadata_synced"`
}

type UserListResponse struct {
	Users []*models.Profile `json:"users"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
}

type CourseResponse struct {
	*models.Course
	Teacher *models.Profile           `json:"teacher,omitempty"`
	Stats   *repositories.CourseStats `json:"stats,omitempty"`
}

type CourseListResponse struct {
	Courses []*CourseResponse `json:"courses"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
}

// RosterResponse annotates the roster with the relation it was read
// from, so a legacy-backed roster is visible in diagnostics.
type RosterResponse struct {
	Students []*models.Profile `json:"students"`
	Source   string            `json:"source"`
}

type StudentCoursesResponse struct {
	Courses []*models.Course `json:"courses"`
	Source  string           `json:"source"`
}

type HomeworkResponse struct {
	*models.Homework
	Submitted bool `json:"submitted"`
}

type SubmissionResponse struct {
	*models.Submission
	Student *models.Profile `json:"student,omitempty"`
}

type GradingOverview struct {
	Homework *models.Homework           `json:"homework"`
	Stats    *repositories.GradingStats `json:"stats"`
}

// ===== DASHBOARD DTOs =====

type AdminOverview struct {
	TotalUsers    int64 `json:"total_users"`
	TotalTeachers int64 `json:"total_teachers"`
	TotalStudents int64 `json:"total_students"`
	TotalCourses  int64 `json:"total_courses"`
}

type TeacherCourseSummary struct {
	Course       *models.Course `json:"course"`
	StudentCount int            `json:"student_count"`
	Homeworks    int            `json:"homeworks"`
	Pending      int            `json:"pending_submissions"`
}

type TeacherOverview struct {
	Courses []*TeacherCourseSummary `json:"courses"`
}

type StudentOverview struct {
	Courses          []*models.Course     `json:"courses"`
	UpcomingHomework []*models.Homework   `json:"upcoming_homework"`
	RecentGrades     []*models.Submission `json:"recent_grades"`
}

// NotificationRequest is a broadcast to a course's roster, delivered by
// downstream consumers of the event stream.
type NotificationRequest struct {
	Title    string `json:"title" validate:"required,entity_title"`
	Message  string `json:"message" validate:"required,max=2000"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high"`
}

// ===== SERVICE INTERFACES =====

type AccountService interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResult, error)
	RequestPasswordRecovery(ctx context.Context, req *RecoverRequest) error
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type RoleService interface {
	// UpdateRole performs the two-step mutation: profile row first, then
	// identity metadata. A failed second step returns ErrPartialUpdate
	// with the mutation queued for retry.
	UpdateRole(ctx context.Context, userID string, req *RoleUpdateRequest, actor Actor) (*RoleUpdateResult, error)

	// RetryMetadataSync drains the pending sync queue and returns how
	// many entries were synced.
	RetryMetadataSync(ctx context.Context) (int, error)

	ListUsers(ctx context.Context, filters repositories.ProfileFilters, actor Actor) (*UserListResponse, error)
}

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest, actor Actor) (*CourseResponse, error)
	GetByID(ctx context.Context, id string, actor Actor) (*CourseResponse, error)
	Update(ctx context.Context, id string, req *UpdateCourseRequest, actor Actor) (*CourseResponse, error)
	Delete(ctx context.Context, id string, actor Actor) error
	List(ctx context.Context, filters repositories.CourseFilters, actor Actor) (*CourseListResponse, error)
	AssignTeacher(ctx context.Context, courseID string, req *AssignTeacherRequest, actor Actor) error
}

type EnrollmentService interface {
	Enroll(ctx context.Context, courseID string, req *EnrollRequest, actor Actor) error
	Unenroll(ctx context.Context, courseID, studentID string, actor Actor) error

	// Roster reads the primary relation and falls back to the legacy one
	// only when the primary read succeeds with zero rows.
	Roster(ctx context.Context, courseID string, actor Actor) (*RosterResponse, error)

	// StudentCourses applies the same fallback in the student direction.
	StudentCourses(ctx context.Context, studentID string) (*StudentCoursesResponse, error)

	IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error)
}

type SessionService interface {
	Create(ctx context.Context, courseID string, req *CreateSessionRequest, attachment *Upload, actor Actor) (*models.Session, error)
	Delete(ctx context.Context, sessionID string, actor Actor) error
	ListByCourse(ctx context.Context, courseID string, actor Actor) ([]*models.Session, error)
}

type HomeworkService interface {
	Create(ctx context.Context, courseID string, req *CreateHomeworkRequest, attachment *Upload, actor Actor) (*models.Homework, error)
	Delete(ctx context.Context, homeworkID string, actor Actor) error
	ListByCourse(ctx context.Context, courseID string, actor Actor) ([]*HomeworkResponse, error)
	ListUpcoming(ctx context.Context, courseID string, actor Actor) ([]*HomeworkResponse, error)
}

type SubmissionService interface {
	Submit(ctx context.Context, homeworkID string, req *CreateSubmissionRequest, file *Upload, actor Actor) (*models.Submission, error)
	ListByHomework(ctx context.Context, homeworkID string, filters repositories.SubmissionFilters, actor Actor) ([]*SubmissionResponse, error)
	ListMine(ctx context.Context, courseID string, actor Actor) ([]*models.Submission, error)
	Grade(ctx context.Context, submissionID string, req *GradeRequest, actor Actor) (*models.Submission, error)
	GradingStats(ctx context.Context, homeworkID string, actor Actor) (*GradingOverview, error)

	// ExportGrades renders the homework's submissions and scores as an
	// xlsx workbook.
	ExportGrades(ctx context.Context, homeworkID string, actor Actor) ([]byte, error)
}

type DashboardService interface {
	AdminOverview(ctx context.Context) (*AdminOverview, error)
	TeacherOverview(ctx context.Context, teacherID string) (*TeacherOverview, error)
	StudentOverview(ctx context.Context, studentID string) (*StudentOverview, error)
}

type NotificationService interface {
	NotifyCourseStudents(ctx context.Context, courseID string, req *NotificationRequest, actor Actor) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Account() AccountService
	Role() RoleService
	Course() CourseService
	Enrollment() EnrollmentService
	Session() SessionService
	Homework() HomeworkService
	Submission() SubmissionService
	Dashboard() DashboardService
	Notification() NotificationService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
