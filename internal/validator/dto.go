package validator

// RegisterRequest is the payload for account registration
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// RecoverRequest asks for a password recovery email
type RecoverRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest applies a password reset
type ResetPasswordRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// RoleUpdateRequest changes a user's role
type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required,user_role"`
}

// CourseCreateRequest creates a course
type CourseCreateRequest struct {
	Name        string  `json:"name" validate:"required,entity_title"`
	Code        string  `json:"code" validate:"required,course_code"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	TeacherID   *string `json:"teacher_id" validate:"omitempty"`
}

// CourseUpdateRequest updates course attributes; nil fields are untouched
type CourseUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,entity_title"`
	Code        *string `json:"code" validate:"omitempty,course_code"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// AssignTeacherRequest assigns (or clears, with nil) the course teacher
type AssignTeacherRequest struct {
	TeacherID *string `json:"teacher_id"`
}

// EnrollmentRequest enrolls a student into a course
type EnrollmentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

// SessionCreateRequest creates a class session. Sent as multipart form
// data so an attachment can travel with it.
type SessionCreateRequest struct {
	Title       string  `json:"title" form:"title" validate:"required,entity_title"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=2000"`
}

// HomeworkCreateRequest creates a homework with its submission window.
// Sent as multipart form data so an attachment can travel with it.
type HomeworkCreateRequest struct {
	Title        string  `json:"title" form:"title" validate:"required,entity_title"`
	Instructions *string `json:"instructions" form:"instructions" validate:"omitempty,max=5000"`
	StartDate    string  `json:"start_date" form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string  `json:"end_date" form:"end_date" validate:"required,datetime=2006-01-02"`
	StartTime    *string `json:"start_time" form:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime      *string `json:"end_time" form:"end_time" validate:"omitempty,datetime=15:04"`
	DeliveryType string  `json:"delivery_type" form:"delivery_type" validate:"required,delivery_type"`
}

// SubmissionCreateRequest submits an answer to a homework. The file, if
// any, travels as multipart alongside this payload.
type SubmissionCreateRequest struct {
	TextAnswer *string `json:"text_answer" form:"text_answer" validate:"omitempty,max=20000"`
}

// GradeRequest records a teacher's grade for a submission
type GradeRequest struct {
	Score    float64 `json:"score" validate:"score_range"`
	Feedback *string `json:"feedback" validate:"omitempty,max=5000"`
}
