package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/services"
	"github.com/aulalink/lms-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	service      services.CourseService
	enrollments  services.EnrollmentService
	notification services.NotificationService
}

func NewCourseHandler(
	service services.CourseService,
	enrollments services.EnrollmentService,
	notification services.NotificationService,
	logger utils.Logger,
) *CourseHandler {
	return &CourseHandler{
		BaseHandler:  NewBaseHandler(logger),
		service:      service,
		enrollments:  enrollments,
		notification: notification,
	}
}

// ===== CORE CRUD ENDPOINTS =====

// CreateCourse creates a new course.
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Param request body services.CreateCourseRequest true "Course data"
// @Success 201 {object} services.CourseResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	h.LogRequest(c, "Creating course")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	course, err := h.service.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse returns one course with its teacher and stats.
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} services.CourseResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	course, err := h.service.GetByID(c.Request.Context(), c.Param("course_id"), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse updates course attributes.
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body services.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} services.CourseResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	h.LogRequest(c, "Updating course")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	course, err := h.service.Update(c.Request.Context(), c.Param("course_id"), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course and its roster.
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	h.LogRequest(c, "Deleting course")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("course_id"), actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Course deleted"})
}

// ListCourses lists courses with filters.
// @Summary List courses
// @Tags courses
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param q query string false "Search query (name or code)"
// @Param teacher_id query string false "Filter by assigned teacher"
// @Param sort_by query string false "Sort column (created_at, name, code)"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} services.CourseListResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	filters := repositories.CourseFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if q := c.Query("q"); q != "" {
		filters.Query = &q
	}
	if teacherID := c.Query("teacher_id"); teacherID != "" {
		filters.TeacherID = &teacherID
	}

	result, err := h.service.List(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AssignTeacher assigns (or clears) the course's teacher.
// @Summary Assign a teacher to a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body services.AssignTeacherRequest true "Teacher assignment"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/courses/{id}/teacher [put]
func (h *CourseHandler) AssignTeacher(c *gin.Context) {
	h.LogRequest(c, "Assigning course teacher")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.AssignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.service.AssignTeacher(c.Request.Context(), c.Param("course_id"), &req, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Teacher assigned"})
}

// ===== ENROLLMENT ENDPOINTS =====

// EnrollStudent adds a student to the course roster.
// @Summary Enroll a student
// @Tags enrollments
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body services.EnrollRequest true "Student to enroll"
// @Success 201 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/courses/{id}/students [post]
func (h *CourseHandler) EnrollStudent(c *gin.Context) {
	h.LogRequest(c, "Enrolling student")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.enrollments.Enroll(c.Request.Context(), c.Param("course_id"), &req, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: "Student enrolled"})
}

// UnenrollStudent removes a student from the course roster.
// @Summary Unenroll a student
// @Tags enrollments
// @Produce json
// @Param id path string true "Course ID"
// @Param student_id path string true "Student ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/courses/{id}/students/{student_id} [delete]
func (h *CourseHandler) UnenrollStudent(c *gin.Context) {
	h.LogRequest(c, "Unenrolling student")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	if err := h.enrollments.Unenroll(c.Request.Context(), c.Param("course_id"), c.Param("student_id"), actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Student unenrolled"})
}

// GetRoster returns the course's enrolled students.
// @Summary Get course roster
// @Tags enrollments
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} services.RosterResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /courses/{id}/students [get]
func (h *CourseHandler) GetRoster(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	roster, err := h.enrollments.Roster(c.Request.Context(), c.Param("course_id"), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roster)
}

// MyCourses returns the courses the calling student is enrolled in.
// @Summary Get own enrolled courses
// @Tags enrollments
// @Produce json
// @Success 200 {object} services.StudentCoursesResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /student/courses [get]
func (h *CourseHandler) MyCourses(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	courses, err := h.enrollments.StudentCourses(c.Request.Context(), actor.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// ===== NOTIFICATION ENDPOINTS =====

// NotifyStudents broadcasts a notification to the course's roster.
// @Summary Notify a course's students
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body services.NotificationRequest true "Notification content"
// @Success 202 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /courses/{id}/notifications [post]
func (h *CourseHandler) NotifyStudents(c *gin.Context) {
	h.LogRequest(c, "Notifying course students")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.notification.NotifyCourseStudents(c.Request.Context(), c.Param("course_id"), &req, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{Message: "Notification queued"})
}
