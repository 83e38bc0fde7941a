package services

import (
	"context"
	"fmt"

	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
)

// ===== STUB SUB-REPOSITORIES =====

type stubProfileRepo struct {
	profiles    map[string]*models.Profile
	updateErr   error
	roleUpdates map[string]models.UserRole
}

func newStubProfileRepo(profiles ...*models.Profile) *stubProfileRepo {
	m := make(map[string]*models.Profile)
	for _, p := range profiles {
		m[p.ID] = p
	}
	return &stubProfileRepo{profiles: m, roleUpdates: map[string]models.UserRole{}}
}

func (s *stubProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := s.profiles[id]; ok {
		return p, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	for _, p := range s.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *stubProfileRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error {
	s.profiles[profile.ID] = profile
	return nil
}

func (s *stubProfileRepo) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	p, ok := s.profiles[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Role = role
	s.roleUpdates[id] = role
	return nil
}

func (s *stubProfileRepo) List(ctx context.Context, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	var out []*models.Profile
	for _, p := range s.profiles {
		if filters.Role != nil && p.Role != *filters.Role {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (s *stubProfileRepo) ListByRole(ctx context.Context, role models.UserRole) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range s.profiles {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProfileRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, ok := s.profiles[id]
	return ok, nil
}

func (s *stubProfileRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, p := range s.profiles {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type enrollmentKey struct{ courseID, studentID string }

type stubEnrollmentRepo struct {
	primaryByCourse  map[string][]*models.Enrollment
	legacyByCourse   map[string][]*models.Enrollment
	primaryByStudent map[string][]*models.Enrollment
	legacyByStudent  map[string][]*models.Enrollment

	primaryErr error
	legacyErr  error

	added   []enrollmentKey
	removed []enrollmentKey
}

func newStubEnrollmentRepo() *stubEnrollmentRepo {
	return &stubEnrollmentRepo{
		primaryByCourse:  map[string][]*models.Enrollment{},
		legacyByCourse:   map[string][]*models.Enrollment{},
		primaryByStudent: map[string][]*models.Enrollment{},
		legacyByStudent:  map[string][]*models.Enrollment{},
	}
}

func (s *stubEnrollmentRepo) Add(ctx context.Context, courseID, studentID string) error {
	s.added = append(s.added, enrollmentKey{courseID, studentID})
	row := &models.Enrollment{CourseID: courseID, StudentID: studentID}
	s.primaryByCourse[courseID] = append(s.primaryByCourse[courseID], row)
	s.primaryByStudent[studentID] = append(s.primaryByStudent[studentID], row)
	return nil
}

func (s *stubEnrollmentRepo) Remove(ctx context.Context, courseID, studentID string) error {
	s.removed = append(s.removed, enrollmentKey{courseID, studentID})
	return nil
}

func (s *stubEnrollmentRepo) RemoveAllForCourse(ctx context.Context, courseID string) error {
	delete(s.primaryByCourse, courseID)
	return nil
}

func (s *stubEnrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error) {
	if s.primaryErr != nil {
		return nil, s.primaryErr
	}
	return s.primaryByCourse[courseID], nil
}

func (s *stubEnrollmentRepo) ListByCourseLegacy(ctx context.Context, courseID string) ([]*models.Enrollment, error) {
	if s.legacyErr != nil {
		return nil, s.legacyErr
	}
	return s.legacyByCourse[courseID], nil
}

func (s *stubEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	if s.primaryErr != nil {
		return nil, s.primaryErr
	}
	return s.primaryByStudent[studentID], nil
}

func (s *stubEnrollmentRepo) ListByStudentLegacy(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	if s.legacyErr != nil {
		return nil, s.legacyErr
	}
	return s.legacyByStudent[studentID], nil
}

type stubCourseRepo struct {
	courses map[string]*models.Course
}

func newStubCourseRepo(courses ...*models.Course) *stubCourseRepo {
	m := make(map[string]*models.Course)
	for _, c := range courses {
		m[c.ID] = c
	}
	return &stubCourseRepo{courses: m}
}

func (s *stubCourseRepo) Create(ctx context.Context, course *models.Course) error {
	for _, c := range s.courses {
		if c.Code == course.Code {
			return fmt.Errorf("duplicate code %s", course.Code)
		}
	}
	s.courses[course.ID] = course
	return nil
}

func (s *stubCourseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := s.courses[id]; ok {
		return c, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := s.courses[course.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.courses[course.ID] = course
	return nil
}

func (s *stubCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := s.courses[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *stubCourseRepo) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var out []*models.Course
	for _, c := range s.courses {
		if filters.TeacherID != nil && (c.TeacherID == nil || *c.TeacherID != *filters.TeacherID) {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (s *stubCourseRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range s.courses {
		if c.TeacherID != nil && *c.TeacherID == teacherID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCourseRepo) ListByIDs(ctx context.Context, ids []string) ([]*models.Course, error) {
	var out []*models.Course
	for _, id := range ids {
		if c, ok := s.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCourseRepo) SetTeacher(ctx context.Context, courseID string, teacherID *string) error {
	c, ok := s.courses[courseID]
	if !ok {
		return repositories.ErrNotFound
	}
	c.TeacherID = teacherID
	return nil
}

func (s *stubCourseRepo) GetStats(ctx context.Context, courseID string) (*repositories.CourseStats, error) {
	return &repositories.CourseStats{}, nil
}

type stubSessionRepo struct {
	sessions map[string]*models.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: map[string]*models.Session{}}
}

func (s *stubSessionRepo) Create(ctx context.Context, session *models.Session) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *stubSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubSessionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := s.sessions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *stubSessionRepo) ListByCourse(ctx context.Context, courseID string) ([]*models.Session, error) {
	var out []*models.Session
	for _, sess := range s.sessions {
		if sess.CourseID == courseID {
			out = append(out, sess)
		}
	}
	return out, nil
}

type stubHomeworkRepo struct {
	homeworks map[string]*models.Homework
}

func newStubHomeworkRepo() *stubHomeworkRepo {
	return &stubHomeworkRepo{homeworks: map[string]*models.Homework{}}
}

func (s *stubHomeworkRepo) Create(ctx context.Context, homework *models.Homework) error {
	s.homeworks[homework.ID] = homework
	return nil
}

func (s *stubHomeworkRepo) GetByID(ctx context.Context, id string) (*models.Homework, error) {
	if hw, ok := s.homeworks[id]; ok {
		return hw, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubHomeworkRepo) Delete(ctx context.Context, id string) error {
	if _, ok := s.homeworks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.homeworks, id)
	return nil
}

func (s *stubHomeworkRepo) ListByCourse(ctx context.Context, courseID string) ([]*models.Homework, error) {
	var out []*models.Homework
	for _, hw := range s.homeworks {
		if hw.CourseID == courseID {
			out = append(out, hw)
		}
	}
	return out, nil
}

func (s *stubHomeworkRepo) ListUpcomingByCourse(ctx context.Context, courseID string) ([]*models.Homework, error) {
	return s.ListByCourse(ctx, courseID)
}

type stubSubmissionRepo struct {
	submissions map[string]*models.Submission
	gradeCalls  []repositories.GradeUpdate
}

func newStubSubmissionRepo() *stubSubmissionRepo {
	return &stubSubmissionRepo{submissions: map[string]*models.Submission{}}
}

func (s *stubSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	s.submissions[submission.ID] = submission
	return nil
}

func (s *stubSubmissionRepo) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	if sub, ok := s.submissions[id]; ok {
		return sub, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubSubmissionRepo) ListByHomework(ctx context.Context, homeworkID string, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	var out []*models.Submission
	for _, sub := range s.submissions {
		if sub.HomeworkID == homeworkID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *stubSubmissionRepo) ListByStudentAndCourse(ctx context.Context, studentID, courseID string) ([]*models.Submission, error) {
	var out []*models.Submission
	for _, sub := range s.submissions {
		if sub.StudentID == studentID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *stubSubmissionRepo) GetByHomeworkAndStudent(ctx context.Context, homeworkID, studentID string) (*models.Submission, error) {
	for _, sub := range s.submissions {
		if sub.HomeworkID == homeworkID && sub.StudentID == studentID {
			return sub, nil
		}
	}
	return nil, nil
}

func (s *stubSubmissionRepo) Grade(ctx context.Context, update repositories.GradeUpdate) error {
	sub, ok := s.submissions[update.SubmissionID]
	if !ok {
		return repositories.ErrNotFound
	}
	s.gradeCalls = append(s.gradeCalls, update)
	score := update.Score
	sub.Score = &score
	sub.Feedback = update.Feedback
	graderID := update.GraderID
	sub.GradedBy = &graderID
	return nil
}

func (s *stubSubmissionRepo) GetGradingStats(ctx context.Context, homeworkID string) (*repositories.GradingStats, error) {
	stats := &repositories.GradingStats{}
	for _, sub := range s.submissions {
		if sub.HomeworkID != homeworkID {
			continue
		}
		stats.TotalSubmissions++
		if sub.IsGraded() {
			stats.GradedSubmissions++
		}
	}
	stats.PendingSubmissions = stats.TotalSubmissions - stats.GradedSubmissions
	return stats, nil
}

type stubOutboxRepo struct {
	entries []*models.RoleSyncOutbox
	nextID  uint
}

func newStubOutboxRepo() *stubOutboxRepo {
	return &stubOutboxRepo{}
}

func (s *stubOutboxRepo) Enqueue(ctx context.Context, entry *models.RoleSyncOutbox) error {
	s.nextID++
	entry.ID = s.nextID
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubOutboxRepo) Pending(ctx context.Context) ([]*models.RoleSyncOutbox, error) {
	var out []*models.RoleSyncOutbox
	for _, e := range s.entries {
		if e.SyncedAt == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubOutboxRepo) MarkSynced(ctx context.Context, id uint) error {
	for _, e := range s.entries {
		if e.ID == id {
			now := nowUTC()
			e.SyncedAt = &now
			return nil
		}
	}
	return repositories.ErrNotFound
}

type stubIdentityDirectory struct {
	identities map[string]*models.Identity

	createErr     error
	metadataErr   error
	passwordErr   error
	roleUpdates   map[string]models.UserRole
	passwordSets  map[string]string
	createdEmails []string
}

func newStubIdentityDirectory() *stubIdentityDirectory {
	return &stubIdentityDirectory{
		identities:   map[string]*models.Identity{},
		roleUpdates:  map[string]models.UserRole{},
		passwordSets: map[string]string{},
	}
}

func (s *stubIdentityDirectory) GetByID(ctx context.Context, id string) (*models.Identity, error) {
	if ident, ok := s.identities[id]; ok {
		return ident, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubIdentityDirectory) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	for _, ident := range s.identities {
		if ident.Email == email {
			return ident, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *stubIdentityDirectory) Create(ctx context.Context, email, password, displayName string, role models.UserRole) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	id := fmt.Sprintf("identity-%d", len(s.identities)+1)
	s.identities[id] = &models.Identity{ID: id, Email: email}
	s.createdEmails = append(s.createdEmails, email)
	return id, nil
}

func (s *stubIdentityDirectory) UpdateRoleMetadata(ctx context.Context, id string, role models.UserRole) error {
	if s.metadataErr != nil {
		return s.metadataErr
	}
	s.roleUpdates[id] = role
	return nil
}

func (s *stubIdentityDirectory) SetPassword(ctx context.Context, id, newPassword string) error {
	if s.passwordErr != nil {
		return s.passwordErr
	}
	s.passwordSets[id] = newPassword
	return nil
}

// ===== MOCK AGGREGATE REPOSITORY =====

type mockRepository struct {
	profile    *stubProfileRepo
	enrollment *stubEnrollmentRepo
	course     *stubCourseRepo
	session    *stubSessionRepo
	homework   *stubHomeworkRepo
	submission *stubSubmissionRepo
	roleOutbox *stubOutboxRepo
	identity   *stubIdentityDirectory
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		profile:    newStubProfileRepo(),
		enrollment: newStubEnrollmentRepo(),
		course:     newStubCourseRepo(),
		session:    newStubSessionRepo(),
		homework:   newStubHomeworkRepo(),
		submission: newStubSubmissionRepo(),
		roleOutbox: newStubOutboxRepo(),
		identity:   newStubIdentityDirectory(),
	}
}

func (m *mockRepository) Profile() repositories.ProfileRepository       { return m.profile }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository { return m.enrollment }
func (m *mockRepository) Course() repositories.CourseRepository         { return m.course }
func (m *mockRepository) Session() repositories.SessionRepository       { return m.session }
func (m *mockRepository) Homework() repositories.HomeworkRepository     { return m.homework }
func (m *mockRepository) Submission() repositories.SubmissionRepository { return m.submission }
func (m *mockRepository) RoleOutbox() repositories.RoleOutboxRepository { return m.roleOutbox }
func (m *mockRepository) Identity() repositories.IdentityDirectory      { return m.identity }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }
