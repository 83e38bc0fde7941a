package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/mailer"
	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/storage"
	"github.com/aulalink/lms-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// FrontendBaseURL anchors the links embedded in transactional email
	// (email confirmation, password reset).
	FrontendBaseURL string
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	email     mailer.EmailService
	store     storage.ObjectStore
	config    ServiceManagerConfig

	// Service instances
	accountService      AccountService
	roleService         RoleService
	courseService       CourseService
	enrollmentService   EnrollmentService
	sessionService      SessionService
	homeworkService     HomeworkService
	submissionService   SubmissionService
	dashboardService    DashboardService
	notificationService NotificationService

	// Lifecycle management
	initialized bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
	email mailer.EmailService,
	store storage.ObjectStore,
	config ServiceManagerConfig,
) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		email:     email,
		store:     store,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.enrollmentService = NewEnrollmentService(sm.repo, sm.logger, sm.publisher)
	sm.courseService = NewCourseService(sm.repo, sm.logger, sm.validator, sm.publisher)
	sm.sessionService = NewSessionService(sm.repo, sm.logger, sm.validator, sm.store, sm.enrollmentService)
	sm.homeworkService = NewHomeworkService(sm.repo, sm.logger, sm.validator, sm.store, sm.publisher, sm.enrollmentService)
	sm.submissionService = NewSubmissionService(sm.repo, sm.logger, sm.validator, sm.store, sm.publisher, sm.enrollmentService)
	sm.accountService = NewAccountService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.email, sm.config.FrontendBaseURL)
	sm.roleService = NewRoleService(sm.repo, sm.logger, sm.validator, sm.publisher)
	sm.dashboardService = NewDashboardService(sm.repo, sm.logger, sm.enrollmentService)
	sm.notificationService = NewNotificationService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.enrollmentService)

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) ensureInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

func (sm *serviceManager) Account() AccountService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.accountService
}

func (sm *serviceManager) Role() RoleService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.roleService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.courseService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.enrollmentService
}

func (sm *serviceManager) Session() SessionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.sessionService
}

func (sm *serviceManager) Homework() HomeworkService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.homeworkService
}

func (sm *serviceManager) Submission() SubmissionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.submissionService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.dashboardService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.notificationService
}

// HealthCheck verifies the manager and its repository are usable
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	return sm.repo.Ping(ctx)
}

// Shutdown releases broker resources; repository shutdown is owned by
// the repository manager.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			return fmt.Errorf("failed to close event publisher: %w", err)
		}
	}

	sm.initialized = false
	return nil
}
