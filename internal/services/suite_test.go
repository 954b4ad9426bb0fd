package services

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker-api/internal/logging"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
	"gorm.io/gorm"
)

var errStorageDown = errors.New("storage unavailable")

type failingHistoryRepo struct {
	repository.HistoryRepository
}

func (failingHistoryRepo) Create(context.Context, *models.TaskHistory) error {
	return errStorageDown
}

type failingNotificationRepo struct {
	repository.NotificationRepository
}

func (failingNotificationRepo) Create(context.Context, *models.Notification) error {
	return errStorageDown
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// ServiceTestSuite wires every service against an in-memory database
type ServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context

	userRepo         repository.UserRepository
	projectRepo      repository.ProjectRepository
	taskRepo         repository.TaskRepository
	commentRepo      repository.CommentRepository
	historyRepo      repository.HistoryRepository
	notificationRepo repository.NotificationRepository

	history       *HistoryService
	notifications *NotificationService
	tasks         *TaskService
	projects      *ProjectService
	comments      *CommentService
	reports       *ReportService
	auth          *AuthService

	creator  *models.User
	alice    *models.User
	bob      *models.User
	admin    *models.User
	project  *models.Project
	project2 *models.Project
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	suite.ctx = context.Background()

	suite.userRepo = repository.NewUserRepository(suite.db)
	suite.projectRepo = repository.NewProjectRepository(suite.db)
	suite.taskRepo = repository.NewTaskRepository(suite.db)
	suite.commentRepo = repository.NewCommentRepository(suite.db)
	suite.historyRepo = repository.NewHistoryRepository(suite.db)
	suite.notificationRepo = repository.NewNotificationRepository(suite.db)

	suite.wire(suite.historyRepo, suite.notificationRepo)

	suite.creator = suite.createUser("carol", models.RoleUser)
	suite.alice = suite.createUser("alice", models.RoleUser)
	suite.bob = suite.createUser("bob", models.RoleUser)
	suite.admin = suite.createUser("root", models.RoleAdmin)

	suite.project = &models.Project{Name: "Apollo"}
	suite.Require().NoError(suite.projectRepo.Create(suite.ctx, suite.project))
	suite.project2 = &models.Project{Name: "Gemini"}
	suite.Require().NoError(suite.projectRepo.Create(suite.ctx, suite.project2))
}

// wire builds the services on top of the given log repositories
func (suite *ServiceTestSuite) wire(historyRepo repository.HistoryRepository, notificationRepo repository.NotificationRepository) {
	suite.history = NewHistoryService(historyRepo, suite.userRepo, suite.taskRepo)
	suite.notifications = NewNotificationService(notificationRepo, suite.userRepo, suite.taskRepo, nil, logging.Discard())
	suite.tasks = NewTaskService(suite.taskRepo, suite.projectRepo, suite.userRepo, suite.history, suite.notifications, nil)
	suite.projects = NewProjectService(suite.projectRepo, suite.notifications)
	suite.comments = NewCommentService(suite.commentRepo, suite.taskRepo, suite.userRepo, suite.notifications)
	suite.reports = NewReportService(suite.taskRepo, suite.projectRepo, suite.userRepo)
	suite.auth = NewAuthService(suite.userRepo)
}

func (suite *ServiceTestSuite) createUser(username string, role models.UserRole) *models.User {
	user := &models.User{Username: username, PasswordHash: "x", Role: role, Email: username + "@example.com"}
	suite.Require().NoError(suite.userRepo.Create(suite.ctx, user))
	return user
}

func (suite *ServiceTestSuite) createTask(title string, assignee *models.User) *models.Task {
	input := CreateTaskInput{
		Title:     title,
		ProjectID: suite.project.ID,
		CreatedBy: suite.creator.ID,
	}
	if assignee != nil {
		input.AssignedTo = &assignee.ID
	}
	details, err := suite.tasks.CreateTask(suite.ctx, input)
	suite.Require().NoError(err)
	return &details.Task
}

func (suite *ServiceTestSuite) historyFor(taskID uint64) []models.TaskHistory {
	var entries []models.TaskHistory
	suite.Require().NoError(suite.db.Where("task_id = ?", taskID).Order("created_at ASC").Find(&entries).Error)
	return entries
}

func (suite *ServiceTestSuite) actions(taskID uint64) []models.HistoryAction {
	var out []models.HistoryAction
	for _, e := range suite.historyFor(taskID) {
		out = append(out, e.Action)
	}
	return out
}

func (suite *ServiceTestSuite) allNotifications() []models.Notification {
	var out []models.Notification
	suite.Require().NoError(suite.db.Order("created_at ASC").Find(&out).Error)
	return out
}

func (suite *ServiceTestSuite) notificationsOf(userID uint64, notificationType models.NotificationType) []models.Notification {
	var out []models.Notification
	suite.Require().NoError(suite.db.Where("user_id = ? AND type = ?", userID, notificationType).Find(&out).Error)
	return out
}

func (suite *ServiceTestSuite) countNotifications() int64 {
	var n int64
	suite.Require().NoError(suite.db.Model(&models.Notification{}).Count(&n).Error)
	return n
}

func (suite *ServiceTestSuite) countHistory() int64 {
	var n int64
	suite.Require().NoError(suite.db.Model(&models.TaskHistory{}).Count(&n).Error)
	return n
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}
