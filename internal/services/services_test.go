package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/project-tracker-api/internal/auth"
	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/database"
	apperrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"github.com/yukikurage/project-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// vanishingUserProjectRepo deletes a user right before writing, as a
// concurrent request would, and reports the resulting constraint error.
type vanishingUserProjectRepo struct {
	repository.ProjectRepository
	db     *gorm.DB
	userID uint64
}

func (r *vanishingUserProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.Delete(&models.User{}, r.userID).Error; err != nil {
		return err
	}
	return fmt.Errorf("insert project_users: %w", gorm.ErrForeignKeyViolated)
}

func (r *vanishingUserProjectRepo) Update(ctx context.Context, project *models.Project, replaceUsers bool) error {
	return r.Create(ctx, project)
}

type mockDrafter struct {
	mock.Mock
}

func (m *mockDrafter) DraftTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	args := m.Called(ctx, text)
	drafts, _ := args.Get(0).([]TaskDraft)
	return drafts, args.Error(1)
}

type ServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	ctx      context.Context
	authSvc  *AuthService
	projects *ProjectService
	tasks    *TaskService
	drafter  *mockDrafter
	owner    *models.User
	other    *models.User
}

func (s *ServiceTestSuite) SetupTest() {
	db, err := database.OpenMemory()
	s.Require().NoError(err)
	s.db = db
	s.ctx = context.Background()

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	s.drafter = &mockDrafter{}
	s.authSvc = NewAuthService(userRepo, auth.NewJWTManager("secret", "test", time.Minute, time.Hour))
	s.projects = NewProjectService(projectRepo, userRepo)
	s.tasks = NewTaskService(taskRepo, projectRepo, s.drafter)

	s.owner, err = s.authSvc.Signup(s.ctx, SignupInput{Username: "owner", Password: "pw"})
	s.Require().NoError(err)
	s.other, err = s.authSvc.Signup(s.ctx, SignupInput{Username: "other", Password: "pw"})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *ServiceTestSuite) requireFieldError(err error, field, message string) {
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields[field], message)
}

func (s *ServiceTestSuite) newProject(name string) *models.Project {
	project, err := s.projects.CreateProject(s.ctx, CreateProjectInput{
		Name:        name,
		Description: "desc",
		CreatorID:   s.owner.ID,
	})
	s.Require().NoError(err)
	return project
}

func (s *ServiceTestSuite) newTask(projectID uint64, title string) *models.Task {
	task, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{
		ProjectID:   projectID,
		Title:       title,
		Description: "d",
		Status:      models.TaskStatusPending,
		DueDate:     time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		CreatorID:   s.owner.ID,
	})
	s.Require().NoError(err)
	return task
}

// Auth

func (s *ServiceTestSuite) TestSignup_HashesPassword() {
	user, err := s.authSvc.Signup(s.ctx, SignupInput{Username: "alice", Email: "a@example.com", Password: "secret"})
	s.Require().NoError(err)
	s.NotEqual("secret", user.PasswordHash)
	s.NotEmpty(user.PasswordHash)
	s.Equal("a@example.com", user.Email)
}

func (s *ServiceTestSuite) TestSignup_RejectsBlankAndDuplicate() {
	var before int64
	s.Require().NoError(s.db.Model(&models.User{}).Count(&before).Error)

	_, err := s.authSvc.Signup(s.ctx, SignupInput{Username: " ", Password: ""})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "username")
	s.Contains(verr.Fields, "password")

	_, err = s.authSvc.Signup(s.ctx, SignupInput{Username: "owner", Password: "pw"})
	s.requireFieldError(err, "username", MsgUsernameTaken)

	var after int64
	s.Require().NoError(s.db.Model(&models.User{}).Count(&after).Error)
	s.Equal(before, after)
}

func (s *ServiceTestSuite) TestSignup_LongPassword() {
	password := strings.Repeat("a", 100)
	user, err := s.authSvc.Signup(s.ctx, SignupInput{Username: "longpw", Password: password})
	s.Require().NoError(err)
	s.NotEmpty(user.PasswordHash)

	_, err = s.authSvc.Login(s.ctx, LoginInput{Username: "longpw", Password: password})
	s.NoError(err)

	// only the first 72 bytes match
	_, err = s.authSvc.Login(s.ctx, LoginInput{Username: "longpw", Password: password[:72]})
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.authSvc.Login(s.ctx, LoginInput{Username: "longpw", Password: password[:99] + "b"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestSignup_UsernameTooLong() {
	_, err := s.authSvc.Signup(s.ctx, SignupInput{
		Username: strings.Repeat("u", constants.MaxUsernameLength+1),
		Password: "pw",
	})
	s.requireFieldError(err, "username", apperrors.MsgMaxLength(constants.MaxUsernameLength))
}

func (s *ServiceTestSuite) TestLoginAndRefresh() {
	pair, err := s.authSvc.Login(s.ctx, LoginInput{Username: "owner", Password: "pw"})
	s.Require().NoError(err)
	s.NotEmpty(pair.Access)

	access, err := s.authSvc.Refresh(pair.Refresh)
	s.Require().NoError(err)
	s.NotEmpty(access)

	_, err = s.authSvc.Refresh(pair.Access)
	s.ErrorIs(err, ErrTokenInvalid)

	_, err = s.authSvc.Login(s.ctx, LoginInput{Username: "owner", Password: "wrong"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.authSvc.Login(s.ctx, LoginInput{Username: "nobody", Password: "pw"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestGetUser() {
	user, err := s.authSvc.GetUser(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Equal("owner", user.Username)

	_, err = s.authSvc.GetUser(s.ctx, 999)
	s.ErrorIs(err, ErrUserNotFound)
}

// Projects

func (s *ServiceTestSuite) TestCreateProject_WithUsers() {
	project, err := s.projects.CreateProject(s.ctx, CreateProjectInput{
		Name:        "P1",
		Description: "desc",
		UserIDs:     []uint64{s.other.ID, s.owner.ID, s.other.ID},
		CreatorID:   s.owner.ID,
	})
	s.Require().NoError(err)
	s.Equal(s.owner.ID, project.CreatedByID)
	s.ElementsMatch([]uint64{s.owner.ID, s.other.ID}, project.UserIDs())
}

func (s *ServiceTestSuite) TestCreateProject_UnknownUser() {
	_, err := s.projects.CreateProject(s.ctx, CreateProjectInput{
		Name:        "P1",
		Description: "desc",
		UserIDs:     []uint64{s.owner.ID, 999},
		CreatorID:   s.owner.ID,
	})
	s.requireFieldError(err, "users", apperrors.MsgInvalidPK(999))
}

func (s *ServiceTestSuite) TestCreateProject_NameTooLong() {
	_, err := s.projects.CreateProject(s.ctx, CreateProjectInput{
		Name:        strings.Repeat("n", constants.MaxNameLength+1),
		Description: "desc",
		CreatorID:   s.owner.ID,
	})
	s.requireFieldError(err, "name", apperrors.MsgMaxLength(constants.MaxNameLength))
}

func (s *ServiceTestSuite) TestWriteProject_UserRemovedConcurrently() {
	userRepo := repository.NewUserRepository(s.db)
	racing := NewProjectService(&vanishingUserProjectRepo{
		ProjectRepository: repository.NewProjectRepository(s.db),
		db:                s.db,
		userID:            s.other.ID,
	}, userRepo)

	_, err := racing.CreateProject(s.ctx, CreateProjectInput{
		Name:        "P1",
		Description: "desc",
		UserIDs:     []uint64{s.owner.ID, s.other.ID},
		CreatorID:   s.owner.ID,
	})
	s.requireFieldError(err, "users", apperrors.MsgInvalidPK(s.other.ID))

	project := s.newProject("P2")
	users := []uint64{s.owner.ID}
	third, err := s.authSvc.Signup(s.ctx, SignupInput{Username: "third", Password: "pw"})
	s.Require().NoError(err)
	users = append(users, third.ID)
	racing = NewProjectService(&vanishingUserProjectRepo{
		ProjectRepository: repository.NewProjectRepository(s.db),
		db:                s.db,
		userID:            third.ID,
	}, userRepo)

	_, err = racing.UpdateProject(s.ctx, project.ID, UpdateProjectInput{UserIDs: &users})
	s.requireFieldError(err, "users", apperrors.MsgInvalidPK(third.ID))
}

func (s *ServiceTestSuite) TestCreateProject_DuplicateNameIncludingDeleted() {
	project := s.newProject("P1")
	s.Require().NoError(s.projects.DeleteProject(s.ctx, project.ID))

	_, err := s.projects.CreateProject(s.ctx, CreateProjectInput{Name: "P1", Description: "again", CreatorID: s.owner.ID})
	s.requireFieldError(err, "name", MsgProjectNameTaken)

	var count int64
	s.Require().NoError(s.db.Model(&models.Project{}).Where("name = ?", "P1").Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *ServiceTestSuite) TestUpdateProject() {
	project := s.newProject("P1")
	s.newProject("P2")

	name := "P2"
	_, err := s.projects.UpdateProject(s.ctx, project.ID, UpdateProjectInput{Name: &name})
	s.requireFieldError(err, "name", MsgProjectNameTaken)

	same := "P1"
	desc := "new description"
	users := []uint64{s.other.ID}
	updated, err := s.projects.UpdateProject(s.ctx, project.ID, UpdateProjectInput{Name: &same, Description: &desc, UserIDs: &users})
	s.Require().NoError(err)
	s.Equal("new description", updated.Description)
	s.Equal([]uint64{s.other.ID}, updated.UserIDs())
	s.Equal(s.owner.ID, updated.CreatedByID)

	_, err = s.projects.UpdateProject(s.ctx, 999, UpdateProjectInput{Description: &desc})
	s.ErrorIs(err, ErrProjectNotFound)
}

func (s *ServiceTestSuite) TestProjectSoftDeleteAndRestore() {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.projects.now = func() time.Time { return fixed }

	project := s.newProject("P1")
	s.Require().NoError(s.projects.DeleteProject(s.ctx, project.ID))

	_, err := s.projects.GetProject(s.ctx, project.ID)
	s.ErrorIs(err, ErrProjectNotFound)
	s.ErrorIs(s.projects.DeleteProject(s.ctx, project.ID), ErrProjectNotFound)

	listed, total, err := s.projects.ListProjects(s.ctx, utils.PaginationParams{})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(listed)

	var row models.Project
	s.Require().NoError(s.db.First(&row, project.ID).Error)
	s.True(row.IsDeleted)
	s.Require().NotNil(row.DeletedAt)
	s.True(fixed.Equal(*row.DeletedAt))

	s.Require().NoError(s.projects.RestoreProject(s.ctx, project.ID))
	restored, err := s.projects.GetProject(s.ctx, project.ID)
	s.Require().NoError(err)
	s.False(restored.IsDeleted)
	s.Nil(restored.DeletedAt)

	s.ErrorIs(s.projects.RestoreProject(s.ctx, project.ID), ErrProjectNotFound)
	s.ErrorIs(s.projects.RestoreProject(s.ctx, 999), ErrProjectNotFound)
}

// Tasks

func (s *ServiceTestSuite) TestCreateTask_Validation() {
	_, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{
		ProjectID: 999,
		Title:     "t",
		Status:    "done",
		CreatorID: s.owner.ID,
	})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal([]string{apperrors.MsgInvalidPK(999)}, verr.Fields["project"])
	s.Equal([]string{apperrors.MsgInvalidChoice("done")}, verr.Fields["status"])
}

func (s *ServiceTestSuite) TestCreateTask_TitleTooLong() {
	project := s.newProject("P1")
	_, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{
		ProjectID: project.ID,
		Title:     strings.Repeat("t", constants.MaxTitleLength+1),
		Status:    models.TaskStatusPending,
		CreatorID: s.owner.ID,
	})
	s.requireFieldError(err, "title", apperrors.MsgMaxLength(constants.MaxTitleLength))
}

func (s *ServiceTestSuite) TestCreateTask_AllowsDeletedProjectReference() {
	project := s.newProject("P1")
	s.Require().NoError(s.projects.DeleteProject(s.ctx, project.ID))

	task := s.newTask(project.ID, "still allowed")
	s.Equal(project.ID, task.ProjectID)
	s.Equal(s.owner.ID, task.CreatedByID)
}

func (s *ServiceTestSuite) TestUpdateTask() {
	p1 := s.newProject("P1")
	p2 := s.newProject("P2")
	task := s.newTask(p1.ID, "t")

	status := models.TaskStatusCompleted
	due := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	updated, err := s.tasks.UpdateTask(s.ctx, task.ID, UpdateTaskInput{ProjectID: &p2.ID, Status: &status, DueDate: &due})
	s.Require().NoError(err)
	s.Equal(p2.ID, updated.ProjectID)
	s.Equal(models.TaskStatusCompleted, updated.Status)
	s.Equal("2025-02-14", time.Time(updated.DueDate).Format("2006-01-02"))

	missing := uint64(999)
	_, err = s.tasks.UpdateTask(s.ctx, task.ID, UpdateTaskInput{ProjectID: &missing})
	s.requireFieldError(err, "project", apperrors.MsgInvalidPK(999))
}

func (s *ServiceTestSuite) TestTaskSoftDeleteAndRestore() {
	project := s.newProject("P1")
	task := s.newTask(project.ID, "t")
	s.newTask(project.ID, "kept")

	s.Require().NoError(s.tasks.DeleteTask(s.ctx, task.ID))
	_, err := s.tasks.GetTask(s.ctx, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	tasks, total, err := s.tasks.ListTasks(s.ctx, ListTasksInput{ProjectID: &project.ID})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("kept", tasks[0].Title)

	s.Require().NoError(s.tasks.RestoreTask(s.ctx, task.ID))
	s.ErrorIs(s.tasks.RestoreTask(s.ctx, task.ID), ErrTaskNotFound)
	s.ErrorIs(s.tasks.RestoreTask(s.ctx, 999), ErrTaskNotFound)
}

func (s *ServiceTestSuite) TestGenerateTasks() {
	s.tasks.now = func() time.Time { return time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC) }
	project := s.newProject("P1")

	future := "2025-05-12"
	past := "2025-04-01"
	garbage := "next friday"
	s.drafter.On("DraftTasks", mock.Anything, "plan the launch").Return([]TaskDraft{
		{Title: "Write announcement", Description: "blog post", DueDate: &future},
		{Title: "  ", Description: "dropped"},
		{Title: "Book venue", DueDate: &past},
		{Title: "Order swag", DueDate: &garbage},
	}, nil).Once()

	drafts, err := s.tasks.GenerateTasks(s.ctx, GenerateTasksInput{ProjectID: project.ID, Text: "plan the launch"})
	s.Require().NoError(err)
	s.Require().Len(drafts, 3)
	s.Require().NotNil(drafts[0].DueDate)
	s.Equal("2025-05-12", drafts[0].DueDate.Format("2006-01-02"))
	s.Nil(drafts[1].DueDate)
	s.Nil(drafts[2].DueDate)
	s.drafter.AssertExpectations(s.T())
}

func (s *ServiceTestSuite) TestGenerateTasks_Errors() {
	project := s.newProject("P1")

	_, err := s.tasks.GenerateTasks(s.ctx, GenerateTasksInput{ProjectID: 999, Text: "x"})
	s.requireFieldError(err, "project", apperrors.MsgInvalidPK(999))

	s.drafter.On("DraftTasks", mock.Anything, "empty").Return([]TaskDraft{}, nil).Once()
	_, err = s.tasks.GenerateTasks(s.ctx, GenerateTasksInput{ProjectID: project.ID, Text: "empty"})
	s.ErrorIs(err, ErrAINoValidTasks)

	many := make([]TaskDraft, 21)
	for i := range many {
		many[i] = TaskDraft{Title: "t"}
	}
	s.drafter.On("DraftTasks", mock.Anything, "many").Return(many, nil).Once()
	_, err = s.tasks.GenerateTasks(s.ctx, GenerateTasksInput{ProjectID: project.ID, Text: "many"})
	s.ErrorIs(err, ErrAITooManyTasks)

	boom := errors.New("upstream down")
	s.drafter.On("DraftTasks", mock.Anything, "fail").Return(nil, boom).Once()
	_, err = s.tasks.GenerateTasks(s.ctx, GenerateTasksInput{ProjectID: project.ID, Text: "fail"})
	s.ErrorIs(err, boom)

	unconfigured := NewTaskService(nil, nil, nil)
	_, err = unconfigured.GenerateTasks(s.ctx, GenerateTasksInput{ProjectID: project.ID, Text: "x"})
	s.ErrorIs(err, ErrAIServiceNotConfigured)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
