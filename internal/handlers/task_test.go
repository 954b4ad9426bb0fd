package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

func (suite *HandlerTestSuite) taskPath(id uint64) string {
	return fmt.Sprintf("/api/tasks/%d", id)
}

func (suite *HandlerTestSuite) getTask(id uint64) dto.TaskDTO {
	w := suite.request(http.MethodGet, suite.taskPath(id), nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.decode(w, &task)
	return task
}

func (suite *HandlerTestSuite) historyActions(taskID uint64) []models.HistoryAction {
	w := suite.request(http.MethodGet, fmt.Sprintf("/api/history/task/%d", taskID), nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var entries []dto.HistoryDTO
	suite.decode(w, &entries)
	actions := make([]models.HistoryAction, len(entries))
	for i, e := range entries {
		actions[i] = e.Action
	}
	return actions
}

func (suite *HandlerTestSuite) TestCreateTask_Success() {
	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"title":      "Write report",
		"projectId":  fmt.Sprint(suite.project.ID),
		"assignedTo": suite.bob.ID,
		"dueDate":    "2025-07-01",
		"priority":   "alta",
	}, suite.alice)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task dto.TaskDTO
	env := suite.decode(w, &task)
	suite.True(env.Success)
	suite.Equal("Write report", task.Title)
	suite.Equal(models.TaskStatusPending, task.Status)
	suite.Equal(models.TaskPriorityHigh, task.Priority)
	suite.Equal(suite.project.ID, task.ProjectID)
	suite.Require().NotNil(task.Project)
	suite.Equal("Apollo", task.Project.Name)
	suite.Require().NotNil(task.Assignee)
	suite.Equal("bob", task.Assignee.Username)
	suite.Require().NotNil(task.Creator)
	suite.Equal("alice", task.Creator.Username)
	suite.Require().NotNil(task.DueDate)
	suite.True(task.DueDate.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	suite.Zero(task.EstimatedHours)

	suite.Equal([]models.HistoryAction{models.HistoryActionCreated}, suite.historyActions(task.ID))

	inbox := suite.notificationsOf(suite.bob.ID)
	suite.Require().Len(inbox, 1)
	suite.Equal(models.NotificationTaskAssigned, inbox[0].Type)
	suite.Equal("New task assigned: Write report", inbox[0].Message)
}

func (suite *HandlerTestSuite) TestCreateTask_ValidationErrors() {
	cases := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"missing title", map[string]any{"projectId": suite.project.ID}, http.StatusBadRequest},
		{"missing project", map[string]any{"title": "T"}, http.StatusBadRequest},
		{"unknown project", map[string]any{"title": "T", "projectId": 999}, http.StatusNotFound},
		{"unknown assignee", map[string]any{"title": "T", "projectId": suite.project.ID, "assignedTo": 999}, http.StatusBadRequest},
		{"bad status", map[string]any{"title": "T", "projectId": suite.project.ID, "status": "Done-ish"}, http.StatusBadRequest},
		{"negative hours", map[string]any{"title": "T", "projectId": suite.project.ID, "estimatedHours": -1}, http.StatusBadRequest},
		{"bad due date", map[string]any{"title": "T", "projectId": suite.project.ID, "dueDate": "tomorrow"}, http.StatusBadRequest},
		{"bad project id", map[string]any{"title": "T", "projectId": "apollo"}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		w := suite.request(http.MethodPost, "/api/tasks", tc.body, suite.alice)
		suite.Equal(tc.status, w.Code, tc.name)
		suite.False(suite.decode(w, nil).Success, tc.name)
	}

	w := suite.request(http.MethodPost, "/api/tasks", `{"title":`, suite.alice)
	suite.Equal(http.StatusBadRequest, w.Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *HandlerTestSuite) TestCreateTask_Unauthorized() {
	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{"title": "T", "projectId": suite.project.ID}, nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateTask_CompletesAndNotifies() {
	id := suite.createTask(map[string]any{"title": "Ship", "projectId": suite.project.ID, "assignedTo": suite.bob.ID}, suite.alice)

	w := suite.request(http.MethodPut, suite.taskPath(id), map[string]any{"status": "Completed"}, suite.bob)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.decode(w, &task)
	suite.Equal(models.TaskStatusCompleted, task.Status)
	suite.Equal("Ship", task.Title)
	suite.Require().NotNil(task.AssignedTo)
	suite.Equal(suite.bob.ID, *task.AssignedTo)

	suite.Equal([]models.HistoryAction{models.HistoryActionStatusChanged, models.HistoryActionCreated}, suite.historyActions(id))

	aliceInbox := suite.notificationsOf(suite.alice.ID)
	suite.Require().Len(aliceInbox, 1)
	suite.Equal(models.NotificationTaskCompleted, aliceInbox[0].Type)

	bobInbox := suite.notificationsOf(suite.bob.ID)
	suite.Require().Len(bobInbox, 2)
	suite.Equal(models.NotificationTaskUpdated, bobInbox[1].Type)
}

func (suite *HandlerTestSuite) TestUpdateTask_ClearsFieldsWithEmptyString() {
	id := suite.createTask(map[string]any{
		"title":      "Ship",
		"projectId":  suite.project.ID,
		"assignedTo": suite.bob.ID,
		"dueDate":    "2025-07-01T09:30:00Z",
	}, suite.alice)

	w := suite.request(http.MethodPut, suite.taskPath(id), map[string]any{"assignedTo": "", "dueDate": nil}, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	task := suite.getTask(id)
	suite.Nil(task.AssignedTo)
	suite.Nil(task.Assignee)
	suite.Nil(task.DueDate)
	suite.Equal("Ship", task.Title)
	suite.Equal(suite.project.ID, task.ProjectID)

	bobInbox := suite.notificationsOf(suite.bob.ID)
	suite.Require().NotEmpty(bobInbox)
	suite.Contains(
		[]string{bobInbox[len(bobInbox)-1].Message, bobInbox[len(bobInbox)-2].Message},
		"You were unassigned from task: Ship",
	)
}

func (suite *HandlerTestSuite) TestUpdateTask_RejectsEmptyProject() {
	id := suite.createTask(map[string]any{"title": "Ship", "projectId": suite.project.ID}, suite.alice)

	w := suite.request(http.MethodPut, suite.taskPath(id), map[string]any{"projectId": ""}, suite.alice)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(suite.project.ID, suite.getTask(id).ProjectID)
}

func (suite *HandlerTestSuite) TestUpdateTask_IdenticalPayloadIsSilent() {
	id := suite.createTask(map[string]any{"title": "Ship", "projectId": suite.project.ID, "assignedTo": suite.bob.ID}, suite.alice)
	before := len(suite.notificationsOf(suite.bob.ID))

	w := suite.request(http.MethodPut, suite.taskPath(id), map[string]any{
		"title":      "Ship",
		"status":     "Pending",
		"priority":   "Medium",
		"assignedTo": suite.bob.ID,
		"projectId":  suite.project.ID,
	}, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	suite.Equal([]models.HistoryAction{models.HistoryActionCreated}, suite.historyActions(id))
	suite.Len(suite.notificationsOf(suite.bob.ID), before)
}

func (suite *HandlerTestSuite) TestUpdateTask_NotFoundAndBadID() {
	w := suite.request(http.MethodPut, suite.taskPath(999), map[string]any{"title": "X"}, suite.alice)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodPut, "/api/tasks/abc", map[string]any{"title": "X"}, suite.alice)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid task ID", suite.decode(w, nil).Message)
}

func (suite *HandlerTestSuite) TestListTasks_Filters() {
	suite.createTask(map[string]any{"title": "One", "projectId": suite.project.ID, "assignedTo": suite.bob.ID}, suite.alice)
	suite.createTask(map[string]any{"title": "Two", "projectId": suite.project.ID, "status": "Blocked"}, suite.alice)

	w := suite.request(http.MethodGet, "/api/tasks", nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code)
	var tasks []dto.TaskDTO
	env := suite.decode(w, &tasks)
	suite.Require().NotNil(env.Count)
	suite.Equal(2, *env.Count)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/tasks?assignedTo=%d", suite.bob.ID), nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &tasks)
	suite.Require().Len(tasks, 1)
	suite.Equal("One", tasks[0].Title)

	w = suite.request(http.MethodGet, "/api/tasks?status=bloqueada", nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &tasks)
	suite.Require().Len(tasks, 1)
	suite.Equal("Two", tasks[0].Title)

	suite.Equal(http.StatusBadRequest, suite.request(http.MethodGet, "/api/tasks?status=bogus", nil, suite.alice).Code)
	suite.Equal(http.StatusBadRequest, suite.request(http.MethodGet, "/api/tasks?projectId=x", nil, suite.alice).Code)
}

func (suite *HandlerTestSuite) TestListTasks_EmptyListHasZeroCount() {
	w := suite.request(http.MethodGet, "/api/tasks", nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code)

	env := suite.decode(w, nil)
	suite.Require().NotNil(env.Count)
	suite.Zero(*env.Count)
	suite.JSONEq(`[]`, string(env.Data))
}

func (suite *HandlerTestSuite) TestSearchTasks() {
	suite.createTask(map[string]any{"title": "Quarterly report", "projectId": suite.project.ID}, suite.alice)
	suite.createTask(map[string]any{"title": "Deploy", "description": "after the REPORT is signed", "projectId": suite.project.ID}, suite.alice)
	suite.createTask(map[string]any{"title": "Unrelated", "projectId": suite.project.ID}, suite.alice)

	w := suite.request(http.MethodPost, "/api/tasks/search", map[string]any{"searchText": "report"}, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var tasks []dto.TaskDTO
	env := suite.decode(w, &tasks)
	suite.Equal(2, *env.Count)
	titles := []string{tasks[0].Title, tasks[1].Title}
	suite.ElementsMatch([]string{"Quarterly report", "Deploy"}, titles)
}

func (suite *HandlerTestSuite) TestDeleteTask_KeepsHistory() {
	id := suite.createTask(map[string]any{"title": "Temp", "projectId": suite.project.ID, "assignedTo": suite.bob.ID}, suite.alice)

	w := suite.request(http.MethodDelete, suite.taskPath(id), nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("Task deleted successfully", suite.decode(w, nil).Message)

	suite.Equal(http.StatusNotFound, suite.request(http.MethodGet, suite.taskPath(id), nil, suite.alice).Code)
	suite.Equal(http.StatusNotFound, suite.request(http.MethodDelete, suite.taskPath(id), nil, suite.alice).Code)
	suite.Equal([]models.HistoryAction{models.HistoryActionDeleted, models.HistoryActionCreated}, suite.historyActions(id))
}

func (suite *HandlerTestSuite) TestGenerateTasks_NotConfigured() {
	w := suite.request(http.MethodPost, "/api/tasks/generate", map[string]string{"text": "plan the launch"}, suite.alice)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Equal("SERVICE_UNAVAILABLE", suite.decode(w, nil).Code)
}
