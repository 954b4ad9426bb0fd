package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

func (suite *HandlerTestSuite) TestProjects_CRUD() {
	w := suite.request(http.MethodPost, "/api/projects", map[string]string{"name": "Gemini", "description": "Orbit"}, suite.alice)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var project dto.ProjectDTO
	suite.decode(w, &project)
	suite.Equal("Gemini", project.Name)

	inbox := suite.notificationsOf(suite.alice.ID)
	suite.Require().Len(inbox, 1)
	suite.Equal(models.NotificationProjectCreated, inbox[0].Type)

	path := fmt.Sprintf("/api/projects/%d", project.ID)
	w = suite.request(http.MethodPut, path, map[string]string{"description": "Two seats"}, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &project)
	suite.Equal("Gemini", project.Name)
	suite.Equal("Two seats", project.Description)

	w = suite.request(http.MethodGet, "/api/projects", nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(2, *suite.decode(w, nil).Count)

	w = suite.request(http.MethodDelete, path, nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(http.StatusNotFound, suite.request(http.MethodGet, path, nil, suite.alice).Code)
}

func (suite *HandlerTestSuite) TestProjects_Validation() {
	w := suite.request(http.MethodPost, "/api/projects", map[string]string{"description": "no name"}, suite.alice)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decode(w, nil).Details, "name")

	w = suite.request(http.MethodPut, fmt.Sprintf("/api/projects/%d", suite.project.ID), map[string]string{"name": "  "}, suite.alice)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.Equal(http.StatusBadRequest, suite.request(http.MethodGet, "/api/projects/0", nil, suite.alice).Code)
}

func (suite *HandlerTestSuite) TestComments_Lifecycle() {
	taskID := suite.createTask(map[string]any{"title": "Review", "projectId": suite.project.ID, "assignedTo": suite.bob.ID}, suite.alice)

	w := suite.request(http.MethodPost, "/api/comments", map[string]any{"taskId": taskID, "commentText": "Looks good"}, suite.admin)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var comment dto.CommentDTO
	suite.decode(w, &comment)
	suite.Equal("root", comment.Username)
	suite.Equal(taskID, comment.TaskID)

	// assignee and creator both hear about it
	suite.Equal(models.NotificationCommentAdded, suite.notificationsOf(suite.alice.ID)[0].Type)
	bobInbox := suite.notificationsOf(suite.bob.ID)
	suite.Equal(models.NotificationCommentAdded, bobInbox[len(bobInbox)-1].Type)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/comments/task/%d", taskID), nil, suite.bob)
	suite.Require().Equal(http.StatusOK, w.Code)
	var comments []dto.CommentDTO
	env := suite.decode(w, &comments)
	suite.Equal(1, *env.Count)
	suite.Equal("Looks good", comments[0].CommentText)

	path := fmt.Sprintf("/api/comments/%d", comment.ID)
	w = suite.request(http.MethodDelete, path, nil, suite.bob)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("FORBIDDEN", suite.decode(w, nil).Code)

	suite.Equal(http.StatusOK, suite.request(http.MethodDelete, path, nil, suite.admin).Code)
	suite.Equal(http.StatusNotFound, suite.request(http.MethodDelete, path, nil, suite.admin).Code)
}

func (suite *HandlerTestSuite) TestComments_Validation() {
	taskID := suite.createTask(map[string]any{"title": "Review", "projectId": suite.project.ID}, suite.alice)

	w := suite.request(http.MethodPost, "/api/comments", map[string]any{"commentText": "hi"}, suite.alice)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decode(w, nil).Details, "taskId")

	w = suite.request(http.MethodPost, "/api/comments", map[string]any{"taskId": taskID, "commentText": "   "}, suite.alice)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/comments", map[string]any{"taskId": 999, "commentText": "hi"}, suite.alice)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestNotifications_Inbox() {
	taskID := suite.createTask(map[string]any{"title": "Inbox", "projectId": suite.project.ID, "assignedTo": suite.bob.ID}, suite.alice)
	suite.createTask(map[string]any{"title": "Inbox 2", "projectId": suite.project.ID, "assignedTo": suite.bob.ID}, suite.alice)

	w := suite.request(http.MethodGet, "/api/notifications", nil, suite.bob)
	suite.Require().Equal(http.StatusOK, w.Code)
	var inbox []dto.NotificationDTO
	env := suite.decode(w, &inbox)
	suite.Equal(2, *env.Count)
	suite.ElementsMatch([]string{"Inbox", "Inbox 2"}, []string{inbox[0].TaskTitle, inbox[1].TaskTitle})

	var first string
	for _, n := range inbox {
		if n.RelatedTaskID != nil && *n.RelatedTaskID == taskID {
			first = n.ID
		}
	}
	suite.Require().NotEmpty(first)

	w = suite.request(http.MethodPut, "/api/notifications/mark-read", map[string]any{"notificationIds": []string{first}}, suite.bob)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated struct {
		Updated int64 `json:"updated"`
	}
	suite.decode(w, &updated)
	suite.EqualValues(1, updated.Updated)

	w = suite.request(http.MethodGet, "/api/notifications?unreadOnly=true", nil, suite.bob)
	suite.decode(w, &inbox)
	suite.Require().Len(inbox, 1)
	suite.Equal("Inbox 2", inbox[0].TaskTitle)

	// no body marks everything
	w = suite.request(http.MethodPut, "/api/notifications/mark-read", nil, suite.bob)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	w = suite.request(http.MethodGet, "/api/notifications?unreadOnly=true", nil, suite.bob)
	suite.Zero(*suite.decode(w, nil).Count)

	// another user cannot delete bob's notification
	path := "/api/notifications/" + first
	suite.Equal(http.StatusForbidden, suite.request(http.MethodDelete, path, nil, suite.alice).Code)
	suite.Equal(http.StatusOK, suite.request(http.MethodDelete, path, nil, suite.bob).Code)
	suite.Equal(http.StatusNotFound, suite.request(http.MethodDelete, path, nil, suite.bob).Code)
}

func (suite *HandlerTestSuite) TestHistory_Recent() {
	id := suite.createTask(map[string]any{"title": "Audit", "projectId": suite.project.ID}, suite.alice)
	w := suite.request(http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), map[string]any{"title": "Audited"}, suite.bob)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.request(http.MethodGet, "/api/history?limit=1", nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code)
	var entries []dto.HistoryDTO
	suite.decode(w, &entries)
	suite.Require().Len(entries, 1)
	suite.Equal(models.HistoryActionTitleChanged, entries[0].Action)
	suite.Equal("bob", entries[0].Username)
	suite.Equal("Audited", entries[0].TaskTitle)
	suite.Equal(models.FieldChange{From: "Audit", To: "Audited"}, entries[0].Changes["title"])

	suite.Equal(http.StatusBadRequest, suite.request(http.MethodGet, "/api/history?limit=abc", nil, suite.alice).Code)
}
