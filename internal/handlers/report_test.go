package handlers

import (
	"encoding/csv"
	"net/http"
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/dto"
)

func (suite *HandlerTestSuite) TestReports_TaskAndProjectStats() {
	suite.createTask(map[string]any{"title": "A", "projectId": suite.project.ID, "status": "Completed"}, suite.alice)
	suite.createTask(map[string]any{"title": "B", "projectId": suite.project.ID}, suite.alice)

	w := suite.request(http.MethodGet, "/api/reports/tasks", nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code)
	var stats dto.TaskStatsDTO
	suite.decode(w, &stats)
	suite.Equal(2, stats.Total)
	suite.Equal(1, stats.Completed)
	suite.Equal(1, stats.Pending)
	suite.Equal(1, stats.ByStatus["Completed"])
	suite.Equal(0, stats.ByStatus["Blocked"])
	suite.Equal(2, stats.ByPriority["Medium"])

	w = suite.request(http.MethodGet, "/api/reports/projects", nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code)
	var projects dto.ProjectStatsDTO
	suite.decode(w, &projects)
	suite.Equal(1, projects.TotalProjects)
	suite.Require().Len(projects.Projects, 1)
	suite.Equal("Apollo", projects.Projects[0].ProjectName)
	suite.Equal(2, projects.Projects[0].TotalTasks)
}

func (suite *HandlerTestSuite) TestReports_UserStatsAdminOnly() {
	suite.Equal(http.StatusForbidden, suite.request(http.MethodGet, "/api/reports/users", nil, suite.alice).Code)

	w := suite.request(http.MethodGet, "/api/reports/users", nil, suite.admin)
	suite.Require().Equal(http.StatusOK, w.Code)
	var stats dto.UserStatsDTO
	suite.decode(w, &stats)
	suite.Equal(3, stats.TotalUsers)
}

func (suite *HandlerTestSuite) TestReports_ExportCSV() {
	suite.createTask(map[string]any{"title": `Say "hi"`, "projectId": suite.project.ID, "assignedTo": suite.bob.ID}, suite.alice)

	w := suite.request(http.MethodGet, "/api/reports/export-csv", nil, suite.alice)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("text/csv", w.Header().Get("Content-Type"))
	suite.Equal("attachment; filename=tasks_export.csv", w.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal([]string{"ID", "Title", "Status", "Priority", "Project", "Assigned To", "Created By", "Due Date"}, records[0])
	suite.Equal(`Say "hi"`, records[1][1])
	suite.Equal("Apollo", records[1][4])
	suite.Equal("bob", records[1][5])
	suite.Equal("alice", records[1][6])
	suite.Equal("No due date", records[1][7])
}
