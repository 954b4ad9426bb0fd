package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker-api/internal/logging"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

type NotificationServiceTestSuite struct {
	ServiceTestSuite
}

func (suite *NotificationServiceTestSuite) TestNotify_SkipsMissingRecipient() {
	suite.Require().NoError(suite.notifications.Notify(suite.ctx, 0, "nobody", models.NotificationGeneral, nil))
	suite.Zero(suite.countNotifications())
}

func (suite *NotificationServiceTestSuite) TestNotify_TruncatesLongMessages() {
	long := strings.Repeat("é", 600)
	suite.Require().NoError(suite.notifications.Notify(suite.ctx, suite.alice.ID, long, "", nil))

	stored := suite.allNotifications()
	suite.Require().Len(stored, 1)
	suite.Equal(500, len([]rune(stored[0].Message)))
	suite.Equal(models.NotificationGeneral, stored[0].Type)
}

func (suite *NotificationServiceTestSuite) TestNotify_SendsEmailCopy() {
	mailer := &fakeMailer{}
	svc := NewNotificationService(suite.notificationRepo, suite.userRepo, suite.taskRepo, mailer, logging.Discard())

	suite.Require().NoError(svc.Notify(suite.ctx, suite.alice.ID, "hello", models.NotificationGeneral, nil))

	suite.Require().Len(mailer.sent, 1)
	suite.Equal("alice@example.com", mailer.sent[0].to)
	suite.Equal("hello", mailer.sent[0].body)
}

func (suite *NotificationServiceTestSuite) TestListForUser_JoinsTaskTitle() {
	task := suite.createTask("Inbox task", suite.alice)
	suite.Require().NoError(suite.notifications.Notify(suite.ctx, suite.alice.ID, "plain", models.NotificationGeneral, nil))

	entries, err := suite.notifications.ListForUser(suite.ctx, suite.alice.ID, false)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)

	var titled int
	for _, e := range entries {
		if e.RelatedTaskID != nil && *e.RelatedTaskID == task.ID {
			suite.Equal("Inbox task", e.TaskTitle)
			titled++
		}
	}
	suite.Equal(1, titled)
}

func (suite *NotificationServiceTestSuite) TestMarkRead_AllWhenNoIDs() {
	suite.createTask("One", suite.alice)
	suite.createTask("Two", suite.alice)

	changed, err := suite.notifications.MarkRead(suite.ctx, suite.alice.ID, nil)
	suite.Require().NoError(err)
	suite.EqualValues(2, changed)

	unread, err := suite.notifications.ListForUser(suite.ctx, suite.alice.ID, true)
	suite.Require().NoError(err)
	suite.Empty(unread)
}

func (suite *NotificationServiceTestSuite) TestDelete_Ownership() {
	suite.createTask("Owned", suite.alice)
	stored := suite.allNotifications()
	suite.Require().Len(stored, 1)
	id := stored[0].ID

	suite.ErrorIs(suite.notifications.Delete(suite.ctx, suite.bob.ID, id), ErrNotNotificationOwner)
	suite.ErrorIs(suite.notifications.Delete(suite.ctx, suite.alice.ID, "missing"), ErrNotificationNotFound)
	suite.NoError(suite.notifications.Delete(suite.ctx, suite.alice.ID, id))
	suite.Zero(suite.countNotifications())
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
