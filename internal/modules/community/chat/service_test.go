package chat

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/pkg/apperr"
	"github.com/penlight/core/internal/pkg/querycache"
	"github.com/penlight/core/internal/pkg/storegate"
	"github.com/penlight/core/internal/pkg/throttle"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	cache, err := querycache.New(15*time.Minute, 64, nil)
	require.NoError(t, err)
	limiter := throttle.New(100, 5*time.Minute, nil)

	return NewService(db, storegate.New(cache, limiter), NewBroker()), mock
}

func chatAuthor() *models.UserModel {
	u := &models.UserModel{
		Email:         "chatter@example.com",
		DisplayName:   "Chatter",
		Role:          models.RoleUser,
		Status:        models.UserActive,
		EmailVerified: true,
	}
	u.ID = "user-1"
	return u
}

func TestHistoryOldestFirst(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT \\* FROM `chat_messages`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "author_id"}).
			AddRow("m-3", "third", "u").
			AddRow("m-2", "second", "u").
			AddRow("m-1", "first", "u"))

	items, err := svc.History(50)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "first", items[0].Text)
	require.Equal(t, "third", items[2].Text)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostPublishesToSubscribers(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `chat_messages`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var got []models.ChatMessageModel
	cancel := svc.Broker().Subscribe(func(m models.ChatMessageModel) {
		got = append(got, m)
	})
	defer cancel()

	msg, err := svc.Post(&PostMessageDTO{Text: "hello"}, chatAuthor())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, msg.Text, got[0].Text)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRejectsBannedUser(t *testing.T) {
	svc, mock := newTestService(t)

	author := chatAuthor()
	author.Status = models.UserBanned

	_, err := svc.Post(&PostMessageDTO{Text: "hello"}, author)
	require.True(t, apperr.IsKind(err, apperr.KindAuth))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribeCancelDetaches(t *testing.T) {
	b := NewBroker()

	calls := 0
	cancel := b.Subscribe(func(models.ChatMessageModel) { calls++ })
	require.Equal(t, 1, b.Subscribers())

	b.Publish(models.ChatMessageModel{Text: "one"})
	cancel()
	cancel() // second call is a no-op
	b.Publish(models.ChatMessageModel{Text: "two"})

	require.Equal(t, 1, calls)
	require.Equal(t, 0, b.Subscribers())
}
