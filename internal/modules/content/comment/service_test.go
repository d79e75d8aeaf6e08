package comment

import (
	"strings"
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

	return NewService(db, storegate.New(cache, limiter)), mock
}

func verifiedUser() *models.UserModel {
	u := &models.UserModel{
		Email:         "reader@example.com",
		DisplayName:   "Reader",
		Role:          models.RoleUser,
		Status:        models.UserActive,
		EmailVerified: true,
	}
	u.ID = "user-1"
	return u
}

func expectApprovedArticle(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT \\* FROM `articles` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "status", "author_id"}).
			AddRow("a-1", "hello-world", "approved", "writer-1"))
}

func TestCreateRejectsBannedUser(t *testing.T) {
	svc, mock := newTestService(t)

	author := verifiedUser()
	author.Status = models.UserBanned

	_, err := svc.Create("a-1", &CreateCommentDTO{Text: "hi"}, author)
	require.True(t, apperr.IsKind(err, apperr.KindAuth))
	require.NoError(t, mock.ExpectationsWereMet(), "a banned user must never reach the store")
}

func TestCreateRejectsUnverifiedUser(t *testing.T) {
	svc, _ := newTestService(t)

	author := verifiedUser()
	author.EmailVerified = false

	_, err := svc.Create("a-1", &CreateCommentDTO{Text: "hi"}, author)
	require.True(t, apperr.IsKind(err, apperr.KindAuth))
}

func TestCreateStripsMarkupAndCaps(t *testing.T) {
	svc, mock := newTestService(t)

	expectApprovedArticle(mock)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `comments`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	long := strings.Repeat("x", maxCommentLen+50)
	cm, err := svc.Create("a-1", &CreateCommentDTO{Text: "<script>alert(1)</script>" + long}, verifiedUser())
	require.NoError(t, err)
	require.NotContains(t, cm.Text, "<")
	require.NotContains(t, cm.Text, "script")
	require.LessOrEqual(t, len(cm.Text), maxCommentLen)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOnUnapprovedArticle(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT \\* FROM `articles` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "status", "author_id"}).
			AddRow("a-1", "hello-world", "pending", "writer-1"))

	_, err := svc.Create("a-1", &CreateCommentDTO{Text: "hi"}, verifiedUser())
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWhitespaceOnlyComment(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create("a-1", &CreateCommentDTO{Text: "  <b></b>  "}, verifiedUser())
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}
