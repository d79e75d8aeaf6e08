package article

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
	"github.com/penlight/core/internal/pkg/pagination"
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

func activeWriter() *models.UserModel {
	u := &models.UserModel{
		Email:         "writer@example.com",
		DisplayName:   "Writer",
		Role:          models.RoleWriter,
		Status:        models.UserActive,
		EmailVerified: true,
	}
	u.ID = "writer-1"
	return u
}

func TestListReturnsApprovedOnly(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `articles` WHERE status = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery("SELECT \\* FROM `articles` WHERE status = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "title", "status", "author_id"}).
			AddRow("a-1", "hello-world", "Hello World", "approved", "writer-1"))

	items, pag, err := svc.List(pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "hello-world", items[0].Slug)
	require.Equal(t, models.ArticleApproved, items[0].Status)
	require.EqualValues(t, 1, pag.Total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListSecondCallServedFromCache(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `articles`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectQuery("SELECT \\* FROM `articles`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	q := pagination.Query{Page: 1, Size: 10}
	_, _, err := svc.List(q)
	require.NoError(t, err)

	// No further expectations registered: a second round-trip would fail.
	_, _, err = svc.List(q)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsBannedAuthor(t *testing.T) {
	svc, mock := newTestService(t)

	author := activeWriter()
	author.Status = models.UserBanned

	_, err := svc.Create(&CreateArticleDTO{Title: "T", Text: "body"}, author)
	require.True(t, apperr.IsKind(err, apperr.KindAuth))
	require.NoError(t, mock.ExpectationsWereMet(), "a banned author must never reach the store")
}

func TestCreateRejectsUnverifiedAuthor(t *testing.T) {
	svc, _ := newTestService(t)

	author := activeWriter()
	author.EmailVerified = false

	_, err := svc.Create(&CreateArticleDTO{Title: "T", Text: "body"}, author)
	require.True(t, apperr.IsKind(err, apperr.KindAuth))
}

func TestCreateRejectsPlainUser(t *testing.T) {
	svc, _ := newTestService(t)

	author := activeWriter()
	author.Role = models.RoleUser

	_, err := svc.Create(&CreateArticleDTO{Title: "T", Text: "body"}, author)
	require.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	author := activeWriter()

	longTitle := make([]byte, 0, maxTitleLen+1)
	for i := 0; i <= maxTitleLen; i++ {
		longTitle = append(longTitle, 'a')
	}

	cases := []struct {
		name string
		dto  CreateArticleDTO
	}{
		{"empty title", CreateArticleDTO{Title: "   ", Text: "body"}},
		{"long title", CreateArticleDTO{Title: string(longTitle), Text: "body"}},
		{"empty body", CreateArticleDTO{Title: "T", Text: "  "}},
		{"bad image extension", CreateArticleDTO{Title: "T", Text: "body", ImageURL: "https://cdn.example.com/x.svg"}},
		{"relative image url", CreateArticleDTO{Title: "T", Text: "body", ImageURL: "/uploads/x.png"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(&tc.dto, author)
			require.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)
		})
	}
}

func TestCreateAdminStartsApproved(t *testing.T) {
	svc, mock := newTestService(t)

	admin := activeWriter()
	admin.Role = models.RoleAdmin

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `articles` WHERE slug = \\?").
		WithArgs("hello-world").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `articles`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	a, err := svc.Create(&CreateArticleDTO{Title: "Hello World", Text: "body"}, admin)
	require.NoError(t, err)
	require.Equal(t, "hello-world", a.Slug)
	require.Equal(t, models.ArticleApproved, a.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWriterStartsPending(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `articles` WHERE slug = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `articles`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	a, err := svc.Create(&CreateArticleDTO{Title: "Hello World", Text: "body"}, activeWriter())
	require.NoError(t, err)
	require.Equal(t, models.ArticlePending, a.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewAlreadyDecidedConflicts(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT \\* FROM `articles` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "status", "author_id"}).
			AddRow("a-1", "hello-world", "approved", "writer-1"))

	_, err := svc.Review("a-1", models.ArticleRejected)
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
	require.NoError(t, mock.ExpectationsWereMet(), "a decided article must not be written again")
}

func TestReviewRaceLosesGracefully(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT \\* FROM `articles` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "status", "author_id"}).
			AddRow("a-1", "hello-world", "pending", "writer-1"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `articles` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := svc.Review("a-1", models.ArticleApproved)
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
	require.NoError(t, mock.ExpectationsWereMet())
}
