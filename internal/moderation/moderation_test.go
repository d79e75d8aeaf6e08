package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/pkg/apperr"
)

func TestInitialArticleStatus(t *testing.T) {
	require.Equal(t, models.ArticleApproved, InitialArticleStatus(models.RoleAdmin))
	require.Equal(t, models.ArticlePending, InitialArticleStatus(models.RoleWriter))
	require.Equal(t, models.ArticlePending, InitialArticleStatus(models.RoleUser))
}

func TestReviewArticleOneWay(t *testing.T) {
	require.NoError(t, ReviewArticle(models.ArticlePending, models.ArticleApproved))
	require.NoError(t, ReviewArticle(models.ArticlePending, models.ArticleRejected))

	err := ReviewArticle(models.ArticleApproved, models.ArticleRejected)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	err = ReviewArticle(models.ArticleRejected, models.ArticleApproved)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	err = ReviewArticle(models.ArticlePending, models.ArticlePending)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCanEditArticle(t *testing.T) {
	require.NoError(t, CanEditArticle(models.ArticlePending))
	require.NoError(t, CanEditArticle(models.ArticleApproved))
	require.Equal(t, apperr.KindConflict, apperr.KindOf(CanEditArticle(models.ArticleRejected)))
}

func TestToggleUserStatus(t *testing.T) {
	require.Equal(t, models.UserBanned, ToggleUserStatus(models.UserActive))
	require.Equal(t, models.UserActive, ToggleUserStatus(models.UserBanned))
}

func TestResolveReportIdempotencyGuard(t *testing.T) {
	require.NoError(t, ResolveReport(models.ReportPending))

	err := ResolveReport(models.ReportResolved)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestDecideApplicationTerminal(t *testing.T) {
	require.NoError(t, DecideApplication(models.ApplicationPending, models.ApplicationApproved))
	require.NoError(t, DecideApplication(models.ApplicationPending, models.ApplicationRejected))

	err := DecideApplication(models.ApplicationApproved, models.ApplicationApproved)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	err = DecideApplication(models.ApplicationRejected, models.ApplicationApproved)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	err = DecideApplication(models.ApplicationPending, models.ApplicationPending)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCanPost(t *testing.T) {
	require.Equal(t, apperr.KindAuth, apperr.KindOf(CanPost(nil)))

	unverified := &models.UserModel{EmailVerified: false, Status: models.UserActive}
	require.Equal(t, apperr.KindAuth, apperr.KindOf(CanPost(unverified)))

	banned := &models.UserModel{EmailVerified: true, Status: models.UserBanned}
	require.Equal(t, apperr.KindAuth, apperr.KindOf(CanPost(banned)))

	// A banned admin is still blocked: role and status are independent axes.
	bannedAdmin := &models.UserModel{EmailVerified: true, Status: models.UserBanned, Role: models.RoleAdmin}
	require.Error(t, CanPost(bannedAdmin))

	ok := &models.UserModel{EmailVerified: true, Status: models.UserActive}
	require.NoError(t, CanPost(ok))
}
