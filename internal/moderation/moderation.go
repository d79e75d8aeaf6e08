// Package moderation defines the legal status transitions for articles,
// reports, writer applications, and user standing. The rules are pure; the
// services apply them and reject illegal transitions before touching the
// store, so a terminal record is never double-mutated.
package moderation

import (
	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/pkg/apperr"
)

// InitialArticleStatus returns the moderation state a new article starts
// in: admin submissions skip review, everything else waits for approval.
func InitialArticleStatus(role models.UserRole) models.ArticleStatus {
	if role == models.RoleAdmin {
		return models.ArticleApproved
	}
	return models.ArticlePending
}

// ReviewArticle validates the one-way pending→approved / pending→rejected
// transition. Approved and rejected are terminal.
func ReviewArticle(current, next models.ArticleStatus) error {
	if next != models.ArticleApproved && next != models.ArticleRejected {
		return apperr.Newf(apperr.KindValidation, "invalid review outcome %q", next)
	}
	if current != models.ArticlePending {
		return apperr.Newf(apperr.KindConflict, "article is already %s", current)
	}
	return nil
}

// CanEditArticle reports whether an author may still edit. Rejected
// articles are frozen.
func CanEditArticle(status models.ArticleStatus) error {
	if status == models.ArticleRejected {
		return apperr.New(apperr.KindConflict, "rejected articles cannot be edited")
	}
	return nil
}

// ToggleUserStatus returns the other side of the active↔banned pair. This
// is the one bidirectional transition in the system.
func ToggleUserStatus(current models.UserStatus) models.UserStatus {
	if current == models.UserBanned {
		return models.UserActive
	}
	return models.UserBanned
}

// ValidRole reports whether r names a known role. Role escalation only
// happens through an approved application or a direct admin edit; there is
// no self-escalation path.
func ValidRole(r models.UserRole) bool {
	switch r {
	case models.RoleUser, models.RoleWriter, models.RoleAdmin:
		return true
	}
	return false
}

// ResolveReport validates the one-way pending→resolved transition.
// Resolving a report never changes the reported user's standing; banning
// is a separate admin action.
func ResolveReport(current models.ReportStatus) error {
	if current == models.ReportResolved {
		return apperr.New(apperr.KindConflict, "report is already resolved")
	}
	return nil
}

// DecideApplication validates the one-way pending→approved|rejected
// transition for writer applications.
func DecideApplication(current, next models.ApplicationStatus) error {
	if next != models.ApplicationApproved && next != models.ApplicationRejected {
		return apperr.Newf(apperr.KindValidation, "invalid decision %q", next)
	}
	if current != models.ApplicationPending {
		return apperr.Newf(apperr.KindConflict, "application is already %s", current)
	}
	return nil
}

// CanPost gates every user-generated write (comments, chat, reports,
// applications): the author must have a verified email and must not be
// banned. Role is irrelevant here; a banned admin is blocked like anyone
// else.
func CanPost(u *models.UserModel) error {
	if u == nil {
		return apperr.New(apperr.KindAuth, "sign in to continue")
	}
	if !u.EmailVerified {
		return apperr.New(apperr.KindAuth, "verify your email before posting")
	}
	if u.Status == models.UserBanned {
		return apperr.New(apperr.KindAuth, "your account is banned")
	}
	return nil
}
