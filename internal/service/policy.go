package service

import (
	"time"

	"hive-food/internal/domain"
)

// IsEditable reports whether a session still accepts line item
// mutations: it must be open and its deadline must not have passed.
// Re-evaluated against the live clock on every request, so a session
// turns read-only the instant the deadline passes without any
// background job.
func IsEditable(session *domain.OrderSession, now time.Time) bool {
	if session.Status != domain.StatusOpen {
		return false
	}
	return !now.After(session.DeadlineAt)
}

// Only administrators open new order sessions.
func CanCreateSession(user *domain.User) bool {
	return user.IsAdmin
}

// CanClose allows the session creator and any administrator. Closing is
// not gated by IsEditable: a session can be closed after its deadline.
func CanClose(user *domain.User, session *domain.OrderSession) bool {
	return user.IsAdmin || user.ID == session.CreatedBy
}

// CanMutateItem applies uniformly to edit and delete.
func CanMutateItem(user *domain.User, item *domain.OrderItem) bool {
	return user.IsAdmin || user.ID == item.UserID
}
