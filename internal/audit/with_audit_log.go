package audit

import (
	"context"
	"fmt"

	"storeguard/internal/audit/models"
)

// ActionLogger records admin actions.
type ActionLogger interface {
	LogAdminAction(ctx context.Context, entry models.Entry)
}

// WithAuditLog runs op and records exactly one audit entry whose status
// reflects the outcome. op's value and error are returned unchanged. A panic in
// op is recorded as a failure and then re-raised.
func WithAuditLog[T any](ctx context.Context, l ActionLogger, entry models.Entry, op func(context.Context) (T, error)) (T, error) {
	returned := false
	defer func() {
		if returned {
			return
		}
		r := recover()
		failed := entry
		failed.Status = models.StatusFailure
		if r != nil {
			failed.ErrorMessage = fmt.Sprint(r)
		} else {
			failed.ErrorMessage = "operation aborted"
		}
		l.LogAdminAction(ctx, failed)
		if r != nil {
			panic(r)
		}
	}()

	value, err := op(ctx)
	returned = true

	if err != nil {
		entry.Status = models.StatusFailure
		entry.ErrorMessage = err.Error()
	} else {
		entry.Status = models.StatusSuccess
		entry.ErrorMessage = ""
	}
	l.LogAdminAction(ctx, entry)
	return value, err
}
