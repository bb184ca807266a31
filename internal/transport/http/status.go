package httptransport

import (
	"net/http"

	"storeguard/pkg/platform/httputil"
	"storeguard/pkg/result"
)

// StatusForKind maps an outcome kind to its HTTP status.
func StatusForKind(kind result.Kind) int {
	switch kind {
	case result.KindOK:
		return http.StatusOK
	case result.KindValidation:
		return http.StatusBadRequest
	case result.KindAuthFailed:
		return http.StatusUnauthorized
	case result.KindRateLimited:
		return http.StatusTooManyRequests
	case result.KindAccountLocked:
		return http.StatusLocked
	case result.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError picks the status from the error's kind. Unknown kinds keep the
// code-specific status so upstream failures still answer 502.
func writeError(w http.ResponseWriter, err error) {
	kind := result.KindOf(err)
	if kind == result.KindUnknown {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteErrorWithStatus(w, StatusForKind(kind), err)
}
