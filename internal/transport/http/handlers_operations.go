package httptransport

import (
	"encoding/json"
	"net/http"

	"storeguard/internal/gateway"
	"storeguard/internal/platform/middleware"
	dErrors "storeguard/pkg/domain-errors"
	"storeguard/pkg/platform/httputil"
)

// OperationResponse is returned by POST /operations.
type OperationResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body,omitempty"`
}

type upstreamErrorResponse struct {
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description,omitempty"`
	UpstreamStatus   int             `json:"upstream_status"`
	UpstreamBody     json.RawMessage `json:"upstream_body,omitempty"`
}

// HandleOperation implements POST /operations.
// Input: { "name": "UPDATE_PRODUCT", "method": "PUT", "url": "https://...", "resource_type": "product", "body": {...} }
// Output: { "status": 200, "body": {...} }
func (h *Handler) HandleOperation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	op, ok := httputil.DecodeAndPrepare[gateway.Operation](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.operations.Execute(ctx, *op)
	if err != nil {
		h.logger.WarnContext(ctx, "operation failed",
			"error", err,
			"request_id", requestID,
			"operation", op.Name,
		)
		if resp != nil && dErrors.HasCode(err, dErrors.CodeUpstream) {
			httputil.WriteJSON(w, http.StatusBadGateway, upstreamErrorResponse{
				Error:            httputil.DomainCodeToHTTPCode(dErrors.CodeUpstream),
				ErrorDescription: err.Error(),
				UpstreamStatus:   resp.StatusCode,
				UpstreamBody:     resp.Body,
			})
			return
		}
		writeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, OperationResponse{
		Status: resp.StatusCode,
		Body:   resp.Body,
	})
}
