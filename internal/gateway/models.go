package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	rlmodels "storeguard/internal/ratelimit/models"
)

// Operation is an outbound admin call routed through the gateway.
type Operation struct {
	// Name is recorded as the audit action, e.g. UPDATE_PRODUCT.
	Name         string          `json:"name" validate:"required,max=64"`
	Method       string          `json:"method" validate:"required,oneof=GET POST PUT PATCH DELETE"`
	URL          string          `json:"url" validate:"required,url"`
	ResourceType string          `json:"resource_type" validate:"required,max=64"`
	ResourceID   string          `json:"resource_id,omitempty" validate:"max=255"`
	RateLimit    rlmodels.Action `json:"rate_limit,omitempty"`
	Body         json.RawMessage `json:"body,omitempty"`
	OldValues    map[string]any  `json:"old_values,omitempty"`
}

// Normalize canonicalizes fields supplied by API callers.
func (o *Operation) Normalize() {
	o.Name = strings.TrimSpace(o.Name)
	o.Method = strings.ToUpper(strings.TrimSpace(o.Method))
	o.URL = strings.TrimSpace(o.URL)
	o.ResourceType = strings.TrimSpace(o.ResourceType)
	o.ResourceID = strings.TrimSpace(o.ResourceID)
}

// Response is the upstream answer to an Operation.
type Response struct {
	StatusCode int             `json:"status"`
	Header     http.Header     `json:"-"`
	Body       json.RawMessage `json:"body,omitempty"`
}

func (r *Response) Success() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode <= 299
}
