package audit

import "context"

// RequestMetadata describes the client that triggered an audited operation.
type RequestMetadata struct {
	IPAddress string
	UserAgent string
	Browser   string
	OS        string
}

type requestMetadataKey struct{}

// WithRequestMetadata attaches md to ctx for enrichment of security events
// and failed login records.
func WithRequestMetadata(ctx context.Context, md RequestMetadata) context.Context {
	return context.WithValue(ctx, requestMetadataKey{}, md)
}

// RequestMetadataFrom returns the metadata attached to ctx, or the zero value.
func RequestMetadataFrom(ctx context.Context) RequestMetadata {
	md, _ := requestMetadata(ctx)
	return md
}

func requestMetadata(ctx context.Context) (RequestMetadata, bool) {
	md, ok := ctx.Value(requestMetadataKey{}).(RequestMetadata)
	return md, ok
}

func (md RequestMetadata) fields() map[string]any {
	fields := make(map[string]any, 4)
	if md.IPAddress != "" {
		fields["ip_address"] = md.IPAddress
	}
	if md.UserAgent != "" {
		fields["user_agent"] = md.UserAgent
	}
	if md.Browser != "" {
		fields["browser"] = md.Browser
	}
	if md.OS != "" {
		fields["os"] = md.OS
	}
	return fields
}
