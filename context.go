package userauth

import "context"

type contextKey int

const clientIPKey contextKey = iota

// WithClientIP attaches the caller's network address to the context. The
// engine records it on refresh-token rows and audit events; it is never used
// for access decisions.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func clientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}
