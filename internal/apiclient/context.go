package apiclient

import "context"

type tokenKey struct{}

// WithToken returns a context whose backend calls carry the bearer token
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token stored by WithToken, if any
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
