package catalog

import "context"

// Caller identifies who is invoking an operation. The zero value is an
// anonymous caller.
type Caller struct {
	ID    string
	Email string
}

type callerKey struct{}

func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func CallerFromContext(ctx context.Context) Caller {
	caller, _ := ctx.Value(callerKey{}).(Caller)
	return caller
}

// Authorizer decides whether a caller may run admin operations. A non-nil
// error rejects the call with a forbidden error.
type Authorizer interface {
	AuthorizeAdmin(ctx context.Context, caller Caller) error
}

type AuthorizerFunc func(ctx context.Context, caller Caller) error

func (f AuthorizerFunc) AuthorizeAdmin(ctx context.Context, caller Caller) error {
	return f(ctx, caller)
}

// AllowAll grants admin access to every caller.
type AllowAll struct{}

func (AllowAll) AuthorizeAdmin(context.Context, Caller) error {
	return nil
}
