package models

import "context"

// User is the authenticated principal extracted from a bearer token.
// Accounts themselves are managed by an external identity service.
type User struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

const anonymousID = "anonymous"

func AnonymousUser() *User {
	return &User{ID: anonymousID}
}

func (u *User) IsAnonymous() bool {
	return u == nil || u.ID == anonymousID
}

type userCtxKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}
