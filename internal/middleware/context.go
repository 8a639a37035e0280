package middleware

import "context"

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey = contextKey("user")

// Anonymous is the casbin subject of requests without a session.
const Anonymous = "anonymous"

// UserInfo represents the essential user information stored in the session and request context.
type UserInfo struct {
	Subject string
	UserID  int64
}

// IsAnonymous reports whether the request carries no authenticated user.
func (u *UserInfo) IsAnonymous() bool {
	return u.Subject == Anonymous || u.UserID == 0
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	// Return an anonymous user if no user info is found in the context.
	return &UserInfo{Subject: Anonymous}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}
