package session

import (
	"context"
	"net/http"
)

// Keys under which the authenticated user is stored in the session.
const (
	KeySubject = "user_subject"
	KeyUserID  = "user_id"
	KeyState   = "oauth_state"
)

// Manager is an interface that abstracts the session management implementation.
// *scs.SessionManager satisfies it.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	GetInt64(ctx context.Context, key string) int64
	PopString(ctx context.Context, key string) string
	RenewToken(ctx context.Context) error
	Destroy(ctx context.Context) error
	Remove(ctx context.Context, key string)
}
