package session

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/redis/go-redis/v9"
)

// Session keys.
const (
	KeyUserID    = "user_id"
	KeyUserEmail = "user_email"
	KeyRole      = "role"
	KeyUserName  = "user_name"
)

// New creates a session manager. Sessions live in Redis when a client is
// provided, and in process memory otherwise.
func New(redisClient *redis.Client, isDev bool) *scs.SessionManager {
	sm := scs.New()

	if redisClient != nil {
		sm.Store = goredisstore.New(redisClient)
	} else {
		sm.Store = memstore.New()
	}

	// Configure session
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}
