package api

import (
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	"travelia/internal/config"

	"golang.org/x/time/rate"
)

var (
	errMissingCredentials = errors.New("missing api key headers")
	errBadCredentials     = errors.New("invalid api credentials")
	errPermissionDenied   = errors.New("permission denied")
	errRateLimited        = errors.New("rate limit exceeded")
)

// HTTPAuth provides optional API-key auth and per-client rate limiting.
// The public frontends call the API anonymously, so auth stays disabled
// by default and guards only deployments that opt in.
type HTTPAuth struct {
	cfg       config.APIConfig
	keyHeader string
	xtrHeader string
	clients   map[string]config.APIClientKey
	limiters  sync.Map // client key or remote host -> *rate.Limiter
}

func NewHTTPAuth(cfg config.APIConfig) *HTTPAuth {
	clients := make(map[string]config.APIClientKey, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		clients[k.Key] = k
	}

	return &HTTPAuth{
		cfg:       cfg,
		keyHeader: headerOrDefault(cfg.Auth.HeaderAPIKey, "x-api-key"),
		xtrHeader: headerOrDefault(cfg.Auth.HeaderExtra, "x-api-extra"),
		clients:   clients,
	}
}

func headerOrDefault(name, fallback string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return fallback
	}
	return name
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.Auth.Enabled {
			if err := a.authenticate(r); err != nil {
				status := http.StatusUnauthorized
				if errors.Is(err, errPermissionDenied) {
					status = http.StatusForbidden
				}
				writeMessage(w, status, err.Error())
				return
			}
		}

		if !a.allow(r) {
			writeMessage(w, http.StatusTooManyRequests, errRateLimited.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) authenticate(r *http.Request) error {
	key := strings.TrimSpace(r.Header.Get(a.keyHeader))
	extra := strings.TrimSpace(r.Header.Get(a.xtrHeader))
	if key == "" || extra == "" {
		return errMissingCredentials
	}

	client, known := a.clients[key]
	if !known {
		return errBadCredentials
	}
	if subtle.ConstantTimeCompare([]byte(client.Extra), []byte(extra)) != 1 {
		return errBadCredentials
	}

	return a.authorize(client, r)
}

// authorize gates the admin routes when the client key carries an
// explicit permission list. An empty list grants everything, so keys
// distributed before permissions existed keep working.
func (a *HTTPAuth) authorize(client config.APIClientKey, r *http.Request) error {
	required := requiredPermission(r)
	if required == "" || len(client.Permissions) == 0 {
		return nil
	}
	for _, p := range client.Permissions {
		if strings.TrimSpace(p) == required {
			return nil
		}
	}
	return errPermissionDenied
}

func requiredPermission(r *http.Request) string {
	switch {
	case r.URL.Path == "/api/users",
		r.URL.Path == "/api/delete_user",
		r.URL.Path == "/api/delete_booking",
		r.URL.Path == "/api/update_transaksi_status",
		strings.HasPrefix(r.URL.Path, "/api/export/"):
		return "admin"
	default:
		return ""
	}
}

func (a *HTTPAuth) allow(r *http.Request) bool {
	if a.cfg.RateLimit.RPS <= 0 {
		return true
	}
	return a.limiterFor(a.bucketKey(r)).Allow()
}

// bucketKey picks the rate-limit bucket: the api key when one is sent,
// the remote host otherwise.
func (a *HTTPAuth) bucketKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(a.keyHeader)); key != "" {
		return key
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (a *HTTPAuth) limiterFor(key string) *rate.Limiter {
	if existing, ok := a.limiters.Load(key); ok {
		return existing.(*rate.Limiter)
	}

	burst := a.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}
	created, _ := a.limiters.LoadOrStore(key, rate.NewLimiter(rate.Limit(a.cfg.RateLimit.RPS), burst))
	return created.(*rate.Limiter)
}
