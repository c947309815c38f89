package requestid

import (
	"net/http"

	"github.com/google/uuid"
)

// Header is the default header the id is read from and written to.
const Header = "X-Request-ID"

const maxIDLength = 128

type config struct {
	header   string
	generate func() string
}

// Option configures Middleware.
type Option func(*config)

// WithHeader reads and writes the id under name instead of X-Request-ID.
func WithHeader(name string) Option {
	return func(c *config) {
		if name != "" {
			c.header = name
		}
	}
}

// WithGenerator replaces the UUID generator.
func WithGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.generate = fn
		}
	}
}

// Middleware attaches a request id to every request. Client supplied ids are
// kept only when they are at most 128 characters of [A-Za-z0-9_-].
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := config{header: Header, generate: uuid.NewString}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(cfg.header)
			if !valid(id) {
				id = cfg.generate()
			}
			w.Header().Set(cfg.header, id)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
		})
	}
}

func valid(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch c := id[i]; {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
