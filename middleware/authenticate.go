package middleware

import (
	"net/http"
	"strings"

	authcore "github.com/blogstack/authcore"
)

// Authenticate attaches a principal to the request context when a valid
// access token is presented, and passes anonymous requests through
// untouched. Route-level protection belongs to RequireAuth and RequireRole;
// this stage only establishes identity. CORS preflights are never
// authenticated.
func Authenticate(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := engine.Authenticate(r.Context(), token)
			if err != nil {
				// A bad token downgrades the request to anonymous rather
				// than failing it; public routes stay reachable.
				next.ServeHTTP(w, r)
				return
			}

			ctx := authcore.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
