package auth

import (
	"net/http"
)

// HTTPMiddleware validates bearer tokens on incoming requests and enforces
// write access: requests with an unsafe method need RoleOperator. Requests to
// paths listed in skipPaths bypass authentication.
func HTTPMiddleware(jwtService *JWTService, skipPaths ...string) func(http.Handler) http.Handler {
	skipSet := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skipSet[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := skipSet[r.URL.Path]; skip {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			if !claims.Allows(requiredRoles(r.Method)...) {
				writeError(w, http.StatusForbidden, "insufficient role")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

func requiredRoles(method string) []string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return []string{RoleViewer, RoleOperator}
	default:
		return []string{RoleOperator}
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
