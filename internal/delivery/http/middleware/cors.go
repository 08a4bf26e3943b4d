package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods  = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders  = "Authorization, Content-Type, Accept, X-Request-ID"
	corsExposeHeaders = "X-Request-ID"
	corsMaxAge        = "86400"
)

// corsPolicy decides which Origin values are echoed back. "*" in the allow list admits any
// origin but never with credentials.
type corsPolicy struct {
	origins   map[string]struct{}
	anyOrigin bool
}

func newCORSPolicy(allowedOrigins []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			p.anyOrigin = true
		default:
			p.origins[o] = struct{}{}
		}
	}
	return p
}

// headers returns the response headers for origin, or nil when origin is not allowed.
func (p corsPolicy) headers(origin string) map[string]string {
	if origin == "" {
		return nil
	}
	if _, ok := p.origins[origin]; ok {
		return map[string]string{
			"Access-Control-Allow-Origin":      origin,
			"Access-Control-Allow-Credentials": "true",
		}
	}
	if p.anyOrigin {
		return map[string]string{"Access-Control-Allow-Origin": "*"}
	}
	return nil
}

// CORS returns a handler that adds CORS headers for allowed origins (the kiosk and admin
// front-ends) and responds to OPTIONS preflight requests with 204.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		allow := policy.headers(r.Header.Get("Origin"))

		if r.Method == http.MethodOptions {
			if allow != nil {
				setHeaders(w.Header(), allow)
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
				w.Header().Set("Access-Control-Max-Age", corsMaxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if allow == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(&corsResponseWriter{ResponseWriter: w, allow: allow}, r)
	})
}

func setHeaders(h http.Header, values map[string]string) {
	for k, v := range values {
		h.Set(k, v)
	}
}

// corsResponseWriter sets the CORS headers right before the status line goes out.
type corsResponseWriter struct {
	http.ResponseWriter
	allow       map[string]string
	wroteHeader bool
}

func (w *corsResponseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		setHeaders(w.ResponseWriter.Header(), w.allow)
		w.ResponseWriter.Header().Set("Access-Control-Expose-Headers", corsExposeHeaders)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *corsResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}
