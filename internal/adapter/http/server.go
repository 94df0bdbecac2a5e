package adapthttp

import (
	"net/http"

	"go.uber.org/zap"

	"carbontrack/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCConfig carries the optional SSO login configuration.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	footprint *app.FootprintService
	report    *app.ReportService
	auth      *app.AuthService
	webDir    string
	oidc      OIDCConfig
	log       *zap.Logger
}

// New creates a Server wired to the given application services.
func New(fp *app.FootprintService, rp *app.ReportService, auth *app.AuthService, webDir string, oidcCfg OIDCConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		footprint: fp,
		report:    rp,
		auth:      auth,
		webDir:    webDir,
		oidc:      oidcCfg,
		log:       log,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/signup", s.handleSignup)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)

	mux.HandleFunc("/sso/login", s.handleSSOLogin)
	mux.HandleFunc("/sso/callback", s.handleSSOCallback)

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.webDir))))

	mux.Handle("/calculate", s.requireSession(http.HandlerFunc(s.handleCalculate)))
	mux.Handle("/tracker", s.requireSession(http.HandlerFunc(s.handleTracker)))
	mux.Handle("/", s.requireSession(http.HandlerFunc(s.handleIndex)))

	return s.loggingMiddleware(withNoCache(mux))
}
