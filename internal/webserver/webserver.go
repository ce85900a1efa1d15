package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/bistrokit/bistrokit/internal/app"
)

// AppContextKey is the echo context key carrying the application container.
const AppContextKey = "bistrokit_app"

var server *WebServer

type WebServer struct {
	appCtx app.AppContext
	root   *echo.Echo
}

type routeEntry struct {
	method  string
	path    string
	handler echo.HandlerFunc
}

var (
	pubRoutes   []routeEntry
	staffRoutes []routeEntry
	adminRoutes []routeEntry
)

// PubGET registers an unauthenticated customer route under /api.
func PubGET(path string, h echo.HandlerFunc) {
	pubRoutes = append(pubRoutes, routeEntry{http.MethodGet, path, h})
}

// PubPOST registers an unauthenticated customer route under /api.
func PubPOST(path string, h echo.HandlerFunc) {
	pubRoutes = append(pubRoutes, routeEntry{http.MethodPost, path, h})
}

// StaffGET registers an employee route under /staff/api.
func StaffGET(path string, h echo.HandlerFunc) {
	staffRoutes = append(staffRoutes, routeEntry{http.MethodGet, path, h})
}

// StaffPOST registers an employee route under /staff/api.
func StaffPOST(path string, h echo.HandlerFunc) {
	staffRoutes = append(staffRoutes, routeEntry{http.MethodPost, path, h})
}

// ApiGET registers an admin route under /admin/api.
func ApiGET(path string, h echo.HandlerFunc) {
	adminRoutes = append(adminRoutes, routeEntry{http.MethodGet, path, h})
}

// ApiPOST registers an admin route under /admin/api.
func ApiPOST(path string, h echo.HandlerFunc) {
	adminRoutes = append(adminRoutes, routeEntry{http.MethodPost, path, h})
}

// ApiPUT registers an admin route under /admin/api.
func ApiPUT(path string, h echo.HandlerFunc) {
	adminRoutes = append(adminRoutes, routeEntry{http.MethodPut, path, h})
}

// ApiDELETE registers an admin route under /admin/api.
func ApiDELETE(path string, h echo.HandlerFunc) {
	adminRoutes = append(adminRoutes, routeEntry{http.MethodDelete, path, h})
}

type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := jsoniter.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Init builds the package-level web server around the application container.
func Init(appCtx app.AppContext) *WebServer {
	server = &WebServer{appCtx: appCtx, root: echo.New()}
	server.setup()
	return server
}

// Service returns the initialized web server.
func Service() *WebServer {
	return server
}

func (s *WebServer) setup() {
	cfg := s.appCtx.Config()
	e := s.root
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.System.Debug
	e.JSONSerializer = jsonSerializer{}
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.Web.Secret))))
	e.Use(echoprometheus.NewMiddleware("bistrokit"))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, s.appCtx)
			return next(c)
		}
	})

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	e.Static("/images", cfg.Web.UploadDir)

	e.POST("/auth/login", s.handleLogin)
	e.POST("/auth/logout", s.handleLogout)
	e.GET("/auth/me", s.handleCurrentUser)

	pub := e.Group("/api")
	for _, r := range pubRoutes {
		pub.Add(r.method, r.path, r.handler)
	}

	staff := e.Group("/staff/api", s.requireEmployee)
	for _, r := range staffRoutes {
		staff.Add(r.method, r.path, r.handler)
	}

	admin := e.Group("/admin/api", s.requireAdmin)
	for _, r := range adminRoutes {
		admin.Add(r.method, r.path, r.handler)
	}

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		message := "internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			message = fmt.Sprintf("%v", he.Message)
		}
		if code >= http.StatusInternalServerError {
			zap.L().Error("http error",
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		_ = c.JSON(code, map[string]interface{}{
			"code": code,
			"msg":  message,
		})
	}
}

// Start runs the HTTP listener until the process stops or the listener fails.
func (s *WebServer) Start() error {
	cfg := s.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("starting web server on %s", addr)
	return s.root.Start(addr)
}

// Shutdown stops the HTTP listener gracefully.
func (s *WebServer) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.root.Shutdown(ctx)
}
