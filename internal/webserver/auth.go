package webserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bistrokit/bistrokit/internal/domain"
	"github.com/bistrokit/bistrokit/pkg/common"
)

const (
	sessionName        = "bistrokit_session"
	sessionUsernameKey = "username"
	sessionAdminKey    = "is_admin"
	sessionEmployeeKey = "is_employee"
)

type loginPayload struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (s *WebServer) handleLogin(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to parse login parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	var opr domain.SysOpr
	err := s.appCtx.DB().
		Where("username = ? AND status = ?", strings.TrimSpace(payload.Username), common.ENABLED).
		First(&opr).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(opr.Password), []byte(payload.Password)) != nil {
		zap.L().Warn("login rejected", zap.String("username", payload.Username), zap.String("ip", c.RealIP()))
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	sess, _ := session.Get(sessionName, c)
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	sess.Values[sessionUsernameKey] = opr.Username
	sess.Values[sessionAdminKey] = opr.IsAdmin
	sess.Values[sessionEmployeeKey] = opr.IsEmployee
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save session")
	}

	s.appCtx.DB().Model(&domain.SysOpr{}).
		Where("id = ?", opr.ID).Update("last_login", time.Now())
	s.appCtx.DB().Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   opr.Username,
		OprIp:     c.RealIP(),
		OptAction: "login",
		OptDesc:   "operator login",
		OptTime:   time.Now(),
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"username":    opr.Username,
		"realname":    opr.Realname,
		"is_admin":    opr.IsAdmin,
		"is_employee": opr.IsEmployee,
	})
}

func (s *WebServer) handleLogout(c echo.Context) error {
	sess, _ := session.Get(sessionName, c)
	if username, ok := sess.Values[sessionUsernameKey].(string); ok && username != "" {
		s.appCtx.DB().Create(&domain.SysOprLog{
			ID:        common.UUIDint64(),
			OprName:   username,
			OprIp:     c.RealIP(),
			OptAction: "logout",
			OptDesc:   "operator logout",
			OptTime:   time.Now(),
		})
	}
	sess.Options = &sessions.Options{Path: "/", MaxAge: -1}
	sess.Values = map[interface{}]interface{}{}
	_ = sess.Save(c.Request(), c.Response())
	return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
}

func (s *WebServer) handleCurrentUser(c echo.Context) error {
	sess, _ := session.Get(sessionName, c)
	username, _ := sess.Values[sessionUsernameKey].(string)
	if username == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	isAdmin, _ := sess.Values[sessionAdminKey].(bool)
	isEmployee, _ := sess.Values[sessionEmployeeKey].(bool)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"username":    username,
		"is_admin":    isAdmin,
		"is_employee": isEmployee,
	})
}

func (s *WebServer) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, _ := session.Get(sessionName, c)
		if isAdmin, _ := sess.Values[sessionAdminKey].(bool); !isAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

func (s *WebServer) requireEmployee(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, _ := session.Get(sessionName, c)
		isAdmin, _ := sess.Values[sessionAdminKey].(bool)
		isEmployee, _ := sess.Values[sessionEmployeeKey].(bool)
		if !isAdmin && !isEmployee {
			return echo.NewHTTPError(http.StatusForbidden, "staff access required")
		}
		return next(c)
	}
}

// CurrentOperator returns the logged-in username for audit log entries.
func CurrentOperator(c echo.Context) string {
	sess, _ := session.Get(sessionName, c)
	username, _ := sess.Values[sessionUsernameKey].(string)
	return username
}
