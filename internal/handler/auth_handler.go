package handler

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/mysite/internal/db"
	"gorm.io/gorm"
)

// DefaultLoginPath 未配置时的登录地址
const DefaultLoginPath = "/login"

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	contextUserIDKey   = "auth_user_id"
)

// AuthDecision 是认证守卫的判定结果
type AuthDecision int

const (
	// RedirectToLogin 表示请求没有有效会话
	RedirectToLogin AuthDecision = iota
	// Authorized 表示会话中存在已登录用户
	Authorized
)

func (d AuthDecision) String() string {
	if d == Authorized {
		return "authorized"
	}
	return "redirect_to_login"
}

// Authorize 检查会话并返回判定结果与用户 ID。
func Authorize(session sessions.Session) (AuthDecision, uint) {
	if session == nil {
		return RedirectToLogin, 0
	}
	userID, ok := session.Get(sessionUserIDKey).(uint)
	if !ok || userID == 0 {
		return RedirectToLogin, 0
	}
	return Authorized, userID
}

// AuthRequired 在处理函数之前执行认证守卫，未登录时跳转到登录页并携带 next 参数。
func AuthRequired(loginPath string) gin.HandlerFunc {
	if strings.TrimSpace(loginPath) == "" {
		loginPath = DefaultLoginPath
	}
	return func(c *gin.Context) {
		decision, userID := Authorize(sessions.Default(c))
		if decision != Authorized {
			target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// currentUser 返回当前登录用户，未登录时 ok 为 false。
func currentUser(c *gin.Context) (uint, string, bool) {
	session := sessions.Default(c)
	decision, userID := Authorize(session)
	if decision != Authorized {
		return 0, "", false
	}
	username, _ := session.Get(sessionUsernameKey).(string)
	return userID, username, true
}

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Log in",
		"next":  safeNext(c.Query("next")),
	})
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := safeNext(c.PostForm("next"))

	fail := func(status int, message string) {
		a.renderHTML(c, status, "login.html", gin.H{
			"title":    "Log in",
			"error":    message,
			"next":     next,
			"username": username,
		})
	}

	// 查找用户
	var user db.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[auth] request_id=%s lookup user: %v", requestIDFrom(c), err)
		}
		fail(http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	// 验证密码
	if !user.CheckPassword(password) {
		log.Printf("[auth] request_id=%s failed login for %q", requestIDFrom(c), username)
		fail(http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	// 设置会话
	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		log.Printf("[auth] request_id=%s save session: %v", requestIDFrom(c), err)
		fail(http.StatusInternalServerError, "Could not start session.")
		return
	}

	c.Redirect(http.StatusFound, next)
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Printf("[auth] request_id=%s clear session: %v", requestIDFrom(c), err)
	}
	c.Redirect(http.StatusFound, "/")
}

// safeNext 只允许站内相对路径，防止开放重定向。
// 浏览器会丢弃 URL 中的制表符和换行，"/\t/evil.test" 因此等同于 "//evil.test"。
func safeNext(raw string) string {
	next := strings.TrimSpace(raw)
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	if strings.IndexFunc(next, isControlRune) >= 0 {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

func isControlRune(r rune) bool {
	return r < 0x20 || r == 0x7f
}
