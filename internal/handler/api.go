package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mysite/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	posts     *service.PostService
	comments  *service.CommentService
	loginPath string
	siteName  string
}

// Options 描述构建 API 时可配置的站点参数。
type Options struct {
	LoginPath string
	SiteName  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, opts Options) *API {
	loginPath := strings.TrimSpace(opts.LoginPath)
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	siteName := strings.TrimSpace(opts.SiteName)
	if siteName == "" {
		siteName = "My Blog"
	}

	return &API{
		db:        db,
		posts:     service.NewPostService(db),
		comments:  service.NewCommentService(db),
		loginPath: loginPath,
		siteName:  siteName,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// LoginPath 返回未登录时的跳转地址
func (a *API) LoginPath() string {
	return a.loginPath
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = a.siteName
	}
	if _, exists := payload["loginPath"]; !exists {
		payload["loginPath"] = a.loginPath
	}
	if _, exists := payload["currentUser"]; !exists {
		if _, username, ok := currentUser(c); ok {
			payload["currentUser"] = username
		}
	}

	c.HTML(status, template, payload)
}
