package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/mysite/internal/handler"
	"github.com/mysite/internal/view"
	"gorm.io/gorm"
)

const sessionName = "mysite_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, sessionSecret string, opts handler.Options) *gin.Engine {
	r := gin.Default()
	r.Use(handler.RequestID())

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 模板内嵌在二进制中
	r.SetHTMLTemplate(view.MustTemplates())

	api := handler.NewAPI(gdb, opts)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.NoRoute(api.NotFound)

	// 公开路由
	r.GET("/", api.ShowPostList)
	r.GET("/about", api.ShowAbout)
	r.GET("/post/:id", api.ShowPostDetail)

	r.GET(api.LoginPath(), api.ShowLoginPage)
	r.POST(api.LoginPath(), api.Login)
	r.GET("/logout", api.Logout)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/posts", api.GetPublishedPosts)
		apiGroup.GET("/posts/:id", api.GetPublishedPost)
	}

	// 需要认证的路由
	auth := r.Group("")
	auth.Use(handler.AuthRequired(api.LoginPath()))
	{
		auth.GET("/drafts", api.ShowDrafts)

		auth.GET("/post/new", api.ShowPostCreate)
		auth.POST("/post/new", api.CreatePost)
		auth.GET("/post/:id/edit", api.ShowPostEdit)
		auth.POST("/post/:id/edit", api.UpdatePost)
		auth.GET("/post/:id/remove", api.ShowPostDelete)
		auth.POST("/post/:id/remove", api.DeletePost)
		auth.GET("/post/:id/publish", api.PublishPost)
		auth.POST("/post/:id/publish", api.PublishPost)

		auth.GET("/post/:id/comment", api.ShowCommentForm)
		auth.POST("/post/:id/comment", api.AddComment)
		auth.GET("/comment/:id/approve", api.ApproveComment)
		auth.POST("/comment/:id/approve", api.ApproveComment)
		auth.GET("/comment/:id/remove", api.RemoveComment)
		auth.POST("/comment/:id/remove", api.RemoveComment)
	}

	return r
}
