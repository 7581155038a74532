package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// parseIDOrNotFound 解析路径中的 id，失败时直接渲染 404。
func (a *API) parseIDOrNotFound(c *gin.Context, key string) (uint, bool) {
	id, err := parseUintParam(c, key)
	if err != nil {
		a.notFound(c)
		return 0, false
	}
	return id, true
}

// NotFound 渲染 404 页面，同时用作 NoRoute 处理函数
func (a *API) NotFound(c *gin.Context) {
	a.notFound(c)
}

func (a *API) notFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "error.html", gin.H{
		"title":   "Not Found",
		"message": "The page you requested does not exist.",
	})
	c.Abort()
}

func (a *API) serverError(c *gin.Context, err error) {
	log.Printf("[http] request_id=%s %s %s: %v", requestIDFrom(c), c.Request.Method, c.Request.URL.Path, err)
	c.Error(err)
	a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
		"title":   "Server Error",
		"message": "Something went wrong, please try again later.",
	})
	c.Abort()
}

func redirectToPost(c *gin.Context, id uint) {
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", id))
}
