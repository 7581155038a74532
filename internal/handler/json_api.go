package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mysite/internal/service"
)

// GetPublishedPosts 以 JSON 返回已发布文章
func (a *API) GetPublishedPosts(c *gin.Context) {
	posts, err := a.posts.ListPublished()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPublishedPost 以 JSON 返回单篇已发布文章及其已审核评论，草稿视为不存在
func (a *API) GetPublishedPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	detail, err := a.posts.Detail(id, false)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load post")
		return
	}

	if !a.posts.Visible(&detail.Post) {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": detail.Post})
}
