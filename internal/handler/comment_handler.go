package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mysite/internal/db"
	"github.com/mysite/internal/service"
	"github.com/mysite/internal/view"
)

type commentForm struct {
	AuthorName string `form:"author_name"`
	Text       string `form:"text"`
}

// ShowCommentForm 渲染空的评论表单，作者名默认填入当前用户名
func (a *API) ShowCommentForm(c *gin.Context) {
	id, ok := a.parseIDOrNotFound(c, "id")
	if !ok {
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	_, username, _ := currentUser(c)
	a.renderCommentForm(c, http.StatusOK, *post, commentForm{AuthorName: username}, nil)
}

// AddComment 保存一条待审核评论并跳回文章详情
func (a *API) AddComment(c *gin.Context) {
	id, ok := a.parseIDOrNotFound(c, "id")
	if !ok {
		return
	}

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, "invalid form")
		return
	}

	comment, err := a.comments.Add(id, service.CommentInput{
		AuthorName: form.AuthorName,
		Text:       form.Text,
	})
	if err != nil {
		if verr, ok := service.IsValidationError(err); ok {
			post, getErr := a.posts.Get(id)
			if getErr != nil {
				a.handlePostError(c, getErr)
				return
			}
			a.renderCommentForm(c, http.StatusUnprocessableEntity, *post, form, verr.Fields)
			return
		}
		a.handlePostError(c, err)
		return
	}

	redirectToPost(c, comment.PostID)
}

// ApproveComment 审核通过评论
func (a *API) ApproveComment(c *gin.Context) {
	id, ok := a.parseIDOrNotFound(c, "id")
	if !ok {
		return
	}

	comment, err := a.comments.Approve(id)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	redirectToPost(c, comment.PostID)
}

// RemoveComment 删除评论，跳转使用删除前记录的文章 ID
func (a *API) RemoveComment(c *gin.Context) {
	id, ok := a.parseIDOrNotFound(c, "id")
	if !ok {
		return
	}

	postID, err := a.comments.Remove(id)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	redirectToPost(c, postID)
}

func (a *API) renderCommentForm(c *gin.Context, status int, post db.Post, form commentForm, errs map[string]string) {
	a.renderHTML(c, status, "comment_form.html", gin.H{
		"title": "Add comment",
		"page": view.CommentFormPage{
			Post:       post,
			Action:     fmt.Sprintf("/post/%d/comment", post.ID),
			AuthorName: form.AuthorName,
			Text:       form.Text,
			Errors:     errs,
		},
	})
}
