package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mysite/internal/service"
	"github.com/mysite/internal/view"
)

type postForm struct {
	Title string `form:"title"`
	Body  string `form:"body"`
}

// ShowPostList 渲染已发布文章列表，按发布时间倒序
func (a *API) ShowPostList(c *gin.Context) {
	posts, err := a.posts.ListPublished()
	if err != nil {
		a.serverError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_list.html", gin.H{
		"title": "",
		"page":  view.PostListPage{Heading: "Posts", Posts: posts},
	})
}

// ShowDrafts 渲染草稿列表，按创建时间正序
func (a *API) ShowDrafts(c *gin.Context) {
	posts, err := a.posts.ListDrafts()
	if err != nil {
		a.serverError(c, err)
		return
	}

	published, drafts, err := a.posts.Stats()
	if err != nil {
		a.serverError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_list.html", gin.H{
		"title": "Drafts",
		"page": view.PostListPage{
			Heading:    "Drafts",
			Posts:      posts,
			Drafts:     true,
			Published:  published,
			DraftCount: drafts,
		},
	})
}

// ShowAbout 渲染关于页
func (a *API) ShowAbout(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "about.html", gin.H{"title": "About"})
}

// ShowPostDetail 渲染文章详情；登录用户可看到待审核评论与管理操作。
func (a *API) ShowPostDetail(c *gin.Context) {
	id, ok := a.parseIDOrNotFound(c, "id")
	if !ok {
		return
	}

	_, _, loggedIn := currentUser(c)
	detail, err := a.posts.Detail(id, loggedIn)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	bodyHTML, err := renderMarkdown(detail.Post.Body)
	if err != nil {
		a.serverError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_detail.html", gin.H{
		"title": detail.Post.Title,
		"page": view.PostDetailPage{
			Post:      detail.Post,
			BodyHTML:  bodyHTML,
			Comments:  detail.Comments,
			Pending:   detail.Pending,
			Published: !detail.Post.IsDraft(),
			CanManage: loggedIn,
		},
	})
}

// ShowPostCreate 渲染新建文章表单
func (a *API) ShowPostCreate(c *gin.Context) {
	a.renderPostForm(c, http.StatusOK, view.PostFormPage{
		Heading: "New post",
		Action:  "/post/new",
	})
}

// CreatePost 创建草稿文章并跳转到详情页
func (a *API) CreatePost(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, "invalid form")
		return
	}

	post, err := a.posts.Create(service.PostInput{
		Title:    form.Title,
		Body:     form.Body,
		AuthorID: authUserID(c),
	})
	if err != nil {
		if verr, ok := service.IsValidationError(err); ok {
			a.renderPostForm(c, http.StatusUnprocessableEntity, view.PostFormPage{
				Heading: "New post",
				Action:  "/post/new",
				Title:   form.Title,
				Body:    form.Body,
				Errors:  verr.Fields,
			})
			return
		}
		a.serverError(c, err)
		return
	}

	redirectToPost(c, post.ID)
}

// ShowPostEdit 渲染编辑表单
func (a *API) ShowPostEdit(c *gin.Context) {
	id, ok := a.parseIDOrNotFound(c, "id")
	if !ok {
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	a.renderPostForm(c, http.StatusOK, view.PostFormPage{
		Heading: "Edit post",
		Action:  fmt.Sprintf("/post/%d/edit", post.ID),
		PostID:  post.ID,
		Title:   post.Title,
		Body:    post.Body,
	})
}

// UpdatePost 覆盖标题与正文
func (a *API) UpdatePost(c *gin.Context) {
	id, ok := a.parseIDOrNotFound(c, "id")
	if !ok {
		return
	}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, "invalid form")
		return
	}

	post, err := a.posts.Update(id, service.PostInput{Title: form.Title, Body: form.Body})
	if err != nil {
		if verr, ok := service.IsValidationError(err); ok {
			a.renderPostForm(c, http.StatusUnprocessableEntity, view.PostFormPage{
				Heading: "Edit post",
				Action:  fmt.Sprintf("/post/%d/edit", id),
				PostID:  id,
				Title:   form.Title,
				Body:    form.Body,
				Errors:  verr.Fields,
			})
			return
		}
		a.handlePostError(c, err)
		return
	}

	redirectToPost(c, post.ID)
}

// ShowPostDelete 渲染删除确认页
func (a *API) ShowPostDelete(c *gin.Context) {
	id, ok := a.parseIDOrNotFound(c, "id")
	if !ok {
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_confirm_delete.html", gin.H{
		"title": "Delete post",
		"page": view.ConfirmPage{
			Post:   *post,
			Action: fmt.Sprintf("/post/%d/remove", post.ID),
		},
	})
}

// DeletePost 删除文章及其评论，然后返回列表页
func (a *API) DeletePost(c *gin.Context) {
	id, ok := a.parseIDOrNotFound(c, "id")
	if !ok {
		return
	}

	if err := a.posts.Delete(id); err != nil {
		a.handlePostError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// PublishPost 发布文章并跳转到详情页
func (a *API) PublishPost(c *gin.Context) {
	id, ok := a.parseIDOrNotFound(c, "id")
	if !ok {
		return
	}

	post, err := a.posts.Publish(id)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	redirectToPost(c, post.ID)
}

func (a *API) renderPostForm(c *gin.Context, status int, page view.PostFormPage) {
	a.renderHTML(c, status, "post_form.html", gin.H{
		"title": page.Heading,
		"page":  page,
	})
}

func (a *API) handlePostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrCommentNotFound):
		a.notFound(c)
	default:
		a.serverError(c, err)
	}
}

func authUserID(c *gin.Context) uint {
	if value, exists := c.Get(contextUserIDKey); exists {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	userID, _, _ := currentUser(c)
	return userID
}
