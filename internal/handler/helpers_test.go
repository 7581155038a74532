package handler

import "github.com/mysite/internal/service"

func postInput(title, body string, authorID uint) service.PostInput {
	return service.PostInput{Title: title, Body: body, AuthorID: authorID}
}

func commentInput(author, text string) service.CommentInput {
	return service.CommentInput{AuthorName: author, Text: text}
}
