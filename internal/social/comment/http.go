// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/pkg/convert"
)

// ParamCommentID is the URL parameter carrying a comment id.
const ParamCommentID = "comment_id"

var _ ReviewLocator = (*review.Service)(nil)

// Handler implements the HTTP layer for comments.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
Register mounts /comments under a review router.

# Endpoints
  - GET    /comments              : public list
  - POST   /comments              : authenticated create
  - GET    /comments/{comment_id} : public retrieve
  - PATCH  /comments/{comment_id} : author or moderator+
  - DELETE /comments/{comment_id} : author or moderator+
*/
func (handler *Handler) Register(router chi.Router) {
	router.Route("/comments", func(commentsRoute chi.Router) {
		commentsRoute.Get("/", handler.list)
		commentsRoute.With(middleware.RequireAuth).Post("/", handler.create)

		commentsRoute.Get("/{comment_id}", handler.get)
		commentsRoute.With(middleware.RequireAuth).Patch("/{comment_id}", handler.update)
		commentsRoute.With(middleware.RequireAuth).Delete("/{comment_id}", handler.delete)
	})
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

type commentPath struct {
	titleID, reviewID, commentID int64
}

func path(request *http.Request) (commentPath, error) {
	titleID, reviewID, err := review.Path(request)
	if err != nil {
		return commentPath{}, err
	}
	commentID, ok := convert.ToID(requestutil.Param(request, ParamCommentID))
	if !ok {
		return commentPath{}, apperr.NotFound("Comment")
	}
	return commentPath{titleID: titleID, reviewID: reviewID, commentID: commentID}, nil
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := review.Path(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := handler.service.List(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comments)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	target, err := path(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Get(request.Context(), target.titleID, target.reviewID, target.commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

/*
POST /api/v1/titles/{title_id}/reviews/{review_id}/comments.

Response:
  - 201: Comment
  - 400: Empty text
  - 404: Review not found under this title
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := review.Path(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeValid(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Create(request.Context(), requestutil.Actor(request), titleID, reviewID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	target, err := path(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeValid(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Update(request.Context(), requestutil.Actor(request),
		target.titleID, target.reviewID, target.commentID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	target, err := path(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.Delete(request.Context(), requestutil.Actor(request), target.titleID, target.reviewID, target.commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
