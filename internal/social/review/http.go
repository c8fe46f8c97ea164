// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/convert"
)

// ParamReviewID is the URL parameter carrying a review id.
const ParamReviewID = "review_id"

// Handler implements the HTTP layer for reviews.
type Handler struct {
	service *Service
}

// NewHandler constructs a new review [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
Register mounts /reviews under a title router.

# Endpoints
  - GET    /reviews             : public list
  - POST   /reviews             : authenticated create
  - GET    /reviews/{review_id} : public retrieve
  - PATCH  /reviews/{review_id} : author or moderator+
  - DELETE /reviews/{review_id} : author or moderator+

nested registers child resources (comments) under /{review_id}.
*/
func (handler *Handler) Register(router chi.Router, nested func(chi.Router)) {
	router.Route("/reviews", func(reviewsRoute chi.Router) {
		reviewsRoute.Get("/", handler.list)
		reviewsRoute.With(middleware.RequireAuth).Post("/", handler.create)

		reviewsRoute.Route("/{review_id}", func(reviewRoute chi.Router) {
			reviewRoute.Get("/", handler.get)
			reviewRoute.With(middleware.RequireAuth).Patch("/", handler.update)
			reviewRoute.With(middleware.RequireAuth).Delete("/", handler.delete)

			if nested != nil {
				nested(reviewRoute)
			}
		})
	})
}

// # Request Payloads

type createReviewRequest struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required,min=1,max=10"`
}

type updateReviewRequest struct {
	Text  *string `json:"text" validate:"omitempty,min=1"`
	Score *int    `json:"score" validate:"omitempty,min=1,max=10"`
}

// Path resolves the title and review ids of the request.
func Path(request *http.Request) (titleID, reviewID int64, err error) {
	titleID, err = title.TitleID(request)
	if err != nil {
		return 0, 0, err
	}
	reviewID, ok := convert.ToID(requestutil.Param(request, ParamReviewID))
	if !ok {
		return 0, 0, apperr.NotFound("Review")
	}
	return titleID, reviewID, nil
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID, err := title.TitleID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviews, err := handler.service.List(request.Context(), titleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reviews)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := Path(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Get(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

/*
POST /api/v1/titles/{title_id}/reviews.

Response:
  - 201: Review
  - 400: Validation failure (score outside 1..10)
  - 404: Title not found
  - 409: The caller already reviewed this title
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	titleID, err := title.TitleID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createReviewRequest
	if err := requestutil.DecodeValid(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Create(request.Context(), requestutil.Actor(request), titleID, CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, review)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := Path(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateReviewRequest
	if err := requestutil.DecodeValid(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Update(request.Context(), requestutil.Actor(request), titleID, reviewID, UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := Path(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
