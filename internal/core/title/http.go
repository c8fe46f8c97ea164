// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/convert"
)

// ParamTitleID is the URL parameter carrying a title id.
const ParamTitleID = "title_id"

// Handler implements the HTTP layer for the title catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new title [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
Routes returns a [chi.Router] mounted at /titles.

nested registers child resources (reviews) under /{title_id}.
*/
func (handler *Handler) Routes(nested func(chi.Router)) chi.Router {
	router := chi.NewRouter()
	admin := middleware.RequireRole(sec.RoleAdmin)

	router.Get("/", handler.list)
	router.With(admin).Post("/", handler.create)

	router.Route("/{title_id}", func(titleRoute chi.Router) {
		titleRoute.Get("/", handler.get)
		titleRoute.With(admin).Patch("/", handler.update)
		titleRoute.With(admin).Delete("/", handler.delete)

		if nested != nil {
			nested(titleRoute)
		}
	})

	return router
}

// # Request Payloads

type createTitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required,slug"`
	Genres      []string `json:"genre" validate:"dive,slug"`
}

type updateTitleRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genre"`
}

// TitleID parses the title id URL parameter.
func TitleID(request *http.Request) (int64, error) {
	id, ok := convert.ToID(requestutil.Param(request, ParamTitleID))
	if !ok {
		return 0, apperr.NotFound("Title")
	}
	return id, nil
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	views, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, views)
}

/*
GET /api/v1/titles/{title_id}.

Response:
  - 200: View: title with category, genres and rating
  - 404: Title not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := TitleID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.TitleWithRating(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createTitleRequest
	if err := requestutil.DecodeValid(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Create(request.Context(), requestutil.Actor(request), CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, view)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := TitleID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateTitleRequest
	if err := requestutil.DecodeValid(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Update(request.Context(), requestutil.Actor(request), id, UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := TitleID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
