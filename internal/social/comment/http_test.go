// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/clock"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/policy"
	"github.com/taibuivan/yamdb/internal/social/comment"
	"github.com/taibuivan/yamdb/internal/social/review"
)

// tokens maps bearer tokens straight to actors.
type tokens map[string]policy.Actor

func (t tokens) ResolveToken(_ context.Context, token string) (*sec.AuthClaims, error) {
	actor, ok := t[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &sec.AuthClaims{UserID: actor.ID, Username: actor.Username, Role: actor.Role}, nil
}

func newRouter(t *testing.T) (http.Handler, *review.Review) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.System{}
	reviews := review.NewService(review.NewMemoryRepository(), knownTitles{movie: true}, clk, logger)
	target, err := reviews.Create(t.Context(), alice, movie, review.CreateInput{Text: "Great", Score: 9})
	require.NoError(t, err)

	comments := comment.NewHandler(comment.NewService(comment.NewMemoryRepository(), reviews, clk, logger))

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens{"alice": alice, "bob": bob, "mod": moderator}))
	router.Route("/titles/{title_id}", func(titleRoute chi.Router) {
		review.NewHandler(reviews).Register(titleRoute, comments.Register)
	})
	return router, target
}

func call(router http.Handler, method, url, token, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, url, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestHandler_CommentLifecycle(t *testing.T) {
	router, target := newRouter(t)
	base := fmt.Sprintf("/titles/%d/reviews/%d/comments", movie, target.ID)

	recorder := call(router, http.MethodPost, base, "", `{"text":"hi"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = call(router, http.MethodPost, base, "bob", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = call(router, http.MethodPost, base, "bob", `{"text":"Agreed"}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		Data struct {
			ID      int64  `json:"id"`
			Author  string `json:"author"`
			Text    string `json:"text"`
			PubDate string `json:"pub_date"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "bob", created.Data.Author)
	assert.NotEmpty(t, created.Data.PubDate)

	item := fmt.Sprintf("%s/%d", base, created.Data.ID)

	recorder = call(router, http.MethodGet, base, "", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"Agreed"`)

	recorder = call(router, http.MethodPatch, item, "alice", `{"text":"hijack"}`)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = call(router, http.MethodDelete, item, "alice", "")
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = call(router, http.MethodDelete, item, "mod", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = call(router, http.MethodGet, item, "", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandler_BadPath(t *testing.T) {
	router, target := newRouter(t)

	tests := []struct {
		name string
		url  string
	}{
		{"unknown_title", fmt.Sprintf("/titles/404/reviews/%d/comments", target.ID)},
		{"unknown_review", fmt.Sprintf("/titles/%d/reviews/999/comments", movie)},
		{"non_numeric_review", fmt.Sprintf("/titles/%d/reviews/abc/comments", movie)},
		{"non_numeric_comment", fmt.Sprintf("/titles/%d/reviews/%d/comments/abc", movie, target.ID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := call(router, http.MethodGet, tt.url, "", "")
			assert.Equal(t, http.StatusNotFound, recorder.Code)
		})
	}
}
