// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the real engine and catalog on the in-memory store,
// so no database is needed.
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"bookshelf/internal/catalog"
	"bookshelf/internal/engine"
	"bookshelf/internal/store/memstore"
)

type testServer struct {
	store   *memstore.Store
	handler http.Handler
}

// newTestServer wires handlers onto a chi router with the production paths.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := memstore.New()
	eng := engine.New(s.Categories(), s.Books(), s)
	cat := catalog.New(eng, s.Books(), s)
	categories := NewCategories(eng)
	books := NewBooks(cat)

	r := chi.NewRouter()
	r.Route("/api/categories", func(r chi.Router) {
		r.Post("/", categories.Create)
		r.Get("/", categories.List)
		r.Get("/tree", categories.Tree)
		r.Get("/{id}", categories.Get)
		r.Patch("/{id}", categories.Update)
		r.Delete("/{id}", categories.Delete)
		r.Get("/{id}/subcategories", categories.Subcategories)
		r.Get("/{id}/path", categories.Path)
	})
	r.Route("/api/books", func(r chi.Router) {
		r.Post("/", books.Create)
		r.Get("/", books.List)
		r.Get("/by-category/{categoryId}", books.ByCategory)
		r.Get("/{id}", books.Get)
		r.Patch("/{id}", books.Update)
		r.Delete("/{id}", books.Delete)
	})

	return &testServer{store: s, handler: r}
}

// do sends a request with an optional JSON body and returns the recorder.
func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

// decode unmarshals the response body into v.
func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// expectStatus fails the test when the recorder holds another status.
func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status: got %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}
