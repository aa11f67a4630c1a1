package styles_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/templatestyles/pkg/stylesheet"
	"github.com/dmitrymomot/templatestyles/svc/styles"
)

type envelope[T any] struct {
	Data  T                   `json:"data"`
	Error *styles.ErrorDetail `json:"error"`
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestHandle_Sanitize(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	h := svc.Handle()

	tests := []struct {
		name     string
		target   string
		expected string
	}{
		{name: "default scope", target: "/sanitize", expected: "#c .a {b:c;} "},
		{name: "explicit prefix", target: "/sanitize?prefix=.p%20", expected: ".p .a {b:c;} "},
		{name: "empty prefix", target: "/sanitize?prefix=", expected: ".a {b:c;} "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.target, ".a { b: c; behavior: x; }")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.expected, rec.Body.String())
		})
	}
}

func TestHandle_Lint(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	rec := do(t, svc.Handle(), http.MethodPost, "/lint", ".a {\n  behavior: x;\n}")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode[[]stylesheet.Warning](t, rec)
	require.Len(t, env.Data, 1)
	assert.Equal(t, stylesheet.CodeDisallowedProperty, env.Data[0].Code)
	assert.Equal(t, 2, env.Data[0].Line)
	assert.Nil(t, env.Error)
}

func TestHandle_PageLifecycle(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	h := svc.Handle()

	rec := do(t, h, http.MethodPut, "/pages/2", ".tpl { a: 1; }")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/pages/1", ".own { b: 2; x: rgb(1,2,3); y: url(z); }")
	require.Equal(t, http.StatusOK, rec.Code)
	attached := decode[styles.Result](t, rec)
	assert.Equal(t, int64(1), attached.Data.PageID)
	require.Len(t, attached.Data.Warnings, 1)
	assert.Equal(t, stylesheet.CodeDisallowedFunction, attached.Data.Warnings[0].Code)

	rec = do(t, h, http.MethodGet, "/pages/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	tree := decode[stylesheet.Tree](t, rec)
	require.Len(t, tree.Data.Rules(), 1)
	assert.Equal(t, []string{"#c .own "}, tree.Data.Rules()[0].Selectors)

	rec = do(t, h, http.MethodGet, "/pages/1/css?templates=10:2,4:2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#c .tpl {a:1;} #c .own {b:2;x:rgb(1,2,3);} ", rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/pages/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/pages/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[any](t, rec).Error.Code)

	rec = do(t, h, http.MethodGet, "/pages/1/css", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandle_BadRequests(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	h := svc.Handle()

	tests := []struct {
		name   string
		method string
		target string
		field  string
	}{
		{name: "non numeric id", method: http.MethodPut, target: "/pages/abc", field: "id"},
		{name: "zero id", method: http.MethodDelete, target: "/pages/0", field: "id"},
		{name: "template without namespace", method: http.MethodGet, target: "/pages/1/css?templates=5", field: "templates"},
		{name: "template with bad page", method: http.MethodGet, target: "/pages/1/css?templates=10:x", field: "templates"},
		{name: "template with bad namespace", method: http.MethodGet, target: "/pages/1/css?templates=main:5", field: "templates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, ".a { b: c; }")
			require.Equal(t, http.StatusBadRequest, rec.Code)
			env := decode[any](t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, "bad_request", env.Error.Code)
			assert.Contains(t, env.Error.Details, tt.field)
		})
	}
}

func TestHandle_BodyTooLarge(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, styles.WithMaxBodyBytes(16))

	rec := do(t, svc.Handle(), http.MethodPost, "/sanitize", strings.Repeat(".a { b: c; } ", 4))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "request_entity_too_large", decode[any](t, rec).Error.Code)
}

func TestParseTemplates(t *testing.T) {
	t.Parallel()

	got, err := styles.ParseTemplates(" 10:5, 10:3 ,828:7,,")
	require.NoError(t, err)
	assert.Equal(t, map[int][]int64{10: {5, 3}, 828: {7}}, got)

	got, err = styles.ParseTemplates("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = styles.ParseTemplates("10:-1")
	assert.ErrorIs(t, err, styles.ErrInvalidTemplates)
}
