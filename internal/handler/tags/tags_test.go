package tags

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campus-events/internal/cache"
	"campus-events/internal/database"
	"campus-events/internal/model"
	"campus-events/internal/store"
	"campus-events/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func restore() {
	listTags = store.ListTags
	createTag = store.CreateTag
}

func newCtx(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validation.EchoValidator{V: validation.New()}
	req := httptest.NewRequest(method, "/api/tags", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestListTagsHandlerCaches(t *testing.T) {
	t.Cleanup(restore)
	calls := 0
	listTags = func(context.Context, database.Querier) ([]model.Tag, error) {
		calls++
		return []model.Tag{{TagID: 1, Name: "food"}}, nil
	}
	m := cache.NewMemoryCache()
	h := ListTagsHandler(nil, m, time.Minute)

	for i := 0; i < 3; i++ {
		c, rec := newCtx(http.MethodGet, "")
		require.NoError(t, h(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `[{"tag_id":1,"name":"food"}]`, rec.Body.String())
	}
	require.Equal(t, 1, calls)
	require.Contains(t, m.Data, CacheKey)
}

func TestListTagsHandlerError(t *testing.T) {
	t.Cleanup(restore)
	listTags = func(context.Context, database.Querier) ([]model.Tag, error) {
		return nil, errors.New("db down")
	}
	c, rec := newCtx(http.MethodGet, "")
	require.NoError(t, ListTagsHandler(nil, cache.NewMemoryCache(), time.Minute)(c))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCreateTagHandler(t *testing.T) {
	t.Cleanup(restore)
	createTag = func(_ context.Context, _ database.Querier, name string) (*model.Tag, error) {
		if name == "food" {
			return nil, store.ErrDuplicateTag
		}
		if name == "broken" {
			return nil, errors.New("db down")
		}
		return &model.Tag{TagID: 9, Name: name}, nil
	}
	m := cache.NewMemoryCache()
	m.Data[CacheKey] = `[]`

	c, rec := newCtx(http.MethodPost, `{"name":" books "}`)
	require.NoError(t, CreateTagHandler(nil, m)(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"tag_id":9,"name":"books"}`, rec.Body.String())
	require.NotContains(t, m.Data, CacheKey)

	tests := []struct {
		body string
		code int
	}{
		{`{"name":"food"}`, http.StatusConflict},
		{`{"name":"broken"}`, http.StatusInternalServerError},
		{`{"name":""}`, http.StatusBadRequest},
		{`{"name":"<script>"}`, http.StatusBadRequest},
		{`{`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		c, rec := newCtx(http.MethodPost, tc.body)
		require.NoError(t, CreateTagHandler(nil, m)(c))
		require.Equal(t, tc.code, rec.Code, tc.body)
	}
}
