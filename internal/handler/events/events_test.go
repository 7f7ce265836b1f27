package events

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campus-events/internal/api"
	"campus-events/internal/database"
	"campus-events/internal/middleware"
	"campus-events/internal/model"
	"campus-events/internal/service"
	"campus-events/internal/store"
	"campus-events/internal/validation"
	"campus-events/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

const maxPhoto = 1024

var (
	now      = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pngPhoto = base64.StdEncoding.EncodeToString(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...))
)

func restore() {
	listActiveEvents = store.ListActiveEvents
	listEventsForUser = store.ListEventsForUser
	getEventByID = store.GetEventByID
	createEvent = store.CreateEvent
	editEvent = store.EditEvent
	checkPhotos = service.CheckPhotos
	timeNow = time.Now
}

func newCtx(method, target, body string, cl *service.CustomClaims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validation.EchoValidator{V: validation.New()}
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if cl != nil {
		c.Set(middleware.ContextUserKey, cl)
	}
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetPath("/api/events/:event_id")
	c.SetParamNames("event_id")
	c.SetParamValues(id)
	return c
}

func newCounter() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Name: "events_created_total"})
}

var ann = &service.CustomClaims{UserID: 1, Name: "Ann", CanPostEvents: true}

func TestListEventsHandler(t *testing.T) {
	t.Cleanup(restore)
	timeNow = func() time.Time { return now }

	var got store.EventFilter
	listActiveEvents = func(_ context.Context, _ database.Querier, at time.Time, f store.EventFilter) ([]model.Event, error) {
		require.Equal(t, now, at)
		got = f
		return []model.Event{{EventID: 1, ExpTime: now.Add(time.Hour), Tags: []model.Tag{}, Photos: []model.Photo{}}}, nil
	}

	c, rec := newCtx(http.MethodGet, "/api/events/?tag=food&sort=desc", "", ann)
	require.NoError(t, ListEventsHandler(nil)(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, store.EventFilter{Tag: "food", Sort: store.SortDesc}, got)

	var resp api.EventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)

	c, rec = newCtx(http.MethodGet, "/api/events/?sort=random", "", ann)
	require.NoError(t, ListEventsHandler(nil)(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	listActiveEvents = func(context.Context, database.Querier, time.Time, store.EventFilter) ([]model.Event, error) {
		return nil, errors.New("db down")
	}
	c, rec = newCtx(http.MethodGet, "/api/events/", "", ann)
	require.NoError(t, ListEventsHandler(nil)(c))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListMyEventsHandler(t *testing.T) {
	t.Cleanup(restore)
	listEventsForUser = func(_ context.Context, _ database.Querier, userID int) ([]model.Event, error) {
		require.Equal(t, 1, userID)
		return []model.Event{}, nil
	}
	c, rec := newCtx(http.MethodGet, "/api/events/mine", "", ann)
	require.NoError(t, ListMyEventsHandler(nil)(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"events":[]}`, rec.Body.String())

	c, _ = newCtx(http.MethodGet, "/api/events/mine", "", nil)
	var he *echo.HTTPError
	require.ErrorAs(t, ListMyEventsHandler(nil)(c), &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestGetEventHandler(t *testing.T) {
	t.Cleanup(restore)
	getEventByID = func(_ context.Context, _ database.Querier, id int) (*model.Event, error) {
		if id == 7 {
			return &model.Event{EventID: 7, Description: "pizza"}, nil
		}
		if id == 8 {
			return nil, errors.New("db down")
		}
		return nil, store.ErrNotFound
	}

	tests := []struct {
		id   string
		code int
	}{
		{"7", http.StatusOK},
		{"9", http.StatusNotFound},
		{"8", http.StatusInternalServerError},
		{"abc", http.StatusBadRequest},
		{"0", http.StatusBadRequest},
	}
	for _, tc := range tests {
		c, rec := newCtx(http.MethodGet, "/api/events/"+tc.id, "", ann)
		require.NoError(t, GetEventHandler(nil)(withID(c, tc.id)))
		require.Equal(t, tc.code, rec.Code, tc.id)
	}
}

func createBody(extra string) string {
	return `{"description":"<b>Leftover</b> pizza","qty":3,"exp_time":"2026-03-01T18:00:00Z",
		"tags":[{"tag_id":1},{"tag_id":2}],"address":"1 Main St","floor":"2","room":"201"` + extra + `}`
}

func TestCreateEventHandler(t *testing.T) {
	t.Cleanup(restore)
	var got store.NewEvent
	createEvent = func(_ context.Context, _ database.DB, authorID int, in store.NewEvent) (*model.Event, error) {
		require.Equal(t, 1, authorID)
		got = in
		return &model.Event{EventID: 11, Description: in.Description, LocationID: func() *int { i := 4; return &i }()}, nil
	}

	counter := newCounter()
	c, rec := newCtx(http.MethodPost, "/api/events/create", createBody(`,"images":["`+pngPhoto+`"]`), ann)
	require.NoError(t, CreateEventHandler(nil, worker.Inline{}, maxPhoto, counter)(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Equal(t, "Leftover pizza", got.Description)
	require.Equal(t, 3, got.Qty)
	require.Equal(t, time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC), got.ExpTime)
	require.Equal(t, []int{1, 2}, got.TagIDs)
	require.Equal(t, []string{pngPhoto}, got.Photos)
	require.Equal(t, &model.Location{Address: "1 Main St", Floor: "2", Room: "201"}, got.Location)
	require.Equal(t, float64(1), testutil.ToFloat64(counter))

	var ev model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ev))
	require.NotNil(t, ev.LocationID)
}

func TestCreateEventHandlerKeepsPunctuation(t *testing.T) {
	t.Cleanup(restore)
	var got store.NewEvent
	createEvent = func(_ context.Context, _ database.DB, _ int, in store.NewEvent) (*model.Event, error) {
		got = in
		return &model.Event{EventID: 2}, nil
	}
	body := `{"description":"Pizza & soda at Bob's <3","qty":1,"exp_time":"2026-03-01T18:00:00Z",` +
		`"address":"A&B Hall","floor":"1","room":"R&D 1","loc_note":"\"north\" door"}`
	c, rec := newCtx(http.MethodPost, "/api/events/create", body, ann)
	require.NoError(t, CreateEventHandler(nil, worker.Inline{}, maxPhoto, newCounter())(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Equal(t, "Pizza & soda at Bob's <3", got.Description)
	require.Equal(t, "A&B Hall", got.Location.Address)
	require.Equal(t, "R&D 1", got.Location.Room)
	require.Equal(t, `"north" door`, *got.Location.LocNote)
}

func TestCreateEventHandlerWithoutLocation(t *testing.T) {
	t.Cleanup(restore)
	createEvent = func(_ context.Context, _ database.DB, _ int, in store.NewEvent) (*model.Event, error) {
		require.Nil(t, in.Location)
		require.Empty(t, in.TagIDs)
		return &model.Event{EventID: 1}, nil
	}
	body := `{"description":"books","qty":1,"exp_time":"2026-03-01T18:00:00Z","loc_note":"ignored"}`
	c, rec := newCtx(http.MethodPost, "/api/events/create", body, ann)
	require.NoError(t, CreateEventHandler(nil, worker.Inline{}, maxPhoto, newCounter())(c))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateEventHandlerRejections(t *testing.T) {
	t.Cleanup(restore)
	createEvent = func(context.Context, database.DB, int, store.NewEvent) (*model.Event, error) {
		t.Fatal("createEvent must not be called")
		return nil, nil
	}

	cases := map[string]struct {
		body string
		msg  string
	}{
		"zero qty":         {`{"description":"x","qty":0,"exp_time":"2026-03-01T18:00:00Z"}`, "qty must be at least 1"},
		"no description":   {`{"qty":1,"exp_time":"2026-03-01T18:00:00Z"}`, "description is required"},
		"only html":        {`{"description":"<br/>","qty":1,"exp_time":"2026-03-01T18:00:00Z"}`, "description is required"},
		"no exp_time":      {`{"description":"x","qty":1}`, "exp_time is required"},
		"address no floor": {`{"description":"x","qty":1,"exp_time":"2026-03-01T18:00:00Z","address":"a","room":"1"}`, "floor is required"},
		"bad tag id":       {`{"description":"x","qty":1,"exp_time":"2026-03-01T18:00:00Z","tags":[{"tag_id":0}]}`, "tag_id must be at least 1"},
		"bad photo":        {createBody(`,"images":["` + pngPhoto + `","bm90IGFuIGltYWdl"]`), "image 1: invalid photo"},
		"not json":         {`{"description":`, "invalid request body"},
	}
	for name, tc := range cases {
		c, rec := newCtx(http.MethodPost, "/api/events/create", tc.body, ann)
		require.NoError(t, CreateEventHandler(nil, worker.Inline{}, maxPhoto, newCounter())(c), name)
		require.Equal(t, http.StatusBadRequest, rec.Code, name)
		require.Contains(t, rec.Body.String(), tc.msg, name)
	}
}

func TestCreateEventHandlerStoreErrors(t *testing.T) {
	t.Cleanup(restore)
	tests := []struct {
		err  error
		code int
	}{
		{store.ErrNotPermitted, http.StatusUnauthorized},
		{store.ErrUnknownTag, http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		createEvent = func(context.Context, database.DB, int, store.NewEvent) (*model.Event, error) {
			return nil, tc.err
		}
		counter := newCounter()
		c, rec := newCtx(http.MethodPost, "/api/events/create", createBody(""), ann)
		require.NoError(t, CreateEventHandler(nil, worker.Inline{}, maxPhoto, counter)(c))
		require.Equal(t, tc.code, rec.Code, tc.err.Error())
		require.Zero(t, testutil.ToFloat64(counter))
	}

	// 權限以資料庫為準：token 說不能發文也照樣交給 store 判斷
	createEvent = func(context.Context, database.DB, int, store.NewEvent) (*model.Event, error) {
		return &model.Event{EventID: 2}, nil
	}
	c, rec := newCtx(http.MethodPost, "/api/events/create", createBody(""), &service.CustomClaims{UserID: 5})
	require.NoError(t, CreateEventHandler(nil, worker.Inline{}, maxPhoto, newCounter())(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	checkPhotos = func(context.Context, worker.Pool, []string, int) error { return context.Canceled }
	c, rec = newCtx(http.MethodPost, "/api/events/create", createBody(""), ann)
	require.NoError(t, CreateEventHandler(nil, worker.Inline{}, maxPhoto, newCounter())(c))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEditEventHandler(t *testing.T) {
	t.Cleanup(restore)
	var (
		gotID     int
		gotEditor store.Editor
		got       store.EventEdit
	)
	editEvent = func(_ context.Context, _ database.DB, id int, ed store.Editor, in store.EventEdit) (*model.Event, error) {
		gotID, gotEditor, got = id, ed, in
		return &model.Event{EventID: id, Description: in.Description}, nil
	}

	body := `{"exp_time":"2026-03-02T10:00:00+02:00","description":"Two left","qty":2,
		"location":{"Address":"1 Main St","floor":"3","room":"301","loc_note":"<i>moved</i>"},
		"photo":"` + pngPhoto + `","tag_ids":[2],"done":true}`
	c, rec := newCtx(http.MethodPut, "/api/events/5", body, &service.CustomClaims{UserID: 3, IsAdmin: true})
	require.NoError(t, EditEventHandler(nil, worker.Inline{}, maxPhoto)(withID(c, "5")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Equal(t, 5, gotID)
	require.Equal(t, store.Editor{UserID: 3, IsAdmin: true}, gotEditor)
	require.Equal(t, "Two left", got.Description)
	require.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), got.ExpTime)
	require.Equal(t, []int{2}, got.TagIDs)
	require.Equal(t, pngPhoto, got.Photo)
	require.True(t, *got.Done)
	require.Equal(t, "moved", *got.Location.LocNote)
	require.Equal(t, "301", got.Location.Room)

	// 沒有 location 與 tag_ids 的編輯
	body = `{"exp_time":"2026-03-02T10:00:00Z","description":"d","qty":1}`
	c, rec = newCtx(http.MethodPut, "/api/events/5", body, ann)
	require.NoError(t, EditEventHandler(nil, worker.Inline{}, maxPhoto)(withID(c, "5")))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, got.Location)
	require.Nil(t, got.TagIDs)
	require.Nil(t, got.Done)
	require.Empty(t, got.Photo)
}

func TestEditEventHandlerErrors(t *testing.T) {
	t.Cleanup(restore)
	valid := `{"exp_time":"2026-03-02T10:00:00Z","description":"d","qty":1}`

	tests := []struct {
		err  error
		code int
	}{
		{store.ErrNotFound, http.StatusNotFound},
		{store.ErrForbidden, http.StatusForbidden},
		{store.ErrUnknownTag, http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		editEvent = func(context.Context, database.DB, int, store.Editor, store.EventEdit) (*model.Event, error) {
			return nil, tc.err
		}
		c, rec := newCtx(http.MethodPut, "/api/events/5", valid, ann)
		require.NoError(t, EditEventHandler(nil, worker.Inline{}, maxPhoto)(withID(c, "5")))
		require.Equal(t, tc.code, rec.Code, tc.err.Error())
	}

	editEvent = func(context.Context, database.DB, int, store.Editor, store.EventEdit) (*model.Event, error) {
		t.Fatal("editEvent must not be called")
		return nil, nil
	}
	bad := map[string]string{
		"bad qty":         `{"exp_time":"2026-03-02T10:00:00Z","description":"d","qty":-1}`,
		"location fields": `{"exp_time":"2026-03-02T10:00:00Z","description":"d","qty":1,"location":{"Address":"a"}}`,
		"html address":    `{"exp_time":"2026-03-02T10:00:00Z","description":"d","qty":1,"location":{"Address":"<p></p>","floor":"1","room":"1"}}`,
		"bad tag id":      `{"exp_time":"2026-03-02T10:00:00Z","description":"d","qty":1,"tag_ids":[0]}`,
		"bad photo":       `{"exp_time":"2026-03-02T10:00:00Z","description":"d","qty":1,"photo":"!!"}`,
	}
	for name, body := range bad {
		c, rec := newCtx(http.MethodPut, "/api/events/5", body, ann)
		require.NoError(t, EditEventHandler(nil, worker.Inline{}, maxPhoto)(withID(c, "5")), name)
		require.Equal(t, http.StatusBadRequest, rec.Code, name)
	}

	c, rec := newCtx(http.MethodPut, "/api/events/x", valid, ann)
	require.NoError(t, EditEventHandler(nil, worker.Inline{}, maxPhoto)(withID(c, "x")))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	c, _ = newCtx(http.MethodPut, "/api/events/5", valid, nil)
	require.Error(t, EditEventHandler(nil, worker.Inline{}, maxPhoto)(withID(c, "5")))
}
