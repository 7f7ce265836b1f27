// Package events 提供活動的列表、查詢、建立與編輯端點，全部需要登入。
package events

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"campus-events/internal/api"
	"campus-events/internal/handler"
	"campus-events/internal/middleware"
	"campus-events/internal/model"
	"campus-events/internal/service"
	"campus-events/internal/store"
	"campus-events/internal/validation"

	"github.com/labstack/echo/v4"
)

var (
	listActiveEvents  = store.ListActiveEvents
	listEventsForUser = store.ListEventsForUser
	getEventByID      = store.GetEventByID
	createEvent       = store.CreateEvent
	editEvent         = store.EditEvent
	checkPhotos       = service.CheckPhotos
	timeNow           = time.Now
)

func eventID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("event_id"))
	return id, err == nil && id > 0
}

func claims(c echo.Context) (*service.CustomClaims, error) {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	return cl, nil
}

// location 清理地點欄位；address 為空代表沒有地點
func location(address, floor, room string, note *string) *model.Location {
	address = validation.Text(address)
	if address == "" {
		return nil
	}
	l := &model.Location{
		Address: address,
		Floor:   validation.Text(floor),
		Room:    validation.Text(room),
	}
	if note != nil {
		if n := validation.Text(*note); n != "" {
			l.LocNote = &n
		}
	}
	return l
}

// storeError 把 store 的 sentinel 對應成 HTTP 狀態碼
func storeError(c echo.Context, err error, msg string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "event not found"})
	case errors.Is(err, store.ErrForbidden):
		return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "only the creator or an admin may edit this event"})
	case errors.Is(err, store.ErrNotPermitted):
		return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "you are not allowed to post events"})
	case errors.Is(err, store.ErrUnknownTag):
		return handler.BadRequest(c, "unknown tag")
	}
	return handler.ServerError(c, err, msg)
}

func photoError(c echo.Context, err error) error {
	if errors.Is(err, service.ErrInvalidPhoto) {
		return handler.BadRequest(c, err.Error())
	}
	return handler.ServerError(c, err, "check photos")
}
