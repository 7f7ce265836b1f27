package events

import (
	"net/http"

	"campus-events/internal/database"
	"campus-events/internal/handler"

	"github.com/labstack/echo/v4"
)

// GetEventHandler 取得單一活動
// @Summary     Get an event
// @Tags        events
// @Produce     json
// @Param       event_id path     int true "活動 ID"
// @Success     200      {object} model.Event
// @Failure     400      {object} api.ErrorResponse
// @Failure     401      {object} api.ErrorResponse
// @Failure     404      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /events/{event_id} [get]
func GetEventHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := eventID(c)
		if !ok {
			return handler.BadRequest(c, "invalid event id")
		}
		ev, err := getEventByID(c.Request().Context(), db, id)
		if err != nil {
			return storeError(c, err, "get event")
		}
		return c.JSON(http.StatusOK, ev)
	}
}
