package events

import (
	"net/http"

	"campus-events/internal/api"
	"campus-events/internal/database"
	"campus-events/internal/handler"
	"campus-events/internal/store"

	"github.com/labstack/echo/v4"
)

// ListEventsHandler 列出尚未過期且未完成的活動
// @Summary     List active events
// @Description 回傳 exp_time 晚於現在且 done = false 的活動，可依標籤名稱篩選並依到期時間排序
// @Tags        events
// @Produce     json
// @Param       tag  query    string false "標籤名稱"
// @Param       sort query    string false "到期時間排序" Enums(asc, desc)
// @Success     200  {object} api.EventsResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /events/ [get]
func ListEventsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		f := store.EventFilter{Tag: c.QueryParam("tag"), Sort: c.QueryParam("sort")}
		if f.Sort != "" && f.Sort != store.SortAsc && f.Sort != store.SortDesc {
			return handler.BadRequest(c, "sort must be one of: asc desc")
		}

		events, err := listActiveEvents(c.Request().Context(), db, timeNow().UTC(), f)
		if err != nil {
			return handler.ServerError(c, err, "list events")
		}
		return c.JSON(http.StatusOK, api.EventsResponse{Events: events})
	}
}

// ListMyEventsHandler 列出目前使用者建立的所有活動 (含已完成與已過期)
// @Summary     List my events
// @Tags        events
// @Produce     json
// @Success     200 {object} api.EventsResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /events/mine [get]
func ListMyEventsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		cl, err := claims(c)
		if err != nil {
			return err
		}
		events, err := listEventsForUser(c.Request().Context(), db, cl.UserID)
		if err != nil {
			return handler.ServerError(c, err, "list my events")
		}
		return c.JSON(http.StatusOK, api.EventsResponse{Events: events})
	}
}
