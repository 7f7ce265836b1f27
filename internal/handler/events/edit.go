package events

import (
	"net/http"

	"campus-events/internal/api"
	"campus-events/internal/database"
	"campus-events/internal/handler"
	"campus-events/internal/model"
	"campus-events/internal/store"
	"campus-events/internal/validation"
	"campus-events/internal/worker"

	"github.com/labstack/echo/v4"
)

// EditEventHandler 編輯活動，只有建立者或管理員可以編輯
// @Summary     Edit an event
// @Description tag_ids 會取代整組標籤；location 會就地更新活動目前連結的地點；photo 會新增一張照片。
// @Tags        events
// @Accept      json
// @Produce     json
// @Param       event_id path     int                  true "活動 ID"
// @Param       body     body     api.EditEventRequest true "新的內容"
// @Success     200      {object} model.Event
// @Failure     400      {object} api.ErrorResponse
// @Failure     401      {object} api.ErrorResponse
// @Failure     403      {object} api.ErrorResponse
// @Failure     404      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /events/{event_id} [put]
func EditEventHandler(db database.DB, wp worker.Pool, maxPhotoBytes int) echo.HandlerFunc {
	return func(c echo.Context) error {
		cl, err := claims(c)
		if err != nil {
			return err
		}
		id, ok := eventID(c)
		if !ok {
			return handler.BadRequest(c, "invalid event id")
		}

		var req api.EditEventRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.BadRequest(c, validation.Message(err))
		}
		desc := validation.Text(req.Description)
		if desc == "" {
			return handler.BadRequest(c, "description is required")
		}

		var loc *model.Location
		if l := req.Location; l != nil {
			if loc = location(l.Address, l.Floor, l.Room, l.LocNote); loc == nil {
				return handler.BadRequest(c, "Address is required")
			}
		}

		ctx := c.Request().Context()
		if req.Photo != "" {
			if err := checkPhotos(ctx, wp, []string{req.Photo}, maxPhotoBytes); err != nil {
				return photoError(c, err)
			}
		}

		ev, err := editEvent(ctx, db, id, store.Editor{UserID: cl.UserID, IsAdmin: cl.IsAdmin}, store.EventEdit{
			Description: desc,
			Qty:         req.Qty,
			ExpTime:     req.ExpTime.UTC(),
			TagIDs:      req.TagIDs,
			Location:    loc,
			Photo:       req.Photo,
			Done:        req.Done,
		})
		if err != nil {
			return storeError(c, err, "edit event")
		}
		return c.JSON(http.StatusOK, ev)
	}
}
