package events

import (
	"net/http"

	"campus-events/internal/api"
	"campus-events/internal/database"
	"campus-events/internal/handler"
	"campus-events/internal/store"
	"campus-events/internal/validation"
	"campus-events/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// CreateEventHandler 建立活動
// @Summary     Create an event
// @Description 發文權限以資料庫中目前的 can_post_events 為準，不看 token 內的快照。
// @Description 相同 address/floor/room/loc_note 的地點會被重用。
// @Tags        events
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateEventRequest true "活動內容"
// @Success     201  {object} model.Event
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /events/create [post]
func CreateEventHandler(db database.DB, wp worker.Pool, maxPhotoBytes int, created prometheus.Counter) echo.HandlerFunc {
	return func(c echo.Context) error {
		cl, err := claims(c)
		if err != nil {
			return err
		}

		var req api.CreateEventRequest
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

		ctx := c.Request().Context()
		if err := checkPhotos(ctx, wp, req.Images, maxPhotoBytes); err != nil {
			return photoError(c, err)
		}

		ev, err := createEvent(ctx, db, cl.UserID, store.NewEvent{
			Description: desc,
			Qty:         req.Qty,
			ExpTime:     req.ExpTime.UTC(),
			TagIDs:      req.TagIDs(),
			Photos:      req.Images,
			Location:    location(req.Address, req.Floor, req.Room, req.LocNote),
		})
		if err != nil {
			return storeError(c, err, "create event")
		}

		created.Inc()
		log.Ctx(ctx).Info().Int("event_id", ev.EventID).Int("user_id", cl.UserID).Msg("event created")
		return c.JSON(http.StatusCreated, ev)
	}
}
