package locations

import (
	"net/http"

	"campus-events/internal/database"
	"campus-events/internal/handler"
	"campus-events/internal/store"

	"github.com/labstack/echo/v4"
)

var listLocations = store.ListLocations

// GetAllHandler 回傳所有已知地點，供前端自動完成使用
// @Summary     List locations
// @Tags        locations
// @Produce     json
// @Success     200 {array}  model.Location
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /locations/getAll [get]
func GetAllHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		locs, err := listLocations(c.Request().Context(), db)
		if err != nil {
			return handler.ServerError(c, err, "list locations")
		}
		return c.JSON(http.StatusOK, locs)
	}
}
