package handler

import (
	"net/http"

	"campus-events/internal/api"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ServerError 記錄內部錯誤並回傳不含細節的 500
func ServerError(c echo.Context, err error, msg string) error {
	log.Ctx(c.Request().Context()).Error().
		Err(err).
		Str("path", c.Path()).
		Msg(msg)
	return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "server error"})
}

// BadRequest 回傳 400 與訊息
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msg})
}
