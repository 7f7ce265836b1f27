package auth

import (
	"errors"
	"net/http"
	"strings"

	"campus-events/internal/api"
	"campus-events/internal/database"
	"campus-events/internal/handler"
	"campus-events/internal/service"
	"campus-events/internal/store"
	"campus-events/internal/validation"

	"github.com/labstack/echo/v4"
)

// LoginHandler 使用 Email/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 帳號不存在與密碼錯誤都回傳相同的 401
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.AuthResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     429  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if err := c.Validate(&req); err != nil {
			return handler.BadRequest(c, validation.Message(err))
		}

		ctx := c.Request().Context()
		user, err := getUserByEmail(ctx, db, req.Email)
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}
		if err != nil {
			return handler.ServerError(c, err, "load user")
		}

		if err := authenticateUser(ctx, *user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}

		token, err := issueAccessToken(*user, service.TokenTTL)
		if err != nil {
			return handler.ServerError(c, err, "issue token")
		}
		return c.JSON(http.StatusOK, api.AuthResponse{Success: true, Token: token})
	}
}
