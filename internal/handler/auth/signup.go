package auth

import (
	"errors"
	"net/http"
	"strings"

	"campus-events/internal/api"
	"campus-events/internal/database"
	"campus-events/internal/handler"
	"campus-events/internal/model"
	"campus-events/internal/service"
	"campus-events/internal/store"
	"campus-events/internal/validation"

	"github.com/labstack/echo/v4"
)

// SignupHandler 建立帳號並直接回傳存取令牌
// @Summary     註冊使用者
// @Description 建立新帳號 (Email 會自動轉小寫)，新帳號預設不能發佈活動
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.SignupRequest true "註冊資料"
// @Success     200  {object} api.AuthResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     429  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/signup [post]
func SignupHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SignupRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if err := c.Validate(&req); err != nil {
			return handler.BadRequest(c, validation.Message(err))
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return handler.ServerError(c, err, "hash password")
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
		})
		if errors.Is(err, store.ErrDuplicateEmail) {
			return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "email already registered"})
		}
		if err != nil {
			return handler.ServerError(c, err, "create user")
		}

		token, err := issueAccessToken(*user, service.TokenTTL)
		if err != nil {
			return handler.ServerError(c, err, "issue token")
		}
		return c.JSON(http.StatusOK, api.AuthResponse{Success: true, Token: token})
	}
}
