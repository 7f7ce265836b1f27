package tags

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"campus-events/internal/api"
	"campus-events/internal/cache"
	"campus-events/internal/database"
	"campus-events/internal/handler"
	"campus-events/internal/model"
	"campus-events/internal/store"
	"campus-events/internal/validation"

	"github.com/labstack/echo/v4"
)

// CacheKey 存放完整標籤列表的 Redis key
const CacheKey = "tags:all"

var (
	listTags  = store.ListTags
	createTag = store.CreateTag
)

// ListTagsHandler 回傳所有標籤，結果快取於 Redis
// @Summary     List tags
// @Tags        tags
// @Produce     json
// @Success     200 {array}  model.Tag
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /tags [get]
func ListTagsHandler(db database.DB, cch cache.Cache, ttl time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		tags, err := cache.Remember(c.Request().Context(), cch, CacheKey, ttl, func(ctx context.Context) ([]model.Tag, error) {
			return listTags(ctx, db)
		})
		if err != nil {
			return handler.ServerError(c, err, "list tags")
		}
		return c.JSON(http.StatusOK, tags)
	}
}

// CreateTagHandler 新增標籤 (限管理員)
// @Summary     Create a tag
// @Tags        tags
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateTagRequest true "標籤名稱"
// @Success     201  {object} model.Tag
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /tags [post]
func CreateTagHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateTagRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		req.Name = strings.TrimSpace(req.Name)
		if err := c.Validate(&req); err != nil {
			return handler.BadRequest(c, validation.Message(err))
		}

		ctx := c.Request().Context()
		tag, err := createTag(ctx, db, req.Name)
		if errors.Is(err, store.ErrDuplicateTag) {
			return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "tag already exists"})
		}
		if err != nil {
			return handler.ServerError(c, err, "create tag")
		}
		cache.Invalidate(ctx, cch, CacheKey)
		return c.JSON(http.StatusCreated, tag)
	}
}
