package controller

import (
	"errors"
	"runpal_backend/internal/service"
	"runpal_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService *service.CatalogService
	MedalService   *service.MedalService
}

func NewCatalogController(catalogService *service.CatalogService, medalService *service.MedalService) *CatalogController {
	return &CatalogController{CatalogService: catalogService, MedalService: medalService}
}

// @Summary 物品目录
// @Description 返回全部可掉落与可购买物品
// @Tags 目录
// @Produce json
// @Success 200 {object} util.Response
// @Router /catalog [get]
func (c *CatalogController) ListCatalog(ctx *gin.Context) {
	items, err := c.CatalogService.ListCatalog()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// @Summary 我的库存
// @Tags 目录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /inventory [get]
func (c *CatalogController) ListInventory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	entries, err := c.MedalService.ListInventory(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

type equipRequest struct {
	Equipped *bool `json:"equipped" binding:"required"`
}

// @Summary 穿戴或卸下物品
// @Tags 目录
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "库存条目 ID"
// @Param equip body equipRequest true "穿戴状态"
// @Success 200 {object} util.Response
// @Router /inventory/{id}/equip [put]
func (c *CatalogController) Equip(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	entryID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid inventory entry id")
		return
	}

	var req equipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entry, err := c.MedalService.Equip(claims.UserID, uint(entryID), *req.Equipped)
	if err != nil {
		if errors.Is(err, util.ErrItemNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entry)
}
