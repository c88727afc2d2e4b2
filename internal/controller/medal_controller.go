package controller

import (
	"errors"
	"runpal_backend/internal/service"
	"runpal_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MedalController struct {
	MedalService     *service.MedalService
	CharacterService *service.CharacterService
}

func NewMedalController(medalService *service.MedalService, characterService *service.CharacterService) *MedalController {
	return &MedalController{MedalService: medalService, CharacterService: characterService}
}

// @Summary 勋章余额
// @Tags 勋章
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /medals/balance [get]
func (c *MedalController) GetBalance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	balance, err := c.MedalService.Balance(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrNoActiveCharacter) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"balance": balance})
}

// @Summary 勋章流水
// @Tags 勋章
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /medals/transactions [get]
func (c *MedalController) GetTransactions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	txs, total, err := c.MedalService.Transactions(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: txs, Total: total, Page: page, Limit: limit})
}

type purchaseRequest struct {
	ItemID uint `json:"itemId" binding:"required"`
}

// @Summary 购买物品
// @Description 用勋章购买目录物品，余额不足返回 400
// @Tags 勋章
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param purchase body purchaseRequest true "购买信息"
// @Success 201 {object} util.Response
// @Router /medals/purchase [post]
func (c *MedalController) Purchase(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req purchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entry, err := c.MedalService.Purchase(claims.UserID, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrItemNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrItemNotPurchasable),
			errors.Is(err, util.ErrInsufficientBalance),
			errors.Is(err, util.ErrNoActiveCharacter):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, entry)
}

// @Summary 勋章排行榜
// @Tags 勋章
// @Produce json
// @Param limit query int false "返回数量" default(10)
// @Success 200 {object} util.Response
// @Router /leaderboard [get]
func (c *MedalController) GetLeaderboard(ctx *gin.Context) {
	limit := 10
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	leaderboard, err := c.CharacterService.Leaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, leaderboard)
}
