package controller

import (
	"errors"
	"runpal_backend/internal/service"
	"runpal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReferralController struct {
	ReferralService *service.ReferralService
}

func NewReferralController(referralService *service.ReferralService) *ReferralController {
	return &ReferralController{ReferralService: referralService}
}

type redeemRequest struct {
	Code string `json:"code" binding:"required"`
}

// @Summary 兑换推荐码
// @Description 为当前用户建立推荐关系，双方各得注册奖励
// @Tags 推荐
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param redeem body redeemRequest true "推荐码"
// @Success 201 {object} util.Response
// @Router /referrals/redeem [post]
func (c *ReferralController) Redeem(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req redeemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	referral, err := c.ReferralService.Redeem(claims.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidReferralCode),
			errors.Is(err, util.ErrSelfReferral),
			errors.Is(err, util.ErrAlreadyReferred):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, referral)
}

// @Summary 推荐状态
// @Description 返回我的推荐人关系与我推荐的全部用户
// @Tags 推荐
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /referrals [get]
func (c *ReferralController) GetStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	referredBy, referred, err := c.ReferralService.Status(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"referredBy": referredBy,
		"referred":   referred,
	})
}
