package controller

import (
	"errors"
	"runpal_backend/internal/service"
	"runpal_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type CheckinController struct {
	CheckinService *service.CheckInService
}

func NewCheckinController(checkinService *service.CheckInService) *CheckinController {
	return &CheckinController{CheckinService: checkinService}
}

// @Summary 签到状态
// @Description 返回今天是否可签到与当前连续签到天数
// @Tags 签到
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /checkin [get]
func (c *CheckinController) GetStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	now := time.Now()
	canCheckIn, err := c.CheckinService.CanCheckIn(claims.UserID, now)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	streak, err := c.CheckinService.Streak(claims.UserID, now)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"canCheckIn": canCheckIn,
		"streak":     streak,
	})
}

// @Summary 执行签到
// @Description 今天（用户本地日历日）签到一次；连续第 3n 天有奖励抽取
// @Tags 签到
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response
// @Router /checkin [post]
func (c *CheckinController) PerformCheckIn(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	checkin, err := c.CheckinService.PerformCheckIn(claims.UserID, time.Now())
	if err != nil {
		if errors.Is(err, util.ErrAlreadyCheckedIn) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, checkin)
}
