package controller

import (
	"errors"
	"net/http"
	"runpal_backend/internal/service"
	"runpal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StravaController struct {
	StravaService *service.StravaService
}

func NewStravaController(stravaService *service.StravaService) *StravaController {
	return &StravaController{StravaService: stravaService}
}

// @Summary 发起 Strava 授权
// @Description 返回 Strava OAuth 授权跳转地址
// @Tags Strava
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /strava/connect [get]
func (c *StravaController) Connect(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	authURL, err := c.StravaService.AuthorizeURL(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": authURL})
}

// @Summary Strava 授权回调
// @Description Strava 重定向回来的落地接口，完成令牌绑定
// @Tags Strava
// @Produce json
// @Param state query string true "防 CSRF 状态码"
// @Param code query string true "授权码"
// @Success 200 {object} util.Response
// @Router /strava/callback [get]
func (c *StravaController) Callback(ctx *gin.Context) {
	state := ctx.Query("state")
	code := ctx.Query("code")
	if state == "" || code == "" {
		util.BadRequest(ctx, "missing state or code")
		return
	}

	user, err := c.StravaService.HandleCallback(ctx.Request.Context(), state, code)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, util.Response{Code: http.StatusBadRequest, Message: "授权失败"})
		return
	}

	util.Success(ctx, gin.H{"stravaAthleteId": user.StravaAthleteID})
}

// @Summary 同步 Strava 活动
// @Description 拉取上次同步之后的跑步并结算全部奖励
// @Tags Strava
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /strava/sync [post]
func (c *StravaController) Sync(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.StravaService.Sync(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrStravaNotConnected) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"synced":  len(results),
		"results": results,
	})
}
