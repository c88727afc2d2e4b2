package controller

import (
	"runpal_backend/internal/model"
	"runpal_backend/internal/service"
	"runpal_backend/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type RunController struct {
	RunService  *service.RunService
	AuthService *service.AuthService
}

func NewRunController(runService *service.RunService, authService *service.AuthService) *RunController {
	return &RunController{RunService: runService, AuthService: authService}
}

type manualRunRequest struct {
	DistanceMeters float64   `json:"distanceMeters" binding:"required,gt=0"`
	OccurredAt     time.Time `json:"occurredAt" binding:"required"`
	Timezone       string    `json:"timezone"`
	StartLat       float64   `json:"startLat"`
	StartLng       float64   `json:"startLng"`
}

// @Summary 手动录入跑步
// @Description 录入一次跑步并立即结算奖励（掉落、特殊奖励、进阶、推荐分成）
// @Tags 跑步
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param run body manualRunRequest true "跑步信息"
// @Success 201 {object} util.Response
// @Router /runs [post]
func (c *RunController) CreateRun(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req manualRunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.GetUser(claims.UserID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	run := &model.RunEvent{
		UserID:         user.ID,
		DistanceMeters: req.DistanceMeters,
		OccurredAt:     req.OccurredAt,
		Timezone:       req.Timezone,
		StartLat:       req.StartLat,
		StartLng:       req.StartLng,
		Manual:         true,
	}

	// 手动录入也走批量管线，保证推荐分成被结算
	results, err := c.RunService.ProcessBatch(ctx.Request.Context(), user, []*model.RunEvent{run})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if len(results) == 0 {
		util.BadRequest(ctx, "run already recorded")
		return
	}

	util.Created(ctx, results[0])
}

// @Summary 跑步历史
// @Tags 跑步
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /runs [get]
func (c *RunController) ListRuns(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	runs, total, err := c.RunService.ListRuns(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: runs, Total: total, Page: page, Limit: limit})
}

// pagination 解析分页参数，页码从 1 起，每页上限 100
func pagination(ctx *gin.Context) (int, int) {
	page := 1
	limit := 20
	if p, err := strconv.Atoi(ctx.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(ctx.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}
