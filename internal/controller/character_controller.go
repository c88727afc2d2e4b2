package controller

import (
	"errors"
	"runpal_backend/internal/service"
	"runpal_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CharacterController struct {
	CharacterService *service.CharacterService
}

func NewCharacterController(characterService *service.CharacterService) *CharacterController {
	return &CharacterController{CharacterService: characterService}
}

// @Summary 我的伙伴
// @Description 返回当前用户的伙伴角色（阶段、跑步次数、勋章）
// @Tags 伙伴
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /character [get]
func (c *CharacterController) GetCharacter(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	character, err := c.CharacterService.GetByUserID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, character)
}
