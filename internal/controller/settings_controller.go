package controller

import (
	"exam_tracker_backend/internal/service"
	"exam_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	SettingsService *service.SettingsService
}

func NewSettingsController(settingsService *service.SettingsService) *SettingsController {
	return &SettingsController{SettingsService: settingsService}
}

// @Summary 获取设置
// @Tags 设置
// @Produce json
// @Success 200 {object} util.Response
// @Router /settings [get]
func (c *SettingsController) Get(ctx *gin.Context) {
	settings, err := c.SettingsService.Get(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// @Summary 更新设置
// @Description 仅接受 navMode、eyeCare、notification、pageSize、theme，其余键被忽略并在 ignored 中返回
// @Tags 设置
// @Accept json
// @Produce json
// @Param settings body map[string]string true "设置键值"
// @Success 200 {object} util.Response
// @Router /settings [put]
func (c *SettingsController) Update(ctx *gin.Context) {
	var values map[string]string
	if err := ctx.ShouldBindJSON(&values); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.SettingsService.Update(ctx.Request.Context(), values)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
