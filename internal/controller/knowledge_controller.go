package controller

import (
	"exam_tracker_backend/internal/service"
	"exam_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type KnowledgeController struct {
	KnowledgeService *service.KnowledgeService
}

func NewKnowledgeController(knowledgeService *service.KnowledgeService) *KnowledgeController {
	return &KnowledgeController{KnowledgeService: knowledgeService}
}

// @Summary 知识点列表
// @Tags 知识点
// @Produce json
// @Param module query string false "科目"
// @Success 200 {object} util.Response
// @Router /knowledge [get]
func (c *KnowledgeController) List(ctx *gin.Context) {
	items, err := c.KnowledgeService.List(ctx.Request.Context(), ctx.Query("module"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// @Summary 新增知识点
// @Description 除 id 与 module 外的字段原样保存
// @Tags 知识点
// @Accept json
// @Produce json
// @Param item body object true "知识点"
// @Success 201 {object} util.Response
// @Router /knowledge [post]
func (c *KnowledgeController) Create(ctx *gin.Context) {
	var raw map[string]any
	if err := ctx.ShouldBindJSON(&raw); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	item, err := c.KnowledgeService.Create(ctx.Request.Context(), raw)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, item)
}

// @Summary 删除知识点
// @Tags 知识点
// @Produce json
// @Param id path string true "知识点ID"
// @Success 200 {object} util.Response
// @Router /knowledge/{id} [delete]
func (c *KnowledgeController) Delete(ctx *gin.Context) {
	if err := c.KnowledgeService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
