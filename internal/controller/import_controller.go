package controller

import (
	"errors"
	"exam_tracker_backend/internal/service"
	"exam_tracker_backend/internal/util"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ImportController 处理导入、导出与备份
type ImportController struct {
	ImportService *service.ImportService
	ExportService *service.ExportService
	BackupService *service.BackupService
}

func NewImportController(importService *service.ImportService, exportService *service.ExportService, backupService *service.BackupService) *ImportController {
	return &ImportController{
		ImportService: importService,
		ExportService: exportService,
		BackupService: backupService,
	}
}

// readImportBody 支持 multipart 的 file 字段或直接提交 JSON 请求体
func readImportBody(ctx *gin.Context) ([]byte, error) {
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return nil, &service.ValidationError{Field: "file", Message: "缺少导入文件"}
		}
		return util.ReadImportFile(fh)
	}

	data, err := io.ReadAll(io.LimitReader(ctx.Request.Body, util.MaxImportSize+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, util.ErrImportFileTooLarge
		}
		return nil, err
	}
	if len(data) > util.MaxImportSize {
		return nil, util.ErrImportFileTooLarge
	}
	return data, nil
}

// @Summary 导入预览
// @Description 解析导入文件并与当前数据合并，返回去重统计，确认前不写入
// @Tags 导入导出
// @Accept json,mpfd
// @Produce json
// @Param file formData file false "导出的 JSON 文件"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /import [post]
func (c *ImportController) Preview(ctx *gin.Context) {
	data, err := readImportBody(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}
	bundle, err := c.ImportService.Preview(ctx.Request.Context(), data)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, bundle)
}

// @Summary 确认导入
// @Tags 导入导出
// @Produce json
// @Param id path string true "导入ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /import/{id}/confirm [post]
func (c *ImportController) Confirm(ctx *gin.Context) {
	result, err := c.ImportService.Confirm(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 查看待确认的导入
// @Tags 导入导出
// @Produce json
// @Param id path string true "导入ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /import/{id} [get]
func (c *ImportController) Pending(ctx *gin.Context) {
	bundle, err := c.ImportService.Pending(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, bundle)
}

// @Summary 取消导入
// @Tags 导入导出
// @Produce json
// @Param id path string true "导入ID"
// @Success 200 {object} util.Response
// @Router /import/{id} [delete]
func (c *ImportController) Cancel(ctx *gin.Context) {
	if err := c.ImportService.Cancel(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 导出全部数据
// @Description 以附件形式下载 行测记录_yyyy-MM-dd.json
// @Tags 导入导出
// @Produce json
// @Success 200 {file} file
// @Router /export [get]
func (c *ImportController) Export(ctx *gin.Context) {
	filename, data, err := c.ExportService.Export(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Attachment(ctx, filename, data)
}

// @Summary 创建备份
// @Description 将导出文件上传到配置的存储
// @Tags 备份
// @Produce json
// @Success 201 {object} util.Response
// @Router /backups [post]
func (c *ImportController) Backup(ctx *gin.Context) {
	info, err := c.BackupService.Backup(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, info)
}

// @Summary 备份列表
// @Tags 备份
// @Produce json
// @Success 200 {object} util.Response
// @Router /backups [get]
func (c *ImportController) ListBackups(ctx *gin.Context) {
	names, err := c.BackupService.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	util.Success(ctx, names)
}

type restoreRequest struct {
	Name string `json:"name" binding:"required"`
}

// @Summary 从备份恢复
// @Description 与导入相同，返回预览结果，需再调用确认接口
// @Tags 备份
// @Accept json
// @Produce json
// @Param request body restoreRequest true "备份名称"
// @Success 200 {object} util.Response
// @Router /backups/restore [post]
func (c *ImportController) Restore(ctx *gin.Context) {
	var req restoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	bundle, err := c.BackupService.Restore(ctx.Request.Context(), req.Name)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, bundle)
}
