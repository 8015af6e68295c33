package controller

import (
	"codestep_backend/internal/service"
	"codestep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MigrationController struct {
	MigrationService *service.MigrationService
}

func NewMigrationController(migrationService *service.MigrationService) *MigrationController {
	return &MigrationController{MigrationService: migrationService}
}

// ImportRequest 浏览器本地存储导出的键值对，值为原始 JSON 字符串
type ImportRequest struct {
	Data map[string]string `json:"data" binding:"required"`
}

// ImportLegacy godoc
// @Summary 导入本地旧数据
// @Description 学习进度、收藏、搜索历史和错题每个用户只导入一次，损坏的数据按空处理
// @Tags 迁移
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ImportRequest true "本地存储数据"
// @Success 200 {object} util.Response{data=service.ImportReport}
// @Failure 400 {object} util.Response
// @Router /api/migration/import [post]
func (c *MigrationController) ImportLegacy(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req ImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	report, err := c.MigrationService.ImportLegacy(userID, req.Data)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// GetStatus godoc
// @Summary 已完成的迁移项
// @Tags 迁移
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/migration/status [get]
func (c *MigrationController) GetStatus(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	flags, err := c.MigrationService.MigratedFlags(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if flags == nil {
		flags = []string{}
	}
	util.Success(ctx, gin.H{"migrated": flags})
}
