package controller

import (
	"codestep_backend/internal/model"
	"codestep_backend/internal/service"
	"codestep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FavoriteController struct {
	FavoriteService *service.FavoriteService
}

func NewFavoriteController(favoriteService *service.FavoriteService) *FavoriteController {
	return &FavoriteController{FavoriteService: favoriteService}
}

// ListFavorites godoc
// @Summary 收藏列表
// @Description 按添加时间倒序，可按类型、语言或标题关键词筛选
// @Tags 收藏
// @Produce json
// @Security ApiKeyAuth
// @Param type query string false "类型" Enums(course, article, step)
// @Param language query string false "语言"
// @Param q query string false "标题关键词"
// @Success 200 {object} util.Response{data=[]model.FavoriteItem}
// @Router /api/favorites [get]
func (c *FavoriteController) ListFavorites(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var (
		items []model.FavoriteItem
		err   error
	)
	switch {
	case ctx.Query("q") != "":
		items, err = c.FavoriteService.Search(userID, ctx.Query("q"))
	case ctx.Query("type") != "":
		items, err = c.FavoriteService.ListByType(userID, model.FavoriteType(ctx.Query("type")))
	case ctx.Query("language") != "":
		items, err = c.FavoriteService.ListByLanguage(userID, model.LanguageType(ctx.Query("language")))
	default:
		items, err = c.FavoriteService.List(userID)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// AddFavorite godoc
// @Summary 添加收藏
// @Description 已收藏时覆盖内容
// @Tags 收藏
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.FavoriteInput true "收藏项"
// @Success 201 {object} util.Response{data=model.FavoriteItem}
// @Failure 400 {object} util.Response
// @Router /api/favorites [post]
func (c *FavoriteController) AddFavorite(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var in service.FavoriteInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	item, err := c.FavoriteService.Add(userID, &in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, item)
}

// ToggleFavorite godoc
// @Summary 切换收藏状态
// @Tags 收藏
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.FavoriteInput true "收藏项"
// @Success 200 {object} util.Response{data=object}
// @Router /api/favorites/toggle [post]
func (c *FavoriteController) ToggleFavorite(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var in service.FavoriteInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	favorited, err := c.FavoriteService.Toggle(userID, &in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"favorited": favorited})
}

// CheckFavorite godoc
// @Summary 是否已收藏
// @Tags 收藏
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "收藏项ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/favorites/{id} [get]
func (c *FavoriteController) CheckFavorite(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	favorited, err := c.FavoriteService.IsFavorited(userID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id"), "favorited": favorited})
}

// RemoveFavorite godoc
// @Summary 取消收藏
// @Description 收藏项不存在时同样返回成功
// @Tags 收藏
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "收藏项ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/favorites/{id} [delete]
func (c *FavoriteController) RemoveFavorite(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	removed, err := c.FavoriteService.Remove(userID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"removed": removed})
}

// TouchFavorite godoc
// @Summary 更新最近访问时间
// @Tags 收藏
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "收藏项ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/favorites/{id}/access [post]
func (c *FavoriteController) TouchFavorite(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	updated, err := c.FavoriteService.TouchLastAccessed(userID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"updated": updated})
}

// ClearFavorites godoc
// @Summary 清空收藏
// @Description 指定 type 时只清空该类型
// @Tags 收藏
// @Produce json
// @Security ApiKeyAuth
// @Param type query string false "类型" Enums(course, article, step)
// @Success 200 {object} util.Response
// @Router /api/favorites [delete]
func (c *FavoriteController) ClearFavorites(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var err error
	if t := ctx.Query("type"); t != "" {
		err = c.FavoriteService.ClearByType(userID, model.FavoriteType(t))
	} else {
		err = c.FavoriteService.ClearAll(userID)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetStats godoc
// @Summary 收藏统计
// @Tags 收藏
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.FavoriteStats}
// @Router /api/favorites/stats [get]
func (c *FavoriteController) GetStats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	stats, err := c.FavoriteService.Stats(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
