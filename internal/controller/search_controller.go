package controller

import (
	"codestep_backend/internal/model"
	"codestep_backend/internal/service"
	"codestep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SearchController struct {
	SearchService *service.SearchService
}

func NewSearchController(searchService *service.SearchService) *SearchController {
	return &SearchController{SearchService: searchService}
}

// Search godoc
// @Summary 搜索课程
// @Description 登录用户的搜索会记入搜索历史
// @Tags 搜索
// @Produce json
// @Param q query string true "关键词"
// @Param language query string false "语言"
// @Success 200 {object} util.Response{data=service.SearchResult}
// @Failure 400 {object} util.Response
// @Router /api/search [get]
func (c *SearchController) Search(ctx *gin.Context) {
	result, err := c.SearchService.Search(
		ctx.Request.Context(),
		optionalUserID(ctx),
		ctx.Query("q"),
		model.LanguageType(ctx.Query("language")),
	)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetSuggestions godoc
// @Summary 搜索建议
// @Description 从课程标题、标签、搜索历史和常用术语中模糊匹配
// @Tags 搜索
// @Produce json
// @Param q query string true "关键词"
// @Param limit query int false "数量" default(5)
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/search/suggestions [get]
func (c *SearchController) GetSuggestions(ctx *gin.Context) {
	suggestions, err := c.SearchService.Suggestions(
		optionalUserID(ctx),
		ctx.Query("q"),
		util.QueryInt(ctx.Query("limit"), util.DefaultSuggestions),
	)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, suggestions)
}

// GetHotSearches godoc
// @Summary 热门搜索
// @Tags 搜索
// @Produce json
// @Param limit query int false "数量" default(10)
// @Success 200 {object} util.Response{data=[]model.HotSearch}
// @Router /api/search/hot [get]
func (c *SearchController) GetHotSearches(ctx *gin.Context) {
	items, err := c.SearchService.HotSearches(ctx.Request.Context(), util.QueryInt(ctx.Query("limit"), util.DefaultHotSearches))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// GetTrending godoc
// @Summary 上升趋势的热搜
// @Tags 搜索
// @Produce json
// @Success 200 {object} util.Response{data=[]model.HotSearch}
// @Router /api/search/trending [get]
func (c *SearchController) GetTrending(ctx *gin.Context) {
	items, err := c.SearchService.Trending(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// ListHistory godoc
// @Summary 搜索历史
// @Tags 搜索
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.SearchHistory}
// @Router /api/search/history [get]
func (c *SearchController) ListHistory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	list, err := c.SearchService.History(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// RemoveHistory godoc
// @Summary 删除一条搜索历史
// @Tags 搜索
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "记录ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/search/history/{id} [delete]
func (c *SearchController) RemoveHistory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	removed, err := c.SearchService.RemoveHistory(userID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"removed": removed})
}

// ClearHistory godoc
// @Summary 清空搜索历史
// @Tags 搜索
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/search/history [delete]
func (c *SearchController) ClearHistory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := c.SearchService.ClearHistory(userID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
