package controller

import (
	"codestep_backend/internal/navigation"
	"codestep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NavigationController struct {
	Sessions *navigation.Sessions
}

func NewNavigationController(sessions *navigation.Sessions) *NavigationController {
	return &NavigationController{Sessions: sessions}
}

// NavigationRequest 前端当前所在的路由
type NavigationRequest struct {
	Current string `json:"current" binding:"required"`
}

// NavigationResponse 需要前端依次执行的路由指令和操作后的状态
type NavigationResponse struct {
	Directives []navigation.Directive `json:"directives"`
	State      navigation.State       `json:"state"`
}

// run 在用户的导航状态上执行一次操作并返回产生的路由指令
func (c *NavigationController) run(ctx *gin.Context, op func(m *navigation.Manager, r navigation.Router)) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req NavigationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	manager := c.Sessions.Get(userID)
	router := navigation.NewDirectiveRouter(req.Current)
	op(manager, router)

	directives := router.Directives()
	if directives == nil {
		directives = []navigation.Directive{}
	}
	util.Success(ctx, NavigationResponse{Directives: directives, State: manager.State()})
}

// GetState godoc
// @Summary 导航状态
// @Tags 导航
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=navigation.State}
// @Router /api/navigation [get]
func (c *NavigationController) GetState(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	util.Success(ctx, c.Sessions.Get(userID).State())
}

type CatalogRouteRequest struct {
	Route string `json:"route" binding:"required"`
}

// SetCatalogRoute godoc
// @Summary 设置目录页路由
// @Tags 导航
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CatalogRouteRequest true "目录页路由"
// @Success 200 {object} util.Response{data=navigation.State}
// @Router /api/navigation/catalog [put]
func (c *NavigationController) SetCatalogRoute(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req CatalogRouteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	manager := c.Sessions.Get(userID)
	manager.SetCatalogRoute(req.Route)
	util.Success(ctx, manager.State())
}

// EnterChapter godoc
// @Summary 记录章节学习路由
// @Tags 导航
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body NavigationRequest true "当前路由"
// @Success 200 {object} util.Response{data=NavigationResponse}
// @Router /api/navigation/enter [post]
func (c *NavigationController) EnterChapter(ctx *gin.Context) {
	c.run(ctx, func(m *navigation.Manager, r navigation.Router) {
		m.EnterChapterStudy(r)
	})
}

// Back godoc
// @Summary 智能返回
// @Description 章节内只记录了一个路由时直接回到目录，其余情况普通后退
// @Tags 导航
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body NavigationRequest true "当前路由"
// @Success 200 {object} util.Response{data=NavigationResponse}
// @Router /api/navigation/back [post]
func (c *NavigationController) Back(ctx *gin.Context) {
	c.run(ctx, func(m *navigation.Manager, r navigation.Router) {
		m.SmartGoBack(r)
	})
}

// BackToCatalog godoc
// @Summary 返回目录
// @Tags 导航
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body NavigationRequest true "当前路由"
// @Success 200 {object} util.Response{data=NavigationResponse}
// @Router /api/navigation/catalog [post]
func (c *NavigationController) BackToCatalog(ctx *gin.Context) {
	c.run(ctx, func(m *navigation.Manager, r navigation.Router) {
		m.BackToCatalogWithCleanup(r)
	})
}

// CompleteChapter godoc
// @Summary 完成章节学习
// @Description 清空章节路由，改写当前历史记录后回到目录
// @Tags 导航
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body NavigationRequest true "当前路由"
// @Success 200 {object} util.Response{data=NavigationResponse}
// @Router /api/navigation/complete [post]
func (c *NavigationController) CompleteChapter(ctx *gin.Context) {
	c.run(ctx, func(m *navigation.Manager, r navigation.Router) {
		m.CompleteChapterStudy(r)
	})
}

// ShouldCleanup godoc
// @Summary 后退时是否直接回到目录
// @Tags 导航
// @Produce json
// @Security ApiKeyAuth
// @Param current query string true "当前路由"
// @Success 200 {object} util.Response{data=object}
// @Router /api/navigation/should-cleanup [get]
func (c *NavigationController) ShouldCleanup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	current := ctx.Query("current")
	if current == "" {
		util.BadRequest(ctx, "current is required")
		return
	}
	manager := c.Sessions.Get(userID)
	util.Success(ctx, gin.H{
		"shouldCleanup": manager.ShouldCleanupOnBack(navigation.NewDirectiveRouter(current)),
		"intent":        c.Sessions.Routes().Intent(current).String(),
		"inChapter":     manager.IsChapterRoute(current),
		"chapterRoutes": manager.ChapterRoutesCount(),
	})
}

// Reset godoc
// @Summary 重置导航状态
// @Tags 导航
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/navigation [delete]
func (c *NavigationController) Reset(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	c.Sessions.Drop(userID)
	util.Success(ctx, nil)
}
