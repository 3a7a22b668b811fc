package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/config"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/store"
)

// Handler API 处理器
type Handler struct {
	store     *store.Store
	cfg       *config.AppConfig
	dataDir   string
	downloads *downloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(store *store.Store, cfg *config.AppConfig, dataDir string) *Handler {
	return &Handler{
		store:     store,
		cfg:       cfg,
		dataDir:   dataDir,
		downloads: newDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 处理与下载
	router.POST("/process", h.Process)
	router.GET("/process/download/:token", h.DownloadOutput)

	// 设备目录管理
	router.GET("/equipment", h.ListEquipment)
	router.POST("/equipment", h.UpsertEquipment)
}
