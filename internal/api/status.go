package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool          `json:"initialized"` // 设备目录是否已有数据
	EquipmentCount int           `json:"equipmentCount"`
	SchemaVersion  int           `json:"schemaVersion"`
	FuzzyThreshold float64       `json:"fuzzyThreshold"`
	GroupOrder     string        `json:"groupOrder"`
	LastRun        *store.RunLog `json:"lastRun,omitempty"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	count, err := h.store.CountEquipment()
	if err != nil {
		count = 0
	}

	lastRun, err := h.store.GetLastRunLog()
	if err != nil {
		lastRun = nil
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized:    count > 0,
		EquipmentCount: count,
		SchemaVersion:  h.cfg.Schema.Version,
		FuzzyThreshold: h.cfg.Schema.FuzzyThreshold,
		GroupOrder:     h.cfg.Output.GroupOrder,
		LastRun:        lastRun,
	})
}
