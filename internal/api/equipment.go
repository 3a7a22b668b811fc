package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/store"
)

// UpsertEquipmentRequest 设备目录写入请求
type UpsertEquipmentRequest struct {
	Records []model.EquipmentRecord `json:"records"`
}

// UpsertEquipment 批量写入设备目录
// POST /api/equipment
func (h *Handler) UpsertEquipment(c *gin.Context) {
	var req UpsertEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据"})
		return
	}
	if len(req.Records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "records 不能为空"})
		return
	}

	for _, r := range req.Records {
		if r.EquipmentID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "equipmentId 不能为空"})
			return
		}
		if r.MachineCount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "machineCount 不能为负数"})
			return
		}
	}

	if err := h.store.UpsertEquipment(req.Records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(req.Records)})
}

// ListEquipment 查询设备目录
// GET /api/equipment?type=&limit=&offset=
func (h *Handler) ListEquipment(c *gin.Context) {
	opts := store.EquipmentQueryOptions{}

	if v := c.Query("type"); v != "" {
		opts.EquipmentType = &v
	}
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			opts.Limit = limit
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset > 0 {
			opts.Offset = offset
		}
	}

	records, err := h.store.ListEquipment(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	total, err := h.store.CountEquipment()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"records": records,
	})
}
