package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/excel"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/pipeline"
)

// downloadTTL 输出文件下载令牌有效期
const downloadTTL = 30 * time.Minute

// Process 上传并处理 Excel 文件 (SSE 流式响应)
// POST /api/process
func (h *Handler) Process(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表单数据"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	uploadedFile := files[0]

	// 保存到上传目录
	tempFilePath := filepath.Join(h.dataDir, "uploads",
		fmt.Sprintf("upload_%d_%s", time.Now().Unix(), filepath.Base(uploadedFile.Filename)))

	if err := c.SaveUploadedFile(uploadedFile, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}
	defer os.Remove(tempFilePath)

	// 读取工作簿
	sheets, err := excel.ReadWorkbook(tempFilePath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("读取工作簿失败: %v", err)})
		return
	}
	if len(sheets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "工作簿中没有可处理的 Sheet"})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	coordinator := pipeline.NewCoordinator(h.store, h.cfg)
	progressChan := coordinator.Process(sheets, pipeline.Options{
		Filename: uploadedFile.Filename,
	})

	for event := range progressChan {
		// 完成事件：落盘输出文件并附加下载令牌
		if event.Type == "done" {
			if result, ok := event.Data.(*pipeline.RunResult); ok {
				event.Data = h.finishRun(result)
			}
		}

		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// finishRun 写出结果工作簿、记录运行日志并生成下载令牌
func (h *Handler) finishRun(result *pipeline.RunResult) gin.H {
	payload := gin.H{
		"report": result.Report,
	}

	outputFile, err := excel.NewWriter().Write(result.Table, result.Report)
	if err != nil {
		payload["outputError"] = err.Error()
		return payload
	}
	defer outputFile.Close()

	filename := fmt.Sprintf("formatted_output_%s.xlsx", result.Report.RunID[:8])
	outputPath := filepath.Join(h.dataDir, "exports", filename)

	if err := outputFile.SaveAs(outputPath); err != nil {
		payload["outputError"] = err.Error()
		return payload
	}

	if err := h.store.SaveRunLog(result.Report, result.Table.PlanCount()); err != nil {
		// 运行日志失败不影响结果下载
		payload["runLogError"] = err.Error()
	}

	payload["planCount"] = result.Table.PlanCount()
	payload["downloadToken"] = h.downloads.put(outputPath, filename, downloadTTL)
	return payload
}

// DownloadOutput 下载处理结果
// GET /api/process/download/:token
func (h *Handler) DownloadOutput(c *gin.Context) {
	token := c.Param("token")

	download, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接不存在或已过期"})
		return
	}

	c.FileAttachment(download.filePath, download.filename)
}
