package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/api"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/config"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/store"
)

// indexPage 内置上传页面，无需前端构建产物
const indexPage = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<title>备件清单整理工具</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 40px auto; padding: 0 16px; }
#log { white-space: pre-wrap; background: #f5f5f5; padding: 12px; min-height: 120px; }
</style>
</head>
<body>
<h2>备件清单整理工具</h2>
<p>上传 Excel 工作簿，每个 Sheet 独立解析、匹配设备目录并生成备件推荐清单。</p>
<input type="file" id="file" accept=".xlsx,.xlsm">
<button onclick="upload()">开始处理</button>
<div id="log"></div>
<script>
async function upload() {
  const f = document.getElementById('file').files[0];
  const log = document.getElementById('log');
  if (!f) { log.textContent = '请先选择文件'; return; }
  log.textContent = '';
  const fd = new FormData();
  fd.append('file', f);
  const resp = await fetch('/api/process', { method: 'POST', body: fd });
  if (!resp.ok) { log.textContent = await resp.text(); return; }
  const reader = resp.body.getReader();
  const decoder = new TextDecoder();
  let buf = '';
  for (;;) {
    const { done, value } = await reader.read();
    if (done) break;
    buf += decoder.decode(value, { stream: true });
    const parts = buf.split('\n\n');
    buf = parts.pop();
    for (const part of parts) {
      if (!part.startsWith('data: ')) continue;
      const ev = JSON.parse(part.slice(6));
      log.textContent += ev.message + '\n';
      if (ev.type === 'done' && ev.data && ev.data.downloadToken) {
        window.location = '/api/process/download/' + ev.data.downloadToken;
      }
    }
  }
}
</script>
</body>
</html>`

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := config.DBPath(cfg, dataDir)

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	handler := api.NewHandler(sqliteStore, cfg, dataDir)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		api:    handler,
	}

	s.setupRoutes()

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// API 路由
	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	// 首页
	s.router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
	})
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭底层资源
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
