package api

import (
	"PlsVerify/internal/interfaces"
	"PlsVerify/internal/service"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter 注册服务模式的全部路由
func NewRouter(svc *service.VerifyService, store interfaces.BlockStore, gatherer prometheus.Gatherer, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 注册ppof 方便调试和监测性能问题
	pprof.Register(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	verifyHandler := NewVerifyHandler(svc, logger)
	r.POST("/api/verify", verifyHandler.Verify)

	recordHandler := NewRecordHandler(store, svc.Locator(), logger)
	r.GET("/api/records", recordHandler.ListRecords)
	r.GET("/api/reports/:period", recordHandler.ListReports)
	return r
}
