package api

import (
	"net/http"

	"PlsVerify/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type VerifyHandler struct {
	verifyService *service.VerifyService
	logger        *logrus.Logger
}

func NewVerifyHandler(svc *service.VerifyService, logger *logrus.Logger) *VerifyHandler {
	return &VerifyHandler{
		verifyService: svc,
		logger:        logger,
	}
}

// Verify 执行一次验证
// @Summary 验证最新一期推荐号码
// @Success 200 {object} service.RunResult
// @Failure 422 {object} service.RunResult "验证失败，错误已写入主报告"
// @Failure 500 {object} map[string]string
// @Router /api/verify [post]
func (h *VerifyHandler) Verify(c *gin.Context) {
	res, err := h.verifyService.Run(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("验证运行失败")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	if res.State == service.StateFailed {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
