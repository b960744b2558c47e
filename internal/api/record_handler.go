package api

import (
	"net/http"
	"strconv"
	"time"

	"PlsVerify/internal/interfaces"
	"PlsVerify/internal/model"
	"PlsVerify/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// RecordHandler 主报告记录与候选报告查询接口
type RecordHandler struct {
	store   interfaces.BlockStore
	locator *report.Locator
	logger  *logrus.Logger
}

// NewRecordHandler 创建 RecordHandler
func NewRecordHandler(store interfaces.BlockStore, locator *report.Locator, logger *logrus.Logger) *RecordHandler {
	return &RecordHandler{
		store:   store,
		locator: locator,
		logger:  logger,
	}
}

// BlockItem 记录块的接口表示
type BlockItem struct {
	ID          uint64          `json:"id"`
	BlockUUID   string          `json:"block_uuid,omitempty"`
	Kind        model.BlockKind `json:"kind"`
	Period      string          `json:"period,omitempty"`
	Body        string          `json:"body"`
	TotalPayout int             `json:"total_payout"`
	Details     datatypes.JSON  `json:"details,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
}

// ListRecords 记录块列表，最新在前
// GET /api/records?kind=outcome|error&limit=20
func (h *RecordHandler) ListRecords(c *gin.Context) {
	kind := model.BlockKind(c.Query("kind"))
	if kind != "" && kind != model.BlockOutcome && kind != model.BlockError {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be outcome or error"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	blocks, err := h.store.List(c.Request.Context(), kind)
	if err != nil {
		h.logger.WithError(err).Error("ListRecords failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if limit > 0 && len(blocks) > limit {
		blocks = blocks[:limit]
	}

	items := make([]BlockItem, 0, len(blocks))
	for _, b := range blocks {
		item := BlockItem{
			ID:          b.ID,
			BlockUUID:   b.BlockUUID,
			Kind:        b.Kind,
			Period:      b.Period,
			Body:        b.Body,
			TotalPayout: b.TotalPayout,
			Details:     b.Details,
		}
		if !b.CreatedAt.IsZero() {
			created := b.CreatedAt
			item.CreatedAt = &created
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"total": len(items), "list": items})
}

// ListReports 数据截止期为 :period 的候选分析报告，selected 为验证时会选用的那份
// GET /api/reports/:period
func (h *RecordHandler) ListReports(c *gin.Context) {
	period := c.Param("period")
	if period == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period is required"})
		return
	}

	candidates, err := h.locator.Candidates(period)
	if err != nil {
		h.logger.WithError(err).Error("ListReports failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(candidates) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrReportNotFound.Error(), "period": period})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"period":     period,
		"selected":   candidates[0],
		"candidates": candidates,
	})
}
