package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"stock_advisor/core"
	"stock_advisor/models"
	"stock_advisor/pkg/database"
	"stock_advisor/pkg/gemini"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AnalysisController struct {
	analyzer *core.Analyzer
}

func NewAnalysisController(analyzer *core.Analyzer) *AnalysisController {
	return &AnalysisController{analyzer: analyzer}
}

// RunAnalysisRequest 触发分析的请求体
type RunAnalysisRequest struct {
	Symbol string `json:"symbol" binding:"required"`
	Model  string `json:"model"`
}

// RunAnalysis 对单只股票执行完整分析管线并持久化结果
func (ac *AnalysisController) RunAnalysis(c *gin.Context) {
	var req RunAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数格式错误",
			"code":  "INVALID_PARAMS",
		})
		return
	}

	outcome, err := ac.analyzer.RunAndRecord(c.Request.Context(), req.Symbol, req.Model)
	if err != nil {
		logrus.Errorf("分析执行失败: symbol=%s error=%v", req.Symbol, err)
		respondGeminiError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": outcome,
	})
}

// respondGeminiError 把生成客户端的分类错误映射为HTTP状态码
// 归一化阶段不产生错误，这里覆盖的都是传输/配置类失败
func respondGeminiError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	code := "ANALYSIS_FAILED"

	var notConfigured *gemini.NotConfigured
	var timeout *gemini.RequestTimeout
	var rateLimit *gemini.RateLimitExceeded
	var authErr *gemini.AuthenticationError
	var badReq *gemini.BadRequest

	switch {
	case errors.As(err, &notConfigured):
		status = http.StatusServiceUnavailable
		code = "GEMINI_NOT_CONFIGURED"
	case errors.As(err, &timeout):
		status = http.StatusGatewayTimeout
		code = "GENERATION_TIMEOUT"
	case errors.As(err, &rateLimit):
		status = http.StatusTooManyRequests
		code = "RATE_LIMITED"
		if rateLimit.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(rateLimit.RetryAfter))
		}
	case errors.As(err, &authErr):
		status = http.StatusBadGateway
		code = "GEMINI_AUTH_FAILED"
	case errors.As(err, &badReq):
		status = http.StatusBadRequest
		code = "GEMINI_BAD_REQUEST"
	}

	c.JSON(status, gin.H{
		"error":     err.Error(),
		"code":      code,
		"retryable": gemini.IsRetryable(err),
	})
}

// GetAnalysisRecords 分页查询历史分析记录，支持按股票代码模糊过滤
func (ac *AnalysisController) GetAnalysisRecords(c *gin.Context) {
	db := database.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "数据库未配置",
			"code":  "DATABASE_NOT_CONFIGURED",
		})
		return
	}

	var records []models.AnalysisRecord

	symbol := c.Query("symbol")
	signal := c.Query("signal")
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("pageSize", "10")

	page, _ := strconv.Atoi(pageStr)
	pageSize, _ := strconv.Atoi(pageSizeStr)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	offset := (page - 1) * pageSize

	query := db.Model(&models.AnalysisRecord{})

	if symbol != "" {
		// 支持模糊查询：匹配包含symbol的记录
		query = query.Where("symbol LIKE ?", "%"+symbol+"%")
	}
	if signal != "" {
		query = query.Where("short_term_signal = ? OR long_term_signal = ?", signal, signal)
	}

	var total int64
	query.Count(&total)

	result := query.Order("created_at desc").Offset(offset).Limit(pageSize).Find(&records)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询分析记录失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       records,
		"total":      total,
		"page":       page,
		"pageSize":   pageSize,
		"totalPages": int(math.Ceil(float64(total) / float64(pageSize))),
	})
}

// GetAnalysisByID 按ID查询单条分析记录
func (ac *AnalysisController) GetAnalysisByID(c *gin.Context) {
	db := database.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "数据库未配置",
			"code":  "DATABASE_NOT_CONFIGURED",
		})
		return
	}

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID不能为空"})
		return
	}

	var record models.AnalysisRecord
	if err := db.First(&record, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "分析记录不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": record,
	})
}
