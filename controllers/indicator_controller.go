package controllers

import (
	"net/http"

	"stock_advisor/core"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type IndicatorController struct {
	analyzer *core.Analyzer
}

func NewIndicatorController(analyzer *core.Analyzer) *IndicatorController {
	return &IndicatorController{analyzer: analyzer}
}

// GetIndicators 只计算技术指标，不触发文本生成
func (ic *IndicatorController) GetIndicators(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "symbol参数不能为空",
			"code":  "INVALID_PARAMS",
		})
		return
	}

	set, err := ic.analyzer.Indicators(c.Request.Context(), symbol)
	if err != nil {
		logrus.Warnf("指标计算失败: symbol=%s error=%v", symbol, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"code":  "INDICATOR_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": set,
	})
}
