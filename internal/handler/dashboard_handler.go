package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/growthlog/internal/scoring"
)

// GetDashboard 返回首页指标
func (a *API) GetDashboard(c *gin.Context) {
	dash, err := a.dashboard.Build(c.Request.Context(), a.today())
	if err != nil {
		a.logger.Warn("dashboard degraded", "error", err)
	}
	respondDegraded(c, gin.H{"dashboard": dash}, err)
}

// GetChart 返回按日/周/月聚合的趋势数据，?habit= 可多选
func (a *API) GetChart(c *gin.Context) {
	groupBy, err := scoring.ParseGroupBy(c.Query("group"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "group 仅支持 day/week/month")
		return
	}
	chart, err := a.dashboard.Chart(c.Request.Context(), groupBy, queryList(c, "habit"))
	respondDegraded(c, gin.H{"chart": chart}, err)
}

// GetHeatmap 返回 ISO 周 × 星期的热力图
func (a *API) GetHeatmap(c *gin.Context) {
	cells, err := a.dashboard.Heatmap(c.Request.Context())
	respondDegraded(c, gin.H{"days": scoring.WeekdayNames, "cells": cells}, err)
}

// GetDistribution 返回各习惯累计次数
func (a *API) GetDistribution(c *gin.Context) {
	points, err := a.dashboard.Distribution(c.Request.Context())
	respondDegraded(c, gin.H{"distribution": points}, err)
}

// GetLedger 返回终身得分及每周奖池台账
func (a *API) GetLedger(c *gin.Context) {
	lifetime, err := a.dashboard.Ledger(c.Request.Context())
	respondDegraded(c, gin.H{"lifetime": lifetime}, err)
}

// GetWeek 返回任意 ISO 周（如 2025-W02）的得分
func (a *API) GetWeek(c *gin.Context) {
	week, err := scoring.ParseISOWeek(c.Param("week"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的周参数")
		return
	}
	score, err := a.dashboard.WeeklyScore(c.Request.Context(), week)
	respondDegraded(c, gin.H{"week": score}, err)
}
