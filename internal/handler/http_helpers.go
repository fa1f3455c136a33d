package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/growthlog/internal/scoring"
	"github.com/growthlog/internal/service"
	"github.com/growthlog/internal/store"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseDateParam(c *gin.Context, key string) (time.Time, error) {
	raw := strings.TrimSpace(c.Param(key))
	date, err := scoring.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s", key)
	}
	return date, nil
}

func queryList(c *gin.Context, key string) []string {
	items := make([]string, 0)
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				items = append(items, trimmed)
			}
		}
	}
	return items
}

// handleServiceError 将服务层错误映射为 HTTP 状态码
func handleServiceError(c *gin.Context, err error) {
	var verr *scoring.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "校验失败", "habit": verr.Habit, "reason": verr.Reason})
	case errors.Is(err, scoring.ErrUnknownHabit):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrLogNotFound):
		respondError(c, http.StatusNotFound, "记录不存在")
	case errors.Is(err, service.ErrChecklistItemNotFound):
		respondError(c, http.StatusNotFound, "清单条目不存在")
	case errors.Is(err, scoring.ErrWizardComplete), errors.Is(err, scoring.ErrWizardIncomplete):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		respondError(c, http.StatusServiceUnavailable, "数据表暂时不可用")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}

// respondDegraded 用于只读统计接口：存储不可用时仍返回 200 与空数据，并附带 store_error
func respondDegraded(c *gin.Context, payload gin.H, err error) {
	if err != nil && !errors.Is(err, store.ErrUnavailable) {
		handleServiceError(c, err)
		return
	}
	if err != nil {
		payload["store_error"] = "数据表暂时不可用，以下为空数据"
	}
	c.JSON(http.StatusOK, payload)
}
