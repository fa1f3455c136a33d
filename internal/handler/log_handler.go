package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/growthlog/internal/scoring"
	"github.com/growthlog/internal/service"
)

// logPayload 为单日记录的响应结构，习惯值以布尔返回
type logPayload struct {
	Date        string            `json:"date"`
	Week        string            `json:"week"`
	Total       int               `json:"total"`
	Habits      map[string]bool   `json:"habits"`
	Details     map[string]string `json:"details"`
	NextGoal    string            `json:"next_goal"`
	Reflection  string            `json:"reflection"`
	WeeklyRetro string            `json:"weekly_retro"`
}

// dayRequest 为整日提交。习惯值接受布尔、数字或 "TRUE"/"yes" 等字符串。
type dayRequest struct {
	Habits      map[string]any    `json:"habits"`
	Details     map[string]string `json:"details"`
	NextGoal    string            `json:"next_goal"`
	Reflection  string            `json:"reflection"`
	WeeklyRetro string            `json:"weekly_retro"`
}

type habitRequest struct {
	Done   any    `json:"done"`
	Detail string `json:"detail"`
}

type notesRequest struct {
	NextGoal    *string `json:"next_goal"`
	Reflection  *string `json:"reflection"`
	WeeklyRetro *string `json:"weekly_retro"`
}

func (a *API) logToPayload(record scoring.Record) logPayload {
	keys := a.logs.HabitKeys()
	payload := logPayload{
		Date:        record.Key(),
		Week:        scoring.WeekOf(record.Date).String(),
		Total:       record.Total(keys),
		Habits:      make(map[string]bool, len(keys)),
		Details:     make(map[string]string, len(keys)),
		NextGoal:    record.NextGoal,
		Reflection:  record.Reflection,
		WeeklyRetro: record.WeeklyRetro,
	}
	for _, key := range keys {
		payload.Habits[key] = record.Value(key) == 1
		payload.Details[key] = record.Detail(key)
	}
	return payload
}

// ListLogs 返回全部记录，最新的在前
func (a *API) ListLogs(c *gin.Context) {
	records, err := a.logs.History(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	items := make([]logPayload, 0, len(records))
	for _, record := range records {
		items = append(items, a.logToPayload(record))
	}
	c.JSON(http.StatusOK, gin.H{"logs": items})
}

// GetLog 返回指定日期的记录
func (a *API) GetLog(c *gin.Context) {
	date, err := parseDateParam(c, "date")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	record, err := a.logs.Get(c.Request.Context(), date)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": a.logToPayload(record)})
}

// SaveLog 保存一整天的提交，同日已有记录会被覆盖
func (a *API) SaveLog(c *gin.Context) {
	date, err := parseDateParam(c, "date")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req dayRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}

	entry := scoring.DayEntry{
		Date:        date,
		Habits:      make(map[string]bool, len(req.Habits)),
		Details:     req.Details,
		NextGoal:    req.NextGoal,
		Reflection:  req.Reflection,
		WeeklyRetro: req.WeeklyRetro,
	}
	for key, raw := range req.Habits {
		entry.Habits[key] = scoring.Coerce(raw) == 1
	}

	record, err := a.logs.SaveDay(c.Request.Context(), entry)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": a.logToPayload(record)})
}

// UpdateLogHabit 只修改某日的单个习惯
func (a *API) UpdateLogHabit(c *gin.Context) {
	date, err := parseDateParam(c, "date")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req habitRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}

	record, err := a.logs.UpdateHabit(c.Request.Context(), date, c.Param("key"), scoring.Coerce(req.Done) == 1, req.Detail)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": a.logToPayload(record)})
}

// UpdateLogNotes 合并某日的目标与反思
func (a *API) UpdateLogNotes(c *gin.Context) {
	date, err := parseDateParam(c, "date")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req notesRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}

	record, err := a.logs.UpdateNotes(c.Request.Context(), date, service.NotesInput{
		NextGoal:    req.NextGoal,
		Reflection:  req.Reflection,
		WeeklyRetro: req.WeeklyRetro,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": a.logToPayload(record)})
}
