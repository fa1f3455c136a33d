package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/growthlog/internal/scoring"
	"github.com/growthlog/internal/sheet"
)

type schedulePayload struct {
	Date string `json:"date"`
	Task string `json:"task"`
}

type checklistPayload struct {
	ID   string `json:"id"`
	Task string `json:"task"`
	Tag  string `json:"tag"`
	Done bool   `json:"done"`
}

type checklistRequest struct {
	Task string `json:"task"`
	Tag  string `json:"tag"`
}

func scheduleToPayload(item sheet.ScheduleItem) schedulePayload {
	return schedulePayload{Date: scoring.DateKey(item.Date), Task: item.Task}
}

func checklistToPayload(item sheet.ChecklistItem) checklistPayload {
	return checklistPayload{ID: item.ID, Task: item.Task, Tag: item.Tag, Done: item.Done}
}

// ListSchedule 返回今天及之后的日程，?from= 可指定起始日期
func (a *API) ListSchedule(c *gin.Context) {
	from := a.today()
	if raw := c.Query("from"); raw != "" {
		parsed, err := scoring.ParseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid from")
			return
		}
		from = parsed
	}

	items, err := a.schedule.Upcoming(c.Request.Context(), from)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	payload := make([]schedulePayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, scheduleToPayload(item))
	}
	c.JSON(http.StatusOK, gin.H{"schedule": payload})
}

// AddSchedule 追加日程
func (a *API) AddSchedule(c *gin.Context) {
	var req schedulePayload
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}
	date, err := scoring.ParseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date")
		return
	}
	item, err := a.schedule.Add(c.Request.Context(), date, req.Task)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": scheduleToPayload(item)})
}

// ListChecklist 返回清单，未完成在前
func (a *API) ListChecklist(c *gin.Context) {
	items, err := a.checklist.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	payload := make([]checklistPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, checklistToPayload(item))
	}
	c.JSON(http.StatusOK, gin.H{"checklist": payload})
}

// AddChecklist 新增清单条目
func (a *API) AddChecklist(c *gin.Context) {
	var req checklistRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}
	item, err := a.checklist.Add(c.Request.Context(), req.Task, req.Tag)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": checklistToPayload(item)})
}

// ToggleChecklist 切换完成状态
func (a *API) ToggleChecklist(c *gin.Context) {
	item, err := a.checklist.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": checklistToPayload(item)})
}

// DeleteChecklist 删除清单条目
func (a *API) DeleteChecklist(c *gin.Context) {
	if err := a.checklist.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
