package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/growthlog/internal/scoring"
)

// wizardView 描述向导当前步骤，State 需由客户端原样回传
type wizardView struct {
	State  scoring.WizardState `json:"state"`
	Step   string              `json:"step"`
	Label  string              `json:"label"`
	Prompt string              `json:"prompt"`
	Index  int                 `json:"index"`
	Steps  []string            `json:"steps"`
	Done   bool                `json:"done"`
}

type wizardAnswerRequest struct {
	State scoring.WizardState `json:"state"`
	Input scoring.WizardInput `json:"input"`
}

type wizardStateRequest struct {
	State scoring.WizardState `json:"state"`
	// Date 为空时提交到今天
	Date string `json:"date"`
}

var wizardStepLabels = map[string][2]string{
	scoring.StepGoal:       {"🎯 Next Goal", "What is the goal for tomorrow?"},
	scoring.StepReflection: {"📝 Reflection", "How did today go?"},
	scoring.StepReview:     {"✅ Review", "Submit today's log?"},
}

func (a *API) wizardView(state scoring.WizardState) wizardView {
	step := a.wizard.Current(state)
	view := wizardView{
		State: state,
		Step:  step,
		Steps: a.wizard.Steps(),
		Done:  a.wizard.Done(state),
	}
	for i, name := range view.Steps {
		if name == step {
			view.Index = i
			break
		}
	}
	if labels, ok := wizardStepLabels[step]; ok {
		view.Label, view.Prompt = labels[0], labels[1]
		return view
	}
	for _, habit := range a.tracker.Habits {
		if habit.Key == step {
			view.Label, view.Prompt = habit.Label, habit.Prompt
			break
		}
	}
	return view
}

// StartWizard 返回向导初始状态
func (a *API) StartWizard(c *gin.Context) {
	c.JSON(http.StatusOK, a.wizardView(a.wizard.Start()))
}

// AnswerWizard 记录当前步骤并前进；校验失败时返回原状态
func (a *API) AnswerWizard(c *gin.Context) {
	var req wizardAnswerRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}
	next, err := a.wizard.Answer(req.State, req.Input)
	if err != nil {
		var verr *scoring.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "校验失败", "reason": verr.Reason, "wizard": a.wizardView(next)})
			return
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, a.wizardView(next))
}

// BackWizard 回退一步
func (a *API) BackWizard(c *gin.Context) {
	var req wizardStateRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}
	c.JSON(http.StatusOK, a.wizardView(a.wizard.Back(req.State)))
}

// SubmitWizard 将完成的向导保存为当日记录
func (a *API) SubmitWizard(c *gin.Context) {
	var req wizardStateRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}
	date := a.today()
	if req.Date != "" {
		parsed, err := scoring.ParseDate(req.Date)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid date")
			return
		}
		date = parsed
	}

	entry, err := a.wizard.Entry(req.State, date)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	record, err := a.logs.SaveDay(c.Request.Context(), entry)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": a.logToPayload(record), "wizard": a.wizardView(a.wizard.Start())})
}
