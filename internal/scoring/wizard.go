package scoring

import (
	"errors"
	"strings"
	"time"
)

// 习惯步骤之后的固定步骤
const (
	StepGoal       = "goal"
	StepReflection = "reflection"
	StepReview     = "review"
)

var (
	// ErrWizardComplete 在已到达确认页后继续作答时返回
	ErrWizardComplete = errors.New("wizard already complete")
	// ErrWizardIncomplete 在未到达确认页就提交时返回
	ErrWizardIncomplete = errors.New("wizard not complete")
)

// WizardAnswer 为单个习惯步骤的回答
type WizardAnswer struct {
	Done   bool   `json:"done"`
	Detail string `json:"detail"`
}

// WizardState 是向导的全部状态，作为普通值在调用之间传递
type WizardState struct {
	Step       int                     `json:"step"`
	Answers    map[string]WizardAnswer `json:"answers"`
	NextGoal   string                  `json:"next_goal"`
	Reflection string                  `json:"reflection"`
}

// WizardInput 为一次作答。习惯步骤使用 Done/Detail，文本步骤使用 Text。
type WizardInput struct {
	Done   bool   `json:"done"`
	Detail string `json:"detail"`
	Text   string `json:"text"`
}

// Wizard 逐项引导填写当日记录：每个习惯一步，然后是目标、反思、确认
type Wizard struct {
	steps []string
}

// NewWizard 按习惯顺序构造向导
func NewWizard(habitKeys []string) Wizard {
	steps := make([]string, 0, len(habitKeys)+3)
	steps = append(steps, habitKeys...)
	steps = append(steps, StepGoal, StepReflection, StepReview)
	return Wizard{steps: steps}
}

// Steps 返回全部步骤名
func (w Wizard) Steps() []string {
	return append([]string(nil), w.steps...)
}

// Start 返回初始状态
func (w Wizard) Start() WizardState {
	return WizardState{Answers: make(map[string]WizardAnswer)}
}

// Current 返回当前步骤名，越界时按边界处理
func (w Wizard) Current(state WizardState) string {
	return w.steps[w.clamp(state.Step)]
}

// Done 是否已到达确认页
func (w Wizard) Done(state WizardState) bool {
	return w.Current(state) == StepReview
}

// Answer 记录当前步骤的回答并前进一步。校验失败时返回原状态与错误。
func (w Wizard) Answer(state WizardState, input WizardInput) (WizardState, error) {
	next := cloneState(state)
	next.Step = w.clamp(state.Step)

	switch step := w.steps[next.Step]; step {
	case StepReview:
		return state, ErrWizardComplete
	case StepGoal:
		next.NextGoal = strings.TrimSpace(input.Text)
	case StepReflection:
		next.Reflection = strings.TrimSpace(input.Text)
	default:
		detail := strings.TrimSpace(input.Detail)
		if err := RequireDetail(step, input.Done, detail); err != nil {
			return state, err
		}
		next.Answers[step] = WizardAnswer{Done: input.Done, Detail: detail}
	}

	next.Step++
	return next, nil
}

// Back 回退一步，已填写的回答保留
func (w Wizard) Back(state WizardState) WizardState {
	next := cloneState(state)
	next.Step = w.clamp(state.Step)
	if next.Step > 0 {
		next.Step--
	}
	return next
}

// Entry 将已完成的向导转换为当日提交
func (w Wizard) Entry(state WizardState, date time.Time) (DayEntry, error) {
	if !w.Done(state) {
		return DayEntry{}, ErrWizardIncomplete
	}
	entry := DayEntry{
		Date:       NormalizeDate(date),
		Habits:     make(map[string]bool),
		Details:    make(map[string]string),
		NextGoal:   state.NextGoal,
		Reflection: state.Reflection,
	}
	for _, step := range w.steps {
		answer, ok := state.Answers[step]
		if !ok {
			continue
		}
		entry.Habits[step] = answer.Done
		entry.Details[step] = answer.Detail
	}
	return entry, nil
}

func (w Wizard) clamp(step int) int {
	if step < 0 {
		return 0
	}
	if step >= len(w.steps) {
		return len(w.steps) - 1
	}
	return step
}

func cloneState(state WizardState) WizardState {
	next := state
	next.Answers = make(map[string]WizardAnswer, len(state.Answers))
	for k, v := range state.Answers {
		next.Answers[k] = v
	}
	return next
}
