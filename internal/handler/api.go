package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/growthlog/internal/config"
	"github.com/growthlog/internal/logger"
	"github.com/growthlog/internal/scoring"
	"github.com/growthlog/internal/service"
	"github.com/growthlog/internal/store"
)

// Options 描述构造 API 所需的依赖
type Options struct {
	Store      store.TableStore
	Worksheets config.Worksheets
	Tracker    config.Tracker
	// AccessCodeHash 为只读视图访问码的 bcrypt 哈希，为空时视图关闭
	AccessCodeHash []byte
	Location       *time.Location
	Logger         *logger.Logger
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	logs       *service.LogService
	dashboard  *service.DashboardService
	schedule   *service.ScheduleService
	checklist  *service.ChecklistService
	journal    *service.JournalService
	wizard     scoring.Wizard
	tracker    config.Tracker
	accessHash []byte
	location   *time.Location
	logger     *logger.Logger
	now        func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(opts Options) *API {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	logs := service.NewLogService(opts.Store, opts.Worksheets.Logs, opts.Tracker.Schema(), log)
	return &API{
		logs:       logs,
		dashboard:  service.NewDashboardService(logs, opts.Tracker),
		schedule:   service.NewScheduleService(opts.Store, opts.Worksheets.Schedule, log),
		checklist:  service.NewChecklistService(opts.Store, opts.Worksheets.Checklist, log),
		journal:    service.NewJournalService(logs),
		wizard:     scoring.NewWizard(opts.Tracker.Scoring.HabitKeys),
		tracker:    opts.Tracker,
		accessHash: opts.AccessCodeHash,
		location:   loc,
		logger:     log,
		now:        time.Now,
	}
}

// today 返回配置时区下的当天日期
func (a *API) today() time.Time {
	return scoring.NormalizeDate(a.now().In(a.location))
}

// Ping 健康检查
func (a *API) Ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}

// GetConfig 返回习惯定义与评分参数，供前端渲染表单
func (a *API) GetConfig(c *gin.Context) {
	c.JSON(200, gin.H{
		"habits":  a.tracker.Habits,
		"scoring": a.tracker.Scoring,
		"today":   scoring.DateKey(a.today()),
	})
}
