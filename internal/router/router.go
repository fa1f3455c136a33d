package router

import (
	"crypto/rand"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/growthlog/internal/handler"
	"github.com/growthlog/internal/logger"
)

const sessionName = "growthlog_session"

// Options 为路由所需的外部配置
type Options struct {
	SessionSecret string
	CORSOrigins   []string
	Logger        *logger.Logger
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(log))
	if len(opts.CORSOrigins) > 0 {
		r.Use(CORS(opts.CORSOrigins))
	}

	// 配置会话中间件
	store := cookie.NewStore(sessionKey(opts.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 7 * 24 * 60 * 60, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/ping", api.Ping)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/config", api.GetConfig)

		apiGroup.GET("/dashboard", api.GetDashboard)
		apiGroup.GET("/charts", api.GetChart)
		apiGroup.GET("/heatmap", api.GetHeatmap)
		apiGroup.GET("/distribution", api.GetDistribution)
		apiGroup.GET("/ledger", api.GetLedger)
		apiGroup.GET("/weeks/:week", api.GetWeek)

		apiGroup.GET("/logs", api.ListLogs)
		apiGroup.GET("/logs/:date", api.GetLog)
		apiGroup.PUT("/logs/:date", api.SaveLog)
		apiGroup.PATCH("/logs/:date/habits/:key", api.UpdateLogHabit)
		apiGroup.PATCH("/logs/:date/notes", api.UpdateLogNotes)

		apiGroup.POST("/wizard/start", api.StartWizard)
		apiGroup.POST("/wizard/answer", api.AnswerWizard)
		apiGroup.POST("/wizard/back", api.BackWizard)
		apiGroup.POST("/wizard/submit", api.SubmitWizard)

		apiGroup.GET("/schedule", api.ListSchedule)
		apiGroup.POST("/schedule", api.AddSchedule)

		apiGroup.GET("/checklist", api.ListChecklist)
		apiGroup.POST("/checklist", api.AddChecklist)
		apiGroup.POST("/checklist/:id/toggle", api.ToggleChecklist)
		apiGroup.DELETE("/checklist/:id", api.DeleteChecklist)
	}

	// 只读视图，访问码解锁后仅开放查询
	view := r.Group("/view")
	{
		view.POST("/unlock", api.UnlockView)
		view.POST("/lock", api.LockView)

		unlocked := view.Group("")
		unlocked.Use(handler.ViewRequired())
		{
			unlocked.GET("/dashboard", api.ViewDashboard)
			unlocked.GET("/journal", api.ViewJournal)
		}
	}

	return r
}

// sessionKey 未配置密钥时使用进程内随机密钥，会话不跨重启保留
func sessionKey(secret string) []byte {
	if secret != "" {
		return []byte(secret)
	}
	key := make([]byte, 32)
	rand.Read(key)
	return key
}
