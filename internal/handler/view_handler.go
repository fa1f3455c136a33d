package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/growthlog/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	viewSessionKey      = "view_unlocked"
	defaultJournalLimit = 30
)

type unlockRequest struct {
	Code string `json:"code"`
}

// HashAccessCode 生成访问码的 bcrypt 哈希，code 为空时返回 nil
func HashAccessCode(code string) ([]byte, error) {
	if code == "" {
		return nil, nil
	}
	return bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
}

// UnlockView 校验 4 位访问码并在会话中打开只读视图
func (a *API) UnlockView(c *gin.Context) {
	if len(a.accessHash) == 0 {
		respondError(c, http.StatusForbidden, "只读视图未启用")
		return
	}
	var req unlockRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}
	if !config.IsAccessCode(req.Code) {
		respondError(c, http.StatusBadRequest, "访问码须为 4 位数字")
		return
	}
	if err := bcrypt.CompareHashAndPassword(a.accessHash, []byte(req.Code)); err != nil {
		a.logger.Warn("view unlock rejected", "client_ip", c.ClientIP())
		respondError(c, http.StatusUnauthorized, "访问码错误")
		return
	}

	session := sessions.Default(c)
	session.Set(viewSessionKey, true)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlocked": true})
}

// LockView 清除只读视图会话
func (a *API) LockView(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(viewSessionKey)
	if err := session.Save(); err != nil {
		a.logger.Error("view lock failed", "error", err)
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlocked": false})
}

// ViewRequired 只读视图的会话校验中间件
func ViewRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if unlocked, _ := session.Get(viewSessionKey).(bool); !unlocked {
			respondError(c, http.StatusUnauthorized, "需要访问码")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ViewDashboard 只读首页，内容与 /api/dashboard 相同
func (a *API) ViewDashboard(c *gin.Context) {
	a.GetDashboard(c)
}

// ViewJournal 只读日志详情，文字字段渲染为安全 HTML
func (a *API) ViewJournal(c *gin.Context) {
	limit := defaultJournalLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := a.journal.Entries(c.Request.Context(), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"journal": entries})
}
