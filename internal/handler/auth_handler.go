package handler

import (
	"net/http"

	"github.com/assohub/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Login 处理管理员登录请求。
func (a *API) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req, "无效的登录参数") {
		return
	}

	// 查找用户
	var user db.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	// 设置会话
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": user.Username, "role": user.Role})
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// AuthRequired 校验调用者身份：会话中没有用户标识时短路返回 401。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("user_id") == nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// DashboardViewRequired 校验统计面板查看权限。身份校验与权限校验分开
// 短路：前者 401，后者 403，两者都发生在任何统计查询执行之前。
func (a *API) DashboardViewRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get("user_id").(uint)
		if !ok {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}

		var user db.User
		if err := a.db.First(&user, userID).Error; err != nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}

		if !user.CanViewDashboard() {
			respondError(c, http.StatusForbidden, "没有查看统计面板的权限")
			c.Abort()
			return
		}

		c.Next()
	}
}
