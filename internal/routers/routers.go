package routers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/scenestack/scenestack/config"
	"github.com/scenestack/scenestack/internal/handlers"
	"github.com/scenestack/scenestack/internal/middlewares"
	pkgmiddlewares "github.com/scenestack/scenestack/pkg/middlewares"
)

// SetupRoutes 设置所有路由
func SetupRoutes(r *gin.Engine, cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	groupHandler *handlers.GroupHandler,
	movieHandler *handlers.MovieHandler,
	watchHandler *handlers.WatchHandler,
	insightHandler *handlers.InsightHandler,
	denylist middlewares.TokenDenylist,
	limiter *pkgmiddlewares.RateLimiter,
) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 全局限流中间件 (防止 QPS 过高)
	if limiter != nil && cfg.RateLimit.QPS > 0 {
		r.Use(pkgmiddlewares.RateLimitMiddleware(
			limiter,
			cfg.RateLimit.QPS,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		))
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"Status": "OK",
		})
	})

	// 异步处理中间件
	// 将请求放入 Worker Pool 中排队执行
	r.Use(middlewares.AsyncMiddleware())

	RegisterUserRoutes(r, authHandler, userHandler, insightHandler, denylist)
	RegisterMovieRoutes(r, movieHandler, denylist)
	RegisterWatchRoutes(r, watchHandler, denylist)
	RegisterGroupRoutes(r, groupHandler, watchHandler, insightHandler, denylist)
}

// RegisterUserRoutes 用户与账号注销流程路由
func RegisterUserRoutes(r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	insightHandler *handlers.InsightHandler,
	denylist middlewares.TokenDenylist,
) {
	userGroup := r.Group("/api/users")
	{
		userGroup.POST("/register", authHandler.Register) // 注册
		userGroup.POST("/login", authHandler.Login)       // 登录
	}
	userGroup.Use(middlewares.AuthMiddleware(denylist))
	{
		userGroup.POST("/logout", authHandler.Logout) // 登出 (拉黑当前 token)

		// 用户个人信息
		userGroup.GET("/me", userHandler.GetProfile)                // 获取当前用户信息
		userGroup.PUT("/me", userHandler.UpdateProfile)             // 更新头像、昵称
		userGroup.PATCH("/me/password", userHandler.ChangePassword) // 修改密码

		// 账号状态
		userGroup.POST("/deactivate", userHandler.Deactivate) // 停用账号
		userGroup.POST("/reactivate", userHandler.Reactivate) // 恢复账号

		// 账号注销流程
		userGroup.GET("/groups/created", userHandler.CreatedGroups) // 创建的群组及接收人资格
		userGroup.POST("/groups/manage", userHandler.ManageGroups)  // 暂存群组处置决定
		userGroup.DELETE("/account", userHandler.DeleteAccount)     // 注销账号

		// 个人统计与动态
		userGroup.GET("/insights", insightHandler.MyInsights) // 观影统计
		userGroup.GET("/feed", insightHandler.MyFeed)         // 个人动态
	}
}

// RegisterMovieRoutes 电影路由
func RegisterMovieRoutes(r *gin.Engine, movieHandler *handlers.MovieHandler, denylist middlewares.TokenDenylist) {
	movieGroup := r.Group("/api/movies")
	movieGroup.Use(middlewares.AuthMiddleware(denylist))
	{
		movieGroup.POST("", movieHandler.CreateMovie)             // 创建电影条目
		movieGroup.GET("", movieHandler.SearchMovies)             // 搜索电影
		movieGroup.GET("/:movie_id", movieHandler.GetMovie)       // 电影详情
		movieGroup.DELETE("/:movie_id", movieHandler.DeleteMovie) // 删除电影条目
	}
}

// RegisterWatchRoutes 观影记录路由
func RegisterWatchRoutes(r *gin.Engine, watchHandler *handlers.WatchHandler, denylist middlewares.TokenDenylist) {
	watchGroup := r.Group("/api/watches")
	watchGroup.Use(middlewares.AuthMiddleware(denylist))
	{
		watchGroup.POST("", watchHandler.LogWatch)                // 记录观影
		watchGroup.GET("", watchHandler.ListMine)                 // 我的观影记录
		watchGroup.PUT("/:watch_id", watchHandler.UpdateWatch)    // 更新记录
		watchGroup.DELETE("/:watch_id", watchHandler.DeleteWatch) // 删除记录

		// 分享
		watchGroup.POST("/:watch_id/share", watchHandler.Share)               // 分享到群组
		watchGroup.DELETE("/:watch_id/share/:group_id", watchHandler.Unshare) // 取消分享
	}
}

// RegisterGroupRoutes 群组路由
func RegisterGroupRoutes(r *gin.Engine,
	groupHandler *handlers.GroupHandler,
	watchHandler *handlers.WatchHandler,
	insightHandler *handlers.InsightHandler,
	denylist middlewares.TokenDenylist,
) {
	groupGroup := r.Group("/api/groups")
	groupGroup.Use(middlewares.AuthMiddleware(denylist))
	{
		groupGroup.POST("", groupHandler.CreateGroup)  // 创建群组
		groupGroup.GET("/mine", groupHandler.ListMine) // 我的群组列表
		groupGroup.POST("/join", groupHandler.Join)    // 加入群组 (通过邀请码)

		groupGroup.GET("/:group_id", groupHandler.GetGroup)     // 群组详情
		groupGroup.POST("/:group_id/leave", groupHandler.Leave) // 退出群组

		// 成员管理
		groupGroup.DELETE("/:group_id/members/:user_id", groupHandler.Kick)              // 移出成员
		groupGroup.PATCH("/:group_id/members/:user_id/role", groupHandler.SetMemberRole) // 设置成员角色

		// 群组内容
		groupGroup.GET("/:group_id/history", groupHandler.History)                // 成员变更历史
		groupGroup.GET("/:group_id/feed", groupHandler.Feed)                      // 群组动态
		groupGroup.GET("/:group_id/watches", watchHandler.GroupWatches)           // 群组内分享的观影
		groupGroup.GET("/:group_id/leaderboard", insightHandler.GroupLeaderboard) // 观影排行榜
	}
}
