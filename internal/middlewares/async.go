package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/scenestack/scenestack/internal/utils"
)

// AsyncMiddleware 异步处理中间件
// 将请求的处理逻辑提交到 Worker Pool 中执行，而不是在 Gin 分配的 Goroutine 中直接执行，
// 从而严格控制并发处理的请求数量，防止数据库密集型操作导致系统过载。
func AsyncMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 如果没有初始化 Worker Pool，直接降级为同步执行
		if utils.GlobalWorkerPool == nil {
			c.Next()
			return
		}

		done := make(chan struct{})

		// 主 Goroutine 阻塞等待 (<-done)，所以同一时间只有一个
		// Goroutine (Worker) 在操作 c，闭包捕获 gin.Context 是安全的
		task := func() {
			defer close(done)
			c.Next()
		}

		// 队列满时 Submit 会阻塞，请求排队等待而不是被拒绝
		utils.GlobalWorkerPool.Submit(task)

		<-done
	}
}
