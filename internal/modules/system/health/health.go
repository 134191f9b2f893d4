package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sacred-word/core/internal/pkg/cron"
	"github.com/sacred-word/core/internal/pkg/response"
	"gorm.io/gorm"
)

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, sched *cron.Scheduler, authMW gin.HandlerFunc) {
	rg.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		dbOK := err == nil && sqlDB.Ping() == nil

		status := "ok"
		code := http.StatusOK
		if !dbOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":   status,
			"database": dbOK,
		})
	})

	cronGroup := rg.Group("/health/cron", authMW)
	{
		cronGroup.GET("", func(c *gin.Context) {
			response.OK(c, sched.Snapshot())
		})

		cronGroup.POST("/run/:name", func(c *gin.Context) {
			if err := sched.Trigger(c.Param("name")); err != nil {
				response.NotFoundMsg(c, err.Error())
				return
			}
			response.OK(c, gin.H{"message": "job triggered"})
		})

		cronGroup.GET("/task/:name", func(c *gin.Context) {
			info, ok := sched.Info(c.Param("name"))
			if !ok {
				response.NotFoundMsg(c, "job not found")
				return
			}
			response.OK(c, info)
		})
	}
}
