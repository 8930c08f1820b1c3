package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursepilot/backend/config"
	"coursepilot/backend/internal/api/handler"
	"coursepilot/backend/internal/api/middleware"
	"coursepilot/backend/pkg/jwt"
	"coursepilot/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录/注册限流防爆破）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/profile", h.Auth.GetProfile)

			// 学期模块
			terms := authorized.Group("/terms")
			{
				terms.GET("", h.Term.ListTerms)
				terms.GET("/:id", h.Term.GetTerm)
				terms.POST("", h.Term.CreateTerm)
				terms.PUT("/:id", h.Term.UpdateTerm)
				terms.DELETE("/:id", h.Term.DeleteTerm)
			}

			// 课程模块
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.ListCourses)
				courses.GET("/:id", h.Course.GetCourse)
				courses.POST("", h.Course.CreateCourse)
				courses.PUT("/:id", h.Course.UpdateCourse)
				courses.PUT("/:id/schedule", h.Course.UpdateCourseSchedule)
				courses.DELETE("/:id", h.Course.DeleteCourse)

				// 课程下的课次与作业
				courses.GET("/:id/lectures", h.Lecture.ListLectures)
				courses.GET("/:id/assignments", h.Assignment.ListAssignments)
				courses.POST("/:id/assignments", h.Assignment.CreateAssignment)
			}

			// 课次模块
			lectures := authorized.Group("/lectures")
			{
				lectures.GET("/:id", h.Lecture.GetLecture)
				lectures.PUT("/:id", h.Lecture.UpdateLecture)
				lectures.DELETE("/:id", h.Lecture.DeleteLecture)

				lectures.POST("/:id/notes", h.Lecture.AddNote)
				lectures.PUT("/:id/notes/:noteId", h.Lecture.UpdateNote)
				lectures.DELETE("/:id/notes/:noteId", h.Lecture.DeleteNote)

				lectures.POST("/:id/files", h.Lecture.AddFile)
				lectures.DELETE("/:id/files/:fileId", h.Lecture.DeleteFile)

				lectures.POST("/:id/tasks", h.Lecture.AddTask)
				lectures.PUT("/:id/tasks/:taskId/toggle", h.Lecture.ToggleTask)
				lectures.DELETE("/:id/tasks/:taskId", h.Lecture.DeleteTask)
			}

			// 作业模块（跨课程）
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("/upcoming", h.Assignment.ListUpcomingAssignments)
				assignments.PUT("/:id", h.Assignment.UpdateAssignment)
				assignments.DELETE("/:id", h.Assignment.DeleteAssignment)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/courses/:id/schedule", h.Export.ExportCourseSchedule)
				export.GET("/calendar", h.Export.ExportCalendar)
			}
		}
	}

	return r
}
