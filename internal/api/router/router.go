package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grvup/classroom/config"
	"github.com/grvup/classroom/internal/api/handler"
	"github.com/grvup/classroom/internal/api/middleware"
	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/view"
	"github.com/grvup/classroom/pkg/redis"
	"github.com/grvup/classroom/pkg/session"
)

// Setup builds the gin engine with every route. rdb may be nil, which
// disables rate limiting.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	sessions *session.Manager,
	auth middleware.Authenticator,
	rdb *redis.Client,
	logger *zap.Logger,
) (*gin.Engine, error) {
	tmpl, err := view.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	// ── Global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders(cfg.Auth.Cookie.Secure))
	r.Use(middleware.BodyLimit(cfg.Server.MaxFormBytes, cfg.Server.MaxUploadBytes))

	r.NoRoute(h.Page.NotFound)

	// ── Probes ──
	r.GET("/health", h.Page.Health)
	r.GET("/metrics", middleware.MetricsHandler())

	sessionAuth := middleware.SessionAuth(sessions, auth, logger)
	optionalAuth := middleware.OptionalAuth(sessions, auth, logger)
	loginLimit := middleware.RateLimit(rdb, cfg.Redis.LoginRateLimit, cfg.Redis.LoginRateWindow, logger)

	// ── Public pages ──
	r.GET("/intro", h.Page.Static("intro"))
	r.GET("/livestream", h.Page.Static("livestream"))
	r.GET("/troll", h.Page.Static("troll"))

	// ── Authentication ──
	r.GET("/signup", optionalAuth, h.Auth.ShowSignup)
	r.POST("/signup", loginLimit, h.Auth.Signup)
	r.GET("/login", optionalAuth, h.Auth.ShowLogin)
	r.POST("/login", loginLimit, h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	// ── Session required ──
	authorized := r.Group("")
	authorized.Use(sessionAuth)
	{
		authorized.GET("/", h.Page.Home)

		authorized.POST("/addclass", h.Class.AddClass)
		authorized.POST("/addstudent/:classid", h.Class.AddStudent)
		authorized.POST("/addlesson/:classid", h.Class.AddLesson)

		class := authorized.Group("/class/:classid")
		{
			class.GET("", h.Class.ShowClass)
			class.GET("/lesson/:lessonid", h.Class.ShowLesson)
			class.POST("/lesson/:lessonid", h.Class.MarkAttendance)
			class.GET("/student/:studentid", h.Class.ShowStudent)
			class.DELETE("/student/:studentid", h.Class.RemoveStudent)
			class.GET("/student/:studentid/image", h.Class.StudentImage)
			class.GET("/export/attendance.xlsx", h.Export.AttendanceSheet)
			class.GET("/lessons.ics", h.Export.LessonCalendar)
		}

		accounts := authorized.Group("/accounts")
		accounts.Use(middleware.RoleAuth(model.PrincipalOnly...))
		{
			accounts.GET("/new", h.Account.ShowNewAccount)
			accounts.POST("/new", h.Account.CreateAccount)
		}
	}

	return r, nil
}
