package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/leavesync/leavesync/internal/audit"
	auditdomain "github.com/leavesync/leavesync/internal/audit/domain"
	"github.com/leavesync/leavesync/internal/balance"
	balancedomain "github.com/leavesync/leavesync/internal/balance/domain"
	"github.com/leavesync/leavesync/internal/clock"
	"github.com/leavesync/leavesync/internal/config"
	"github.com/leavesync/leavesync/internal/designation"
	designationdomain "github.com/leavesync/leavesync/internal/designation/domain"
	"github.com/leavesync/leavesync/internal/draft"
	"github.com/leavesync/leavesync/internal/holiday"
	holidaydomain "github.com/leavesync/leavesync/internal/holiday/domain"
	"github.com/leavesync/leavesync/internal/notification"
	"github.com/leavesync/leavesync/internal/observability"
	obsmiddleware "github.com/leavesync/leavesync/internal/observability/logger"
	obstracing "github.com/leavesync/leavesync/internal/observability/tracing"
	"github.com/leavesync/leavesync/internal/principal"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	"github.com/leavesync/leavesync/internal/providers/email"
	"github.com/leavesync/leavesync/internal/signup"
	signupdomain "github.com/leavesync/leavesync/internal/signup/domain"
	"github.com/leavesync/leavesync/internal/tenant"
	tenantdomain "github.com/leavesync/leavesync/internal/tenant/domain"
	"github.com/leavesync/leavesync/internal/workflow"
	workflowdomain "github.com/leavesync/leavesync/internal/workflow/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	clock.Module,
	email.Module,
	notification.Module,
	draft.Module,
	audit.Module,
	tenant.Module,
	principal.Module,
	designation.Module,
	balance.Module,
	workflow.Module,
	signup.Module,
	holiday.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	genID          *snowflake.Node
	signupSvc      signupdomain.Service
	tenantSvc      tenantdomain.Service
	principalSvc   principaldomain.Service
	designationSvc designationdomain.Service
	balanceSvc     balancedomain.Service
	workflowSvc    workflowdomain.Service
	holidaySvc     holidaydomain.Service
	auditSvc       auditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	GenID          *snowflake.Node
	SignupSvc      signupdomain.Service
	TenantSvc      tenantdomain.Service
	PrincipalSvc   principaldomain.Service
	DesignationSvc designationdomain.Service
	BalanceSvc     balancedomain.Service
	WorkflowSvc    workflowdomain.Service
	HolidaySvc     holidaydomain.Service
	AuditSvc       auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		genID:          p.GenID,
		signupSvc:      p.SignupSvc,
		tenantSvc:      p.TenantSvc,
		principalSvc:   p.PrincipalSvc,
		designationSvc: p.DesignationSvc,
		balanceSvc:     p.BalanceSvc,
		workflowSvc:    p.WorkflowSvc,
		holidaySvc:     p.HolidaySvc,
		auditSvc:       p.AuditSvc,
	}

	svc.registerPublicRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPublicRoutes() {
	s.engine.POST("/v1/signup", s.Signup)
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1", s.PrincipalRequired())

	v1.GET("/me", s.Me)

	requests := v1.Group("/leave-requests")
	{
		requests.POST("", s.SubmitLeaveRequest)
		requests.GET("", s.ListMyLeaveRequests)
		requests.GET("/pending", s.ListPendingLeaveRequests)
		requests.GET("/:id", s.GetLeaveRequest)
		requests.POST("/:id/approve", s.ApproveLeaveRequest)
		requests.POST("/:id/reject", s.RejectLeaveRequest)
		requests.POST("/:id/cancel", s.CancelLeaveRequest)
	}

	v1.GET("/balances", s.ListBalances)
	v1.GET("/leave-types", s.ListLeaveTypes)
	v1.PUT("/policies", s.RequireRole(principaldomain.RoleHR), s.SetLeavePolicy)

	designations := v1.Group("/designations", s.RequireRole(principaldomain.RoleHR))
	{
		designations.GET("", s.ListDesignations)
		designations.POST("", s.AddDesignation)
	}

	v1.GET("/principals", s.RequireRole(principaldomain.RoleHR), s.ListPrincipals)
	v1.POST("/principals/:id/role", s.RequireRole(principaldomain.RoleHR), s.ChangeRole)

	v1.GET("/holidays", s.ListHolidays)
	v1.POST("/holidays", s.RequireRole(principaldomain.RoleHR), s.AddHoliday)
	v1.POST("/holidays/import", s.RequireRole(principaldomain.RoleHR), s.ImportHolidays)
	v1.GET("/workweek", s.GetWorkWeek)
	v1.PUT("/workweek", s.RequireRole(principaldomain.RoleHR), s.SetWorkWeek)

	v1.GET("/calendar", s.Calendar)
	v1.GET("/suggestions", s.ListSuggestions)

	v1.POST("/tenants/:id/verify", s.RequireRole(principaldomain.RoleAdmin), s.VerifyTenant)

	v1.GET("/audit-logs", s.RequireRole(principaldomain.RoleHR), s.ListAuditLogs)
}
