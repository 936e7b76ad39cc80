package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/dsicola/academico-api/api/swagger"
	"github.com/dsicola/academico-api/internal/handler"
	"github.com/dsicola/academico-api/internal/middleware"
	"github.com/dsicola/academico-api/internal/models"
	"github.com/dsicola/academico-api/internal/repository"
	"github.com/dsicola/academico-api/internal/service"
	"github.com/dsicola/academico-api/pkg/cache"
	"github.com/dsicola/academico-api/pkg/config"
	"github.com/dsicola/academico-api/pkg/database"
	"github.com/dsicola/academico-api/pkg/logger"
	corsmiddleware "github.com/dsicola/academico-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dsicola/academico-api/pkg/middleware/requestid"
)

// @title Academico API
// @version 0.1.0
// @description Eligibility validation and official-document derivation
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, verification cache disabled", zap.Error(err))
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	institutionRepo := repository.NewInstitutionRepository(db)
	annualRepo := repository.NewAnnualEnrollmentRepository(db)
	classEnrollRepo := repository.NewClassEnrollmentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	planRepo := repository.NewTeachingPlanRepository(db)
	subjectEnrollRepo := repository.NewSubjectEnrollmentRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	blockRepo := repository.NewAcademicBlockRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)

	auditSvc := service.NewAuditService(auditRepo, logr)
	attendanceSvc := service.NewAttendanceService(lessonRepo, cfg.Academic.FrequenciaMinima, logr)
	gradeSvc := service.NewGradeService(assessmentRepo, attendanceSvc, cfg.Academic.MediaMinima, logr)
	enrollmentSvc := service.NewEnrollmentService(studentRepo, institutionRepo, annualRepo, subjectRepo, sectionRepo, classEnrollRepo, planRepo, subjectEnrollRepo, auditSvc, validate, logr)
	documentSvc := service.NewDocumentService(studentRepo, institutionRepo, blockRepo, planRepo, subjectRepo, gradeSvc, auditSvc, logr)
	reportCardSvc := service.NewReportCardService(documentSvc, annualRepo, planRepo, subjectRepo, lessonRepo, assessmentRepo, gradeSvc, auditSvc, logr)
	gradesheetSvc := service.NewGradesheetService(institutionRepo, planRepo, subjectRepo, classEnrollRepo, lessonRepo, assessmentRepo, gradeSvc, blockRepo, auditSvc, logr)
	certificateSvc := service.NewCertificateService(documentSvc, completionRepo, referenceRepo, redisClient, cfg.Academic.VerificationBaseURL, cfg.Academic.VerificationCacheTTL, auditSvc, logr)
	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret}, logr)
	metricsSvc := service.NewMetricsService()

	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, metricsSvc)
	documentHandler := handler.NewDocumentHandler(documentSvc, reportCardSvc, gradesheetSvc, certificateSvc, metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// Certificate verification is public: the code is the credential.
	api.GET("/certificados/verificar/:codigo", documentHandler.Verify)

	protected := api.Group("", middleware.JWT(authSvc))

	staff := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleSecretaria)
	staffOrSelf := middleware.RBAC(
		string(models.RoleSuperAdmin), string(models.RoleAdmin), string(models.RoleSecretaria), "SELF")
	staffOrProfessor := middleware.RequireRoles(
		models.RoleSuperAdmin, models.RoleAdmin, models.RoleSecretaria, models.RoleProfessor)

	protected.POST("/inscricoes", staff, enrollmentHandler.Create)
	protected.POST("/inscricoes/lote", staff, enrollmentHandler.CreateBulk)
	protected.DELETE("/inscricoes/:id", staff, enrollmentHandler.Delete)

	protected.GET("/alunos/:alunoId/historico", staffOrSelf, documentHandler.Transcript)
	protected.GET("/alunos/:alunoId/boletim/:anoLetivoId", staffOrSelf, documentHandler.ReportCard)
	protected.GET("/alunos/:alunoId/certificado", staffOrSelf, documentHandler.Certificate)
	protected.GET("/planos-ensino/:planoEnsinoId/pauta", staffOrProfessor, documentHandler.Gradesheet)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
