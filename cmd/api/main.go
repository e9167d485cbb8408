package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/config"
	"github.com/rbaliester/flowdesk/internal/infra/database"
	"github.com/rbaliester/flowdesk/internal/infra/http/handlers"
	"github.com/rbaliester/flowdesk/internal/infra/http/middleware"
	"github.com/rbaliester/flowdesk/internal/infra/mail"
	"github.com/rbaliester/flowdesk/internal/infra/queue"
	"github.com/rbaliester/flowdesk/internal/usecase"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()

	pipelineCfg, err := config.LoadPipelineConfig(cfg.PipelineFile)
	if err != nil {
		log.Fatal("pipeline config", zap.Error(err))
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection", zap.Error(err))
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		log.Fatal("rabbitmq connection", zap.Error(err))
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// Repositories
	taskRepo := database.NewTaskRepository(db)
	boardRepo := database.NewBoardRepository(db)
	userRepo := database.NewUserRepository(db)
	activityRepo := database.NewActivityRepository(db)

	// Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)

	// Pipeline components
	workspace := usecase.NewWorkspace(boardRepo, pipelineCfg.BoardTitles, log)
	resolver := usecase.NewContactResolver(taskRepo, workspace, log)
	classifier := usecase.NewClassifier(pipelineCfg)
	assigner := usecase.NewAssignmentEngine(userRepo, taskRepo, log)

	processUC := usecase.NewProcessInboundEmailUseCase(
		taskRepo, activityRepo, workspace, resolver, classifier, assigner, mailSender, log,
	)
	manualAssignUC := usecase.NewManualAssignUseCase(taskRepo, userRepo, assigner, workspace, activityRepo, log)
	qualifyUC := usecase.NewQualifyLeadUseCase(taskRepo, workspace, activityRepo, log)

	// Worker: consumes parsed inbound emails and runs the pipeline.
	worker := queue.NewWorker(rabbitMQ.Ch, processUC, log)
	go func() {
		if err := worker.Start(queue.QueueName); err != nil {
			log.Fatal("worker", zap.Error(err))
		}
	}()

	// Handlers
	inboundHandler := handlers.NewInboundEmailHandler(producer, log)
	assignmentHandler := handlers.NewAssignmentHandler(manualAssignUC)
	qualificationHandler := handlers.NewQualificationHandler(qualifyUC)
	taskHandler := handlers.NewTaskHandler(taskRepo, activityRepo, log)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, cfg.MailHost)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/inbound/emails", inboundHandler.Handle)
	r.Post("/tasks/{taskID}/assign", assignmentHandler.Handle)
	r.Post("/leads/{taskID}/qualify", qualificationHandler.Handle)
	r.Get("/tasks/{taskID}", taskHandler.HandleGet)
	r.Get("/tasks/{taskID}/activities", taskHandler.HandleActivities)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.Port
	log.Info("inquiry engine listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal("http server", zap.Error(err))
	}
}
