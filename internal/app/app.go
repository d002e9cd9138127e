package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"taskBoard/internal/config"
	"taskBoard/internal/handlers"
	"taskBoard/internal/logger"
	"taskBoard/internal/middleware"
	"taskBoard/internal/repository"
	"taskBoard/internal/repository/inmemory"
	"taskBoard/internal/repository/postgres"
	"taskBoard/internal/service"
	"taskBoard/internal/worker"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	tasks     repository.TaskRepository
	reminders repository.ReminderRepository
	worker    *worker.ReminderWorker
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {

	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initRepositories(ctx); err != nil {
		return err
	}

	taskService := service.NewTaskService(a.tasks, a.reminders)
	reminderService := service.NewReminderService(a.reminders, a.tasks)

	taskHandler := handlers.NewTaskHandler(&taskService)
	reminderHandler := handlers.NewReminderHandler(&reminderService)

	a.router = buildRouter(&taskHandler, &reminderHandler)
	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}

	if a.config.Worker.Enabled {
		a.worker = worker.NewReminderWorker(a.reminders, a.config.Worker.Interval, a.config.Worker.BatchSize)
	}

	return nil
}

func (a *App) initRepositories(ctx context.Context) error {
	switch a.config.Repository.Type {
	case "postgres":
		pool, err := postgres.Connect(ctx, a.config.Database)
		if err != nil {
			return fmt.Errorf("подключение к PostgreSQL: %w", err)
		}

		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие соединений PostgreSQL...")
			pool.Close()
		})

		a.tasks = postgres.NewTaskStorage(pool)
		a.reminders = postgres.NewReminderStorage(pool)

	case "inmemory":
		a.tasks = inmemory.NewTaskStorage()
		a.reminders = inmemory.NewReminderStorage()

	default:
		return fmt.Errorf("неизвестный тип репозитория: %q", a.config.Repository.Type)
	}

	return nil
}

// блокируется до SIGINT/SIGTERM, затем graceful shutdown
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.worker != nil {
		go a.worker.Start(ctx)
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен: " + a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			a.runShutdowns()
			return fmt.Errorf("работа сервера: %w", err)
		}
	case <-stop:
		logger.Info("Получен сигнал завершения, останавливаемся...")
	}

	cancel() // останавливает воркер

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.runShutdowns()
		return fmt.Errorf("остановка сервера: %w", err)
	}

	a.runShutdowns()
	return nil
}

func (a *App) runShutdowns() {
	// в обратном порядке: логгер закрывается последним
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

func buildRouter(taskHandler *handlers.TaskHandler, reminderHandler *handlers.ReminderHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.RateLimit(100))

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {

			r.Get("/", taskHandler.ListTasks) // GET /api/tasks
			r.Post("/", taskHandler.PostTask) // POST /api/tasks

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTaskByID)       // GET /api/tasks/{id}
				r.Put("/", taskHandler.UpdateTaskByID)    // PUT /api/tasks/{id}
				r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /api/tasks/{id}

				r.Route("/subtasks", func(r chi.Router) {
					r.Post("/", taskHandler.PostSubtask) // POST /api/tasks/{id}/subtasks

					r.Route("/{subtaskID}", func(r chi.Router) {
						r.Put("/", taskHandler.UpdateSubtaskByID)    // PUT /api/tasks/{id}/subtasks/{subtaskID}
						r.Delete("/", taskHandler.DeleteSubtaskByID) // DELETE /api/tasks/{id}/subtasks/{subtaskID}
					})
				})
			})
		})

		r.Route("/reminders", func(r chi.Router) {
			r.Get("/", reminderHandler.ListReminders) // GET /api/reminders
			r.Post("/", reminderHandler.PostReminder) // POST /api/reminders

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", reminderHandler.GetReminderByID)       // GET /api/reminders/{id}
				r.Delete("/", reminderHandler.DeleteReminderByID) // DELETE /api/reminders/{id}
			})
		})

		r.Get("/stats", taskHandler.GetStats) // GET /api/stats
	})

	r.Get("/health", taskHandler.HealthCheck)

	return r
}
