package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"listmonk-resubscriber/internal/config"
	"listmonk-resubscriber/internal/logging"
	"listmonk-resubscriber/internal/middleware"
	"listmonk-resubscriber/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

// App serves the trigger API.
type App struct {
	asynqClient tasks.TaskEnqueuer
	log         logrus.FieldLogger
}

func main() {
	envErr := config.LoadEnv()
	logger := logging.NewLogger()
	if envErr != nil {
		logger.Println("Error loading .env file")
	}

	cfg := config.Load()

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer client.Close()

	app := &App{asynqClient: client, log: logger}

	logger.Printf("Starting server on :%s (commit: %s)", cfg.Port, CommitSHA)
	if err := http.ListenAndServe(":"+cfg.Port, app.routes(cfg.TriggerToken)); err != nil {
		logger.Fatal(err)
	}
}

func (a *App) routes(triggerToken string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", a.healthHandler).Methods(http.MethodGet)

	// A manual run every few seconds is plenty.
	limiter := middleware.NewRateLimiterMiddleware(rate.Limit(0.2), 2, a.log)

	auth := middleware.TokenAuth(triggerToken, a.log)
	r.Handle("/runs", auth(limiter.Middleware(http.HandlerFunc(a.postRunHandler)))).Methods(http.MethodPost)
	return r
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

func (a *App) postRunHandler(w http.ResponseWriter, r *http.Request) {
	dryRun := r.URL.Query().Get("dry_run") == "true"

	task, err := tasks.NewResubscribeTask(tasks.ResubscribeTaskPayload{DryRun: dryRun, Source: "api"})
	if err != nil {
		a.log.Errorf("could not create task: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	info, err := a.asynqClient.Enqueue(task)
	if err != nil {
		a.log.Errorf("could not enqueue task: %v", err)
		http.Error(w, "Failed to enqueue run", http.StatusInternalServerError)
		return
	}

	a.log.Infof("Enqueued resubscribe run %s (dry run: %t)", info.ID, dryRun)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{"task_id": info.ID, "dry_run": dryRun})
}
