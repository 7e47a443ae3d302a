package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/backup"
	"github.com/mseewaters/kitchen-tracker/internal/handler"
	"github.com/mseewaters/kitchen-tracker/internal/middleware"
	"github.com/mseewaters/kitchen-tracker/internal/push"
	"github.com/mseewaters/kitchen-tracker/internal/store"
	ws "github.com/mseewaters/kitchen-tracker/internal/websocket"
)

// Config carries everything the server needs beyond the database handle.
type Config struct {
	Location        *time.Location
	Backup          backup.Config
	VAPIDPublicKey  string
	VAPIDPrivateKey string
}

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	memberH       *handler.MemberHandler
	activityH     *handler.ActivityHandler
	mealH         *handler.MealHandler
	dashboardH    *handler.DashboardHandler
	settingsH     *handler.SettingsHandler
	backupH       *handler.BackupHandler
	pushH         *handler.PushHandler
	backupManager *backup.Manager
	pushScheduler *push.Scheduler
	logger        *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	memberStore := store.NewMemberStore(db)
	activityStore := store.NewActivityStore(db)
	mealStore := store.NewMealStore(db)
	settingsStore := store.NewSettingsStore(db)
	backupStore := store.NewBackupStore(db)
	pushStore := store.NewPushStore(db)

	backupMgr := backup.NewManager(cfg.Backup, db, backupStore, settingsStore, logger.With("component", "backup"))

	pushSvc := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	pushSched := push.NewScheduler(pushSvc, pushStore, activityStore, settingsStore, cfg.Location, logger.With("component", "push"))

	// The household_timezone setting overrides cfg.Location at request time.
	locale := handler.NewLocale(settingsStore, cfg.Location)

	return &Server{
		db:            db,
		hub:           hub,
		memberH:       handler.NewMemberHandler(memberStore, hub, logger.With("component", "member")),
		activityH:     handler.NewActivityHandler(activityStore, memberStore, hub, locale, logger.With("component", "activity")),
		mealH:         handler.NewMealHandler(mealStore, memberStore, hub, locale, logger.With("component", "meal")),
		dashboardH:    handler.NewDashboardHandler(activityStore, memberStore, mealStore, locale, logger.With("component", "dashboard")),
		settingsH:     handler.NewSettingsHandler(settingsStore, backupMgr, logger.With("component", "settings")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, logger.With("component", "backup_handler")),
		pushH:         handler.NewPushHandler(pushSvc, pushSched, pushStore, logger.With("component", "push_handler")),
		backupManager: backupMgr,
		pushScheduler: pushSched,
		logger:        logger,
	}
}

// BackupManager returns the backup manager for lifecycle control.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// PushScheduler returns the push scheduler for lifecycle control.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Family members
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("GET /api/members/{id}", s.memberH.Get)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)

	// Activities and completions
	mux.HandleFunc("GET /api/activities", s.activityH.List)
	mux.HandleFunc("POST /api/activities", s.activityH.Create)
	mux.HandleFunc("GET /api/activities/{id}", s.activityH.Get)
	mux.HandleFunc("PUT /api/activities/{id}", s.activityH.Update)
	mux.HandleFunc("DELETE /api/activities/{id}", s.activityH.Delete)
	mux.HandleFunc("GET /api/activities/{id}/status", s.activityH.Status)
	mux.HandleFunc("POST /api/activities/{id}/complete", s.activityH.Complete)
	mux.HandleFunc("DELETE /api/activities/{id}/complete", s.activityH.UndoComplete)
	mux.HandleFunc("GET /api/activities/{id}/completions", s.activityH.ListCompletions)
	mux.HandleFunc("DELETE /api/activities/{id}/completions/{completionID}", s.activityH.DeleteCompletion)

	// Meals
	mux.HandleFunc("GET /api/meals", s.mealH.List)
	mux.HandleFunc("POST /api/meals", s.mealH.Create)
	mux.HandleFunc("GET /api/meals/{id}", s.mealH.Get)
	mux.HandleFunc("PUT /api/meals/{id}", s.mealH.Update)
	mux.HandleFunc("DELETE /api/meals/{id}", s.mealH.Delete)
	mux.HandleFunc("POST /api/meals/{id}/delivered", s.mealH.MarkDelivered)
	mux.HandleFunc("POST /api/meals/{id}/cooked", s.mealH.MarkCooked)
	mux.HandleFunc("GET /api/meals/{id}/records", s.mealH.ListRecords)

	// Dashboard
	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Get)
	mux.HandleFunc("GET /api/dashboard/overdue", s.dashboardH.Overdue)
	mux.HandleFunc("GET /api/dashboard/trends", s.dashboardH.Trends)

	// Settings
	mux.HandleFunc("GET /api/settings/s3", s.settingsH.GetS3)
	mux.HandleFunc("PUT /api/settings/s3", s.settingsH.PutS3)
	mux.HandleFunc("GET /api/settings/backup", s.settingsH.GetBackup)
	mux.HandleFunc("PUT /api/settings/backup", s.settingsH.PutBackup)
	mux.HandleFunc("GET /api/settings/household", s.settingsH.GetHousehold)
	mux.HandleFunc("PUT /api/settings/household", s.settingsH.PutHousehold)

	// Backups
	mux.HandleFunc("POST /api/backups", s.backupH.Run)
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("POST /api/backups/{id}/restore", s.backupH.Restore)
	mux.HandleFunc("GET /api/backups/{id}/download", s.backupH.Download)

	// Push notifications
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.DeleteSubscription)
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/test", s.pushH.Test)

	// WebSocket live sync
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
