package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/tasktrail/tasktrail-backend/config"
	"github.com/tasktrail/tasktrail-backend/internal/auth/session"
	"github.com/tasktrail/tasktrail-backend/internal/auth/store"
	"github.com/tasktrail/tasktrail-backend/internal/bootstrap"
	"github.com/tasktrail/tasktrail-backend/internal/reminders"
	"github.com/tasktrail/tasktrail-backend/internal/tasks"
)

const serviceName = "tasktrail-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	var db *pgxpool.Pool
	if cfg.Auth.StoreBackend == "postgres" {
		db, err = bootstrap.OpenDB(ctx, bootstrap.DBOptions{
			DSN: bootstrap.DSN(cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name),
		})
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()
	}

	var rdb *redis.Client
	if cfg.Auth.SessionBackend == "redis" {
		rdb, err = bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
	}

	var credStore store.CredentialStore
	if db != nil {
		credStore = store.NewPostgresStore(db)
	} else {
		credStore, err = store.NewJSONFileStore(cfg.Auth.AccountsFile)
		if err != nil {
			log.Fatalf("credential store: %v", err)
		}
	}

	var slot session.Slot
	if rdb != nil {
		slot = session.NewRedisSlot(rdb, cfg.Auth.SessionTTL)
	} else {
		slot = session.NewJSONFileSlot(cfg.Auth.SessionFile)
	}

	sessions := session.NewManager(ctx, credStore, slot)
	if sessions.Authenticated() {
		log.Printf("Restored session for %s", sessions.Current().Email)
	}

	if db != nil {
		sched := reminders.NewScheduler(tasks.NewRepo(db), cfg.App.ReminderWindow)
		sched.Start(cfg.App.ReminderSchedule)
		defer sched.Stop()
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		CORSOrigins: cfg.App.CORSOrigins,
		Sessions:    sessions,
		JWTSecret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL:    cfg.Auth.TokenTTL,
		DB:          db,
		Redis:       rdb,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
