package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/tasktrail/tasktrail-backend/internal/api/http"
	authhttp "github.com/tasktrail/tasktrail-backend/internal/auth/http"
	"github.com/tasktrail/tasktrail-backend/internal/auth/middleware"
	"github.com/tasktrail/tasktrail-backend/internal/auth/session"
	"github.com/tasktrail/tasktrail-backend/internal/projects"
	"github.com/tasktrail/tasktrail-backend/internal/tasks"
	"github.com/tasktrail/tasktrail-backend/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	Sessions    *session.Manager
	JWTSecret   []byte
	TokenTTL    time.Duration
	DB          *pgxpool.Pool
	Redis       *redis.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	guarded := middleware.RequireSession(dep.Sessions, dep.JWTSecret)

	authHandler := authhttp.New(dep.Sessions, dep.JWTSecret, dep.TokenTTL)
	authHandler.Register(api.Group("/auth"), guarded)

	// Resource CRUD is available only when postgres is wired in; the
	// auth surface alone covers the jsonfile deployment.
	if dep.DB != nil {
		userRepo := users.NewRepo(dep.DB)
		projectRepo := projects.NewRepo(dep.DB)
		taskRepo := tasks.NewRepo(dep.DB)

		usersGroup := api.Group("/users")
		usersGroup.Use(guarded)
		users.Register(usersGroup, userRepo)

		projectsGroup := api.Group("/projects")
		projectsGroup.Use(guarded)
		projects.Register(projectsGroup, projectRepo)

		tasksGroup := api.Group("/tasks")
		tasksGroup.Use(guarded)
		tasks.Register(tasksGroup, taskRepo)
	}

	return r
}
