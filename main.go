package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecoSparkAPI/handlers"
	"ecoSparkAPI/internal/migrate"
	"ecoSparkAPI/internal/session"
	"ecoSparkAPI/middleware"
	"ecoSparkAPI/services"
)

var (
	dbPool           *pgxpool.Pool
	sessionStore     *session.Store
	userService      *services.UserService
	challengeService *services.ChallengeService
	centerService    *services.CenterService
	creditService    *services.CreditService
	pickupService    *services.PickupService
	collectorService *services.CollectorService
	advisorService   *services.AdvisorService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable is not set")
	}
	sessionStore = session.NewStore(sessionSecret)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrate.Up(ctx, dbURL); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	log.Println("Migrations applied")

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to Postgres")

	userService = services.NewUserService(dbPool)
	challengeService = services.NewChallengeService(dbPool)
	centerService = services.NewCenterService(dbPool)
	creditService = services.NewCreditService(dbPool)
	pickupService = services.NewPickupService(dbPool)
	collectorService = services.NewCollectorService(dbPool)
	advisorService = services.NewAdvisorService()

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, challengeService, sessionStore)
	challengeHandler := handlers.NewChallengeHandler(challengeService, sessionStore)
	centerHandler := handlers.NewCenterHandler(centerService)
	creditHandler := handlers.NewCreditHandler(creditService)
	pickupHandler := handlers.NewPickupHandler(pickupService)
	collectorHandler := handlers.NewCollectorHandler(collectorService, advisorService)
	advisorHandler := handlers.NewAdvisorHandler(advisorService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "ecospark-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	// -------------------------------------------------------------------------
	// PUBLIC ROUTES (AUTH OPTIONAL)
	// -------------------------------------------------------------------------
	// Challenges and credit estimates serve anonymous visitors too; the
	// session cookie stands in for identity until login.
	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuthMiddleware)

	public.HandleFunc("/challenges", challengeHandler.GetBoard).Methods("GET")
	public.HandleFunc("/challenges/complete", challengeHandler.CompleteChallenge).Methods("POST")
	public.HandleFunc("/challenges/{id:[0-9]+}/completed", challengeHandler.IsCompleted).Methods("GET")

	public.HandleFunc("/centers", centerHandler.GetCenters).Methods("GET")
	public.HandleFunc("/centers/nearby", centerHandler.FindNearby).Methods("GET")

	public.HandleFunc("/credits/estimate", creditHandler.Estimate).Methods("POST")

	public.HandleFunc("/pickups", pickupHandler.CreatePickup).Methods("POST")

	public.HandleFunc("/collectors", collectorHandler.Directory).Methods("GET")
	public.HandleFunc("/collectors/nominate", collectorHandler.Nominate).Methods("POST")

	public.HandleFunc("/education/explain", advisorHandler.ExplainTopic).Methods("POST")
	public.HandleFunc("/education/hazard", advisorHandler.ExplainHazard).Methods("POST")
	public.HandleFunc("/education/tips", advisorHandler.DailyTip).Methods("GET")
	public.HandleFunc("/education/quiz", advisorHandler.GenerateQuiz).Methods("GET")
	public.HandleFunc("/education/quiz/score", advisorHandler.ScoreQuiz).Methods("POST")

	public.HandleFunc("/advisor/decision", advisorHandler.Decide).Methods("POST")
	public.HandleFunc("/advisor/reuse", advisorHandler.ReuseAdvice).Methods("POST")
	public.HandleFunc("/estimator/value", advisorHandler.EstimateValue).Methods("POST")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/sync", userHandler.SyncSession).Methods("POST")
	protected.HandleFunc("/user/delete-account", userHandler.DeleteAccount).Methods("DELETE")
	protected.HandleFunc("/credits/balance", creditHandler.GetBalance).Methods("GET")
	protected.HandleFunc("/centers", centerHandler.CreateCenter).Methods("POST")
	protected.HandleFunc("/devices", creditHandler.CreateDevice).Methods("POST")
	protected.HandleFunc("/pickups", pickupHandler.ListPickups).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
