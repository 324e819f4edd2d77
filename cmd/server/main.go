package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/iliyamo/filmorate/internal/config"
	"github.com/iliyamo/filmorate/internal/database"
	"github.com/iliyamo/filmorate/internal/handler"
	"github.com/iliyamo/filmorate/internal/logging"
	"github.com/iliyamo/filmorate/internal/memstore"
	"github.com/iliyamo/filmorate/internal/middleware"
	"github.com/iliyamo/filmorate/internal/queue"
	"github.com/iliyamo/filmorate/internal/repository"
	"github.com/iliyamo/filmorate/internal/router"
	"github.com/iliyamo/filmorate/internal/service"
)

// stores bundles one storage backend's implementations.
type stores struct {
	films   service.FilmStore
	users   service.UserStore
	genres  service.GenreStore
	ratings service.RatingStore
	db      *sql.DB // nil for the memory backend
}

func main() {
	config.LoadDotEnv(".")
	cfg, err := config.Load()
	if err != nil {
		l := logging.New(logging.Config{})
		l.Fatal().Err(err).Msg("config")
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	st, err := openStores(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage).Msg("storage init failed")
	}
	if st.db != nil {
		defer st.db.Close()
	}

	// A nil interface, not a typed nil pointer, keeps publishing off.
	var events service.EventPublisher
	if cfg.Events.Enabled {
		events = queue.NewPublisher(cfg.Events.URL, cfg.Events.Queue, log)
		log.Info().Str("queue", cfg.Events.Queue).Msg("activity events enabled")
	}

	filmSvc := service.NewFilmService(st.films, st.users, events, log)
	userSvc := service.NewUserService(st.users, events, log)
	lookupSvc := service.NewLookupService(st.genres, st.ratings)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	rdb := config.NewRedisClient(config.LoadRedisConfig(), log)
	if rdb != nil {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.NewMetrics(reg).Middleware())
	e.Use(middleware.NewTokenBucket(cfg.RateLimit, rdb, log))

	h := router.Handlers{
		Films:    handler.NewFilmHandler(filmSvc, log),
		Users:    handler.NewUserHandler(userSvc, log),
		Lookups:  handler.NewLookupHandler(lookupSvc, log),
		Gatherer: reg,
	}
	if st.db != nil {
		h.DB = st.db
	}
	router.RegisterRoutes(e, h)

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("storage", cfg.Storage).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func openStores(cfg config.Config, log zerolog.Logger) (stores, error) {
	if cfg.Storage == config.StorageMemory {
		s := memstore.New()
		return stores{films: s.Films(), users: s.Users(), genres: s.Genres(), ratings: s.Ratings()}, nil
	}

	var (
		db      *sql.DB
		dialect string
		err     error
	)
	switch cfg.Storage {
	case config.StorageMySQL:
		dialect = database.DialectMySQL
		db, err = database.OpenMySQL(cfg.DB.User, cfg.DB.Pass, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
	default:
		dialect = database.DialectSQLite
		db, err = database.OpenSQLite(cfg.SQLitePath)
	}
	if err != nil {
		return stores{}, err
	}
	if cfg.MigrateOnStart {
		if err := database.Migrate(db, dialect, log); err != nil {
			_ = db.Close()
			return stores{}, err
		}
	}
	return stores{
		films:   repository.NewFilmRepo(db),
		users:   repository.NewUserRepo(db),
		genres:  repository.NewGenreRepo(db),
		ratings: repository.NewRatingRepo(db),
		db:      db,
	}, nil
}
