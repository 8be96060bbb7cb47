package app

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/config"
	"github.com/drstein77/storefront/internal/console"
	"github.com/drstein77/storefront/internal/controllers"
	"github.com/drstein77/storefront/internal/dbkeeper"
	"github.com/drstein77/storefront/internal/logger"
	"github.com/drstein77/storefront/internal/middleware"
	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/seed"
	"github.com/drstein77/storefront/internal/shop"
	"github.com/drstein77/storefront/internal/storage"
)

const shutdownTimeout = 5 * time.Second

var ErrHeadlessWithoutAddress = errors.New("headless mode needs a run address")

type Server struct {
	Log *logger.Logger

	option *config.Options
	ctx    context.Context

	mx  sync.Mutex
	srv *http.Server
}

// NewServer parses the options and builds the logger.
func NewServer(ctx context.Context) (*Server, error) {
	// create and initialize a new option instance
	option := config.NewOptions()
	option.ParseFlags()

	// get a new logger
	nLogger, err := logger.NewLogger(option.LogLevel(), option.LogOutput())
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}

	return &Server{
		Log:    nLogger,
		option: option,
		ctx:    ctx,
	}, nil
}

// Serve loads the catalog, starts the HTTP API when an address is set and
// runs the console menu until the user exits or the context is cancelled.
func (server *Server) Serve() error {
	defer server.Log.Sync()

	if server.option.Headless() && server.option.RunAddr() == "" {
		return ErrHeadlessWithoutAddress
	}

	products, err := server.seedProducts()
	if err != nil {
		return err
	}

	var keeper storage.Keeper
	if server.option.DataBaseDSN() != "" {
		kp, err := dbkeeper.NewDBKeeper(server.ctx, server.option.DataBaseDSN, server.Log.With(zap.String("component", "dbkeeper")))
		if err != nil {
			return errors.Wrap(err, "open database")
		}
		keeper = kp
	}

	store, err := storage.NewMemoryStorage(server.ctx, keeper, server.Log, products)
	if err != nil {
		if keeper != nil {
			keeper.Close()
		}
		return errors.Wrap(err, "load catalog")
	}
	defer store.Close()

	if addr := server.option.RunAddr(); addr != "" {
		// create router and mount routes
		r := chi.NewRouter()
		r.Use(chimw.Recoverer)
		httpLog := server.Log.With(zap.String("component", "http"))
		r.Use(middleware.RequestLogger(httpLog))
		r.Mount("/", controllers.NewBaseController(store, httpLog).Route())

		// configure and start the server
		server.startServer(r, addr)
		defer server.Shutdown(shutdownTimeout)
	}

	if server.option.Headless() {
		<-server.ctx.Done()
		return nil
	}

	consoleLog := server.Log.With(zap.String("component", "console"))
	session := shop.NewSession(store, consoleLog)
	err = console.New(os.Stdin, os.Stdout, consoleLog).Run(server.ctx, session)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (server *Server) seedProducts() ([]models.Product, error) {
	path := server.option.SeedFile()
	if path == "" {
		return seed.Default(), nil
	}
	products, err := seed.LoadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load seed file %s", path)
	}
	server.Log.Info("seed file loaded", zap.String("path", path), zap.Int("count", len(products)))
	return products, nil
}

func (server *Server) startServer(h http.Handler, addr string) {
	srv := &http.Server{
		Addr:    addr,
		Handler: h,
	}

	server.mx.Lock()
	server.srv = srv
	server.mx.Unlock()

	go func() {
		server.Log.Info("HTTP API listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Log.Error("HTTP server failed", zap.Error(err))
		}
	}()
}

// Shutdown stops the HTTP API, waiting up to timeout for requests in flight.
func (server *Server) Shutdown(timeout time.Duration) {
	server.mx.Lock()
	srv := server.srv
	server.srv = nil
	server.mx.Unlock()

	if srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		server.Log.Error("HTTP server shutdown failed", zap.Error(err))
		return
	}
	server.Log.Info("HTTP server stopped")
}
