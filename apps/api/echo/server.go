package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/user"
)

type Options struct {
	Conf           *core.Config
	Logger         core.Logger
	UserSvc        *user.Service
	Repos          school.Repositories
	DisableReqLogs bool
}

type Server struct {
	opts     Options
	app      *echo.Echo
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(opts Options) *Server {
	s := &Server{
		opts:     opts,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	jwt := jwtMiddleware(conf)

	registerUserAPI(v1, jwt, conf, s.opts.UserSvc)
	registerSchoolAPI(v1.Group("", jwt), s.opts.Repos)
}

// Start listens on the configured address; failures are reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.opts.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks the owner of the Server to shut it down gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.opts.Conf.AppName+" API!")
}
