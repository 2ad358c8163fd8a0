package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/Eyemetric/parking_service/internal/api/entry"
	"github.com/Eyemetric/parking_service/internal/api/exit"
	"github.com/Eyemetric/parking_service/internal/api/params"
	"github.com/Eyemetric/parking_service/internal/clock"
	"github.com/Eyemetric/parking_service/internal/config"
	"github.com/Eyemetric/parking_service/internal/logger"
	"github.com/Eyemetric/parking_service/internal/metrics"
	"github.com/Eyemetric/parking_service/internal/repository"
	"github.com/Eyemetric/parking_service/internal/ticket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	Config   config.Config
	Echo     *echo.Echo
	Repo     repository.TicketRepository
	Entry    *entry.Service
	Exit     *exit.Service
	Log      logger.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	closers  []func()
}

type ErrorRes struct {
	Error string `json:"error"`
}

// messages sent back for client errors. Anything not listed is a 500 that
// echoes the underlying error text.
var clientErrors = []struct {
	err    error
	status int
	msg    string
	kind   string
}{
	{ticket.ErrMissingParameters, http.StatusBadRequest, "Missing required parameters: plate and parkingLot", "missing_parameters"},
	{ticket.ErrMissingTicketID, http.StatusBadRequest, "Missing required parameter: ticketId", "missing_parameters"},
	{ticket.ErrTicketNotFound, http.StatusNotFound, "Ticket not found", "not_found"},
	{ticket.ErrTicketAlreadyUsed, http.StatusBadRequest, "Ticket already used", "already_used"},
}

func initApp() *App {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("unable to load config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("unable to build logger: %v", err)
	}

	zl.Info("------------- starting application ------------",
		"backend", cfg.StoreBackend,
		"table", cfg.TicketsTable,
		"conditionalExit", cfg.ConditionalExit)

	ctx := context.Background()
	repo, closer, err := openRepository(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("unable to open ticket store", "backend", cfg.StoreBackend, "error", err)
	}

	m := metrics.New("parking", prometheus.DefaultRegisterer)
	fees := ticket.FeeSchedule{IncrementMinutes: cfg.FeeIncrementMinutes, Rate: cfg.FeeRate}

	app := newApp(repo, clock.Real(), fees, zl, m, prometheus.DefaultGatherer)
	app.Config = cfg
	app.Exit.Conditional = cfg.ConditionalExit
	app.closers = append(app.closers, closer, func() { _ = zl.Sync() })
	return app
}

// newApp wires the services and routes around an already opened store.
func newApp(repo repository.TicketRepository, clk clock.Clock, fees ticket.FeeSchedule,
	lg logger.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *App {

	e := echo.New()
	e.HideBanner = true

	app := &App{
		Echo:     e,
		Repo:     repo,
		Entry:    entry.NewService(repo, clk, lg, m),
		Exit:     exit.NewService(repo, clk, fees, lg, m),
		Log:      lg,
		Metrics:  m,
		Gatherer: gatherer,
	}

	registerRoutes(app)
	return app
}

func registerRoutes(app *App) {
	app.Echo.GET("/health", app.health)
	app.Echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(app.Gatherer, promhttp.HandlerOpts{})))

	http_api := app.Echo.Group("/api")
	//entry and exit take query params, a json body, or both, so any method works
	http_api.Match([]string{http.MethodGet, http.MethodPost}, "/parking/v1/entry", app.handleEntry)
	http_api.Match([]string{http.MethodGet, http.MethodPost}, "/parking/v1/exit", app.handleExit)
	http_api.GET("/parking/v1/tickets/:ticketId", app.getTicket)
}

func (app *App) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// readBody never fails the request: an unreadable body is treated like an
// absent one and validation reports what is missing.
func readBody(c echo.Context) []byte {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil
	}
	return body
}

func (app *App) handleEntry(c echo.Context) error {

	in, err := params.ParseEntry(c.QueryParams(), readBody(c))
	if err != nil {
		return app.fail(c, "entry", err)
	}

	res, err := app.Entry.Enter(c.Request().Context(), in)
	if err != nil {
		return app.fail(c, "entry", err)
	}

	return c.JSON(http.StatusOK, res)
}

func (app *App) handleExit(c echo.Context) error {

	in, err := params.ParseExit(c.QueryParams(), readBody(c))
	if err != nil {
		return app.fail(c, "exit", err)
	}

	res, err := app.Exit.Exit(c.Request().Context(), in)
	if err != nil {
		return app.fail(c, "exit", err)
	}

	return c.JSON(http.StatusOK, res)
}

// getTicket returns the stored record as persisted.
func (app *App) getTicket(c echo.Context) error {

	t, err := app.Repo.GetTicket(c.Request().Context(), c.Param("ticketId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ticket.ErrTicketNotFound
		}
		return app.fail(c, "get", err)
	}

	return c.JSON(http.StatusOK, t.Record())
}

// fail maps an operation error onto a status code and the {"error": ...} body.
func (app *App) fail(c echo.Context, op string, err error) error {
	lg := app.Log.With("operation", op)
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			app.Metrics.Errors.WithLabelValues(op, ce.kind).Inc()
			lg.Debug("client error", "error", err)
			return c.JSON(ce.status, ErrorRes{Error: ce.msg})
		}
	}

	kind := "internal"
	if errors.Is(err, repository.ErrStoreUnavailable) {
		kind = "store_unavailable"
	}
	app.Metrics.Errors.WithLabelValues(op, kind).Inc()
	lg.Error("operation failed", "error", err)
	return c.JSON(http.StatusInternalServerError, ErrorRes{Error: err.Error()})
}

func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if app.closers[i] != nil {
			app.closers[i]()
		}
	}
}

func main() {
	app := initApp()
	defer app.Close()
	if err := app.Echo.Start(":" + app.Config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.Log.Error("server stopped", "error", err)
	}
}
