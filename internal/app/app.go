package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/elianismedina/partfinder/config"
	"github.com/elianismedina/partfinder/internal/adapter"
	"github.com/elianismedina/partfinder/internal/adapter/httphandler"
	"github.com/elianismedina/partfinder/internal/adapter/kafka"
	"github.com/elianismedina/partfinder/internal/adapter/storage"
	"github.com/elianismedina/partfinder/internal/adapter/vehicleapi"
	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/service"
	"github.com/elianismedina/partfinder/pkg/schema"
)

type feeds struct {
	catalog   service.Catalog
	providers []domain.ServiceProvider
	rules     []domain.Rule
}

// An App wires the gateway service: per-session vehicle collections
// over the vehicles API, the parts catalog, recommendations and the
// client events producer.
type App struct {
	ctx            context.Context
	cfg            config.Config
	feeds          feeds
	eventsSerde    schema.Serde
	eventsProducer kafka.ClientEventsProducer
	sessions       *service.Sessions
	httpServer     httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initFeeds()
	app.initSerde()
	app.initOutboundAdapters()
	app.initCoreServices()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initFeeds() {
	const op = "App.initFeeds"

	parts, err := storage.LoadParts(app.cfg.Feeds.PartsFile)
	if err != nil {
		app.fallDown(op, err)
	}

	providers, err := storage.LoadProviders(app.cfg.Feeds.ProvidersFile)
	if err != nil {
		app.fallDown(op, err)
	}

	rules, err := storage.LoadRules(app.cfg.Feeds.RulesFile)
	if err != nil {
		app.fallDown(op, err)
	}

	app.feeds.catalog = service.NewCatalog(parts)
	app.feeds.providers = providers
	app.feeds.rules = rules
}

func (app *App) initSerde() {
	const op = "App.initSerde"

	schemaCreater, err := schema.NewSchemaCreater(
		app.cfg.Broker.SchemaRegistryURLs...,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	subject := app.cfg.Broker.Topics.ClientEvents + "-value"
	eventsSerde, err := schema.NewSerdeClientEventV1(
		app.ctx,
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.eventsSerde = eventsSerde
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	producer, err := kafka.NewClientEventsProducer(
		kafka.ProducerClientOpt(
			app.ctx,
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.Topics.ClientEvents,
			app.brokerTLS(),
		),
		kafka.ProducerEncoderOpt(app.eventsSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.eventsProducer = producer
}

func (app *App) initCoreServices() {
	repo := vehicleapi.NewClient(app.cfg.VehiclesAPIURL)
	app.sessions = service.NewSessions(repo)
}

func (app *App) initInboundAdapters() {
	recommender := service.NewRecommender(app.feeds.rules)

	mux := http.NewServeMux()
	httphandler.RegisterGarage(mux, app.sessions, app.eventsProducer)
	httphandler.RegisterRecommendations(mux, app.sessions, recommender)
	httphandler.RegisterCatalog(
		mux, app.sessions, app.feeds.catalog,
		app.feeds.providers, app.eventsProducer,
	)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) brokerTLS() *tls.Config {
	if !app.cfg.BrokerTLSEnabled() {
		return nil
	}
	brokerTLS := app.cfg.Broker.TLS
	return adapter.MakeTLSConfig(brokerTLS.CA, brokerTLS.Cert, brokerTLS.Key)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.eventsProducer.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
