package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/colinmarc/hdfs/v2"

	"github.com/elianismedina/partfinder/config"
	"github.com/elianismedina/partfinder/internal/adapter"
	"github.com/elianismedina/partfinder/internal/adapter/analytics"
	"github.com/elianismedina/partfinder/internal/adapter/httphandler"
	"github.com/elianismedina/partfinder/internal/adapter/kafka"
	"github.com/elianismedina/partfinder/internal/adapter/storage"
	"github.com/elianismedina/partfinder/pkg/schema"
	"github.com/elianismedina/partfinder/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()

	initLogger(cfg.LogLevel)
	slog.Info("analytics service is starting")

	eventsSerde := createEventsSerde(sigCtx, cfg)
	archive := createEventsArchive(cfg)

	consumer := createConsumer(cfg, eventsSerde, archive)
	go consumer.Run(sigCtx)

	processor := createProcessor(cfg, eventsSerde)
	var wg sync.WaitGroup
	wg.Add(1)
	go processor.Run(sigCtx, closeApp, &wg)
	wg.Wait()

	view := createView(cfg)
	go view.Run(sigCtx)

	analyzer := analytics.NewSessionActivityAnalyzer(cfg.Spark.ConnectAddr)

	mux := http.NewServeMux()
	httphandler.RegisterPopularity(mux, view)
	httphandler.RegisterActivity(mux, analyzer)

	httpServer := httphandler.NewHTTPServer(cfg.HTTPServerAddr, mux)
	go httpServer.Run(closeApp)

	slog.Info("analytics service is running")

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	httpServer.Close(ctx)
	processor.Close()
	consumer.Close()
}

func initLogger(level slog.Leveler) {
	opts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func createEventsSerde(ctx context.Context, cfg config.Config) schema.Serde {
	const op = "main.createEventsSerde"

	schemaCreater, err := schema.NewSchemaCreater(
		cfg.Broker.SchemaRegistryURLs...,
	)
	if err != nil {
		die(op, err)
	}

	subject := cfg.Broker.Topics.ClientEvents + "-value"
	eventsSerde, err := schema.NewSerdeClientEventV1(
		ctx,
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		die(op, err)
	}
	return eventsSerde
}

func createEventsArchive(cfg config.Config) storage.ClientEventsArchive {
	const op = "main.createEventsArchive"

	client, err := hdfs.New(cfg.HDFS.NamenodeAddr)
	if err != nil {
		die(op, err)
	}
	return storage.NewClientEventsArchive(client, cfg.HDFS.EventsDir)
}

func createConsumer(
	cfg config.Config, serde schema.Serde, archive storage.ClientEventsArchive,
) kafka.ClientEventsConsumer {
	const op = "main.createConsumer"

	consumer, err := kafka.NewClientEventsConsumer(
		kafka.ConsumerClientOpt(
			cfg.Broker.SeedBrokers,
			cfg.Broker.Topics.ClientEvents,
			cfg.Broker.Consumers.ArchiverGroup,
			brokerTLS(cfg),
		),
		kafka.ConsumerDecoderOpt(serde),
		kafka.ConsumerArchiverOpt(archive),
	)
	if err != nil {
		die(op, err)
	}
	return consumer
}

func createProcessor(
	cfg config.Config, serde schema.Serde,
) *kafka.PartPopularityProcessor {
	const op = "main.createProcessor"

	processor, err := kafka.NewPartPopularityProc(
		cfg.Broker.SeedBrokers,
		cfg.Broker.Topics.ClientEvents,
		cfg.Broker.Topics.PopularityTable,
		serde,
	)
	if err != nil {
		die(op, err)
	}
	return processor
}

func createView(cfg config.Config) kafka.PartPopularityView {
	const op = "main.createView"

	view, err := kafka.NewPartPopularityView(
		cfg.Broker.SeedBrokers,
		cfg.Broker.Topics.PopularityTable,
	)
	if err != nil {
		die(op, err)
	}
	return view
}

func brokerTLS(cfg config.Config) *tls.Config {
	if !cfg.BrokerTLSEnabled() {
		return nil
	}
	brokerTLS := cfg.Broker.TLS
	return adapter.MakeTLSConfig(brokerTLS.CA, brokerTLS.Cert, brokerTLS.Key)
}

func die(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
