package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-leadflow/internal/aws"
	"github.com/imrishuroy/go-leadflow/internal/config"
	"github.com/imrishuroy/go-leadflow/internal/handlers"
	"github.com/imrishuroy/go-leadflow/internal/leads"
	"github.com/imrishuroy/go-leadflow/internal/logging"
	"github.com/imrishuroy/go-leadflow/internal/metrics"
	"github.com/imrishuroy/go-leadflow/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	// run returns only after its deferred store Close has executed.
	err = run(cfg, logger)
	if err != nil {
		logger.Error("api exited", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	var clients *aws.AWSClients
	if cfg.StoreBackend == config.BackendDynamoDB || cfg.LeadsQueueURL != "" {
		c, err := aws.NewAWSClients(ctx, awsSettings(cfg))
		if err != nil {
			return fmt.Errorf("init aws clients: %w", err)
		}
		clients = c
	}

	st, err := openStore(ctx, cfg, clients, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("close store", zap.Error(cerr))
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)

	opts := []leads.Option{
		leads.WithLogger(logger),
		leads.WithMetrics(m),
		leads.WithDuplicateWindow(cfg.DuplicateWindow),
	}
	if cfg.LeadsQueueURL != "" {
		opts = append(opts, leads.WithPublisher(aws.NewPublisher(clients.SQS, cfg.LeadsQueueURL)))
	}
	svc := leads.NewService(st, opts...)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.AdminSecret == "" {
		logger.Warn("ADMIN_SECRET is empty, admin API will reject every request")
	}

	r := handlers.NewRouter(handlers.HandlerConfig{
		Service:        svc,
		AdminSecret:    cfg.AdminSecret,
		AdminListLimit: cfg.AdminListLimit,
		ExposeErrors:   !cfg.Production(),
		Logger:         logger,
		Metrics:        m,
		Gatherer:       prometheus.DefaultGatherer,
	})

	logger.Info("store ready", zap.String("backend", cfg.StoreBackend))

	// RUN_LOCAL=true serves HTTP directly instead of running behind API Gateway.
	if cfg.RunLocal {
		return serve(r, ":"+cfg.Port, logger)
	}

	adapter := ginadapter.New(r)
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, clients *aws.AWSClients, logger *zap.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		return store.NewDynamoStore(clients.DynamoDB, cfg.DynamoDBTable, cfg.DynamoDBCollection, logger), nil
	case config.BackendRedis:
		client, err := store.NewRedisClient(ctx, store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return store.NewRedisStore(client, cfg.RedisKey, logger), nil
	default:
		return store.NewFileStore(cfg.DataFile, logger), nil
	}
}

func awsSettings(cfg *config.Config) aws.Settings {
	return aws.Settings{
		Region:           cfg.AWSRegion,
		EndpointOverride: cfg.AWSEndpointOverride,
		AccessKeyID:      cfg.AWSAccessKeyID,
		SecretAccessKey:  cfg.AWSSecretAccessKey,
	}
}

func serve(h http.Handler, addr string, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("running local server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
