package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-leadflow/internal/aws"
	"github.com/imrishuroy/go-leadflow/internal/config"
	"github.com/imrishuroy/go-leadflow/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("worker exited", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	clients, err := aws.NewAWSClients(context.Background(), aws.Settings{
		Region:           cfg.AWSRegion,
		EndpointOverride: cfg.AWSEndpointOverride,
		AccessKeyID:      cfg.AWSAccessKeyID,
		SecretAccessKey:  cfg.AWSSecretAccessKey,
	})
	if err != nil {
		return fmt.Errorf("init aws clients: %w", err)
	}

	p := NewProcessor(aws.NewMetricRecorder(clients.CloudWatch, cfg.MetricsNamespace), logger)

	// RUN_LOCAL=true processes a single simulated message and exits.
	if cfg.RunLocal {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"type":"lead.submitted","request_id":"REQ-0-local","email_domain":"example.com","company":"Local"}`
		}
		resp, err := p.Handle(context.Background(), events.SQSEvent{
			Records: []events.SQSMessage{{MessageId: "local-1", Body: body}},
		})
		if err != nil {
			return fmt.Errorf("local handler: %w", err)
		}
		if n := len(resp.BatchItemFailures); n > 0 {
			return fmt.Errorf("local handler: %d message(s) failed", n)
		}
		return nil
	}

	lambda.Start(p.Handle)
	return nil
}
