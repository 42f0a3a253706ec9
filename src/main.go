package main

import (
	"context"
	"fmt"
	"os"

	"attestation-service/pkg/logger"
	"attestation-service/pkg/rabbitmq"
	"attestation-service/pkg/rest"
	"attestation-service/pkg/utilities"
	"attestation-service/src/external"
	"attestation-service/src/nullifier"
	"attestation-service/src/verifier"
	"attestation-service/src/workers"

	"github.com/joho/godotenv"
)

func main() {
	logger.InitDefaultLogger(logger.GlobalLoggerConfig{
		Args: []logger.LoggerArg{
			{Key: "application", Value: "attestation-service"},
			{Key: "version", Value: "1.0.0"},
		},
	})

	mainLogger := logger.Default()

	if err := godotenv.Load(); err != nil {
		mainLogger.Debugf("No .env file loaded: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/attestation_service.json"
	}

	config, err := utilities.ReadConfig[AttestationServiceConfigJson, AttestationServiceConfig](configPath)
	utilities.FailOnError(err, "Failed to load service config")
	mainLogger.WithLevel(config.LoggerConf.LogLevel)

	db, err := nullifier.ConnectToDatabase(config.DatabaseConf.ConnectionString)
	utilities.FailOnError(err, "Failed to open nullifier registry database")
	registry := nullifier.NewRegistry(db)

	attestationVerifier := verifier.New(config.VerifierConf, registry)

	conn, err := rabbitmq.ConnectToRabbitmq(
		config.RabbitmqConf.User,
		config.RabbitmqConf.Password,
		config.RabbitmqConf.Host,
	)
	utilities.FailOnError(err, "Failed to connect to RabbitMQ after retries")
	defer conn.Close()

	rabbitmq.InitializeConsumerRegistry(conn, config.RabbitmqConf.ConsumersConfig)
	rabbitmq.InitializePublisherRegistry(conn, config.RabbitmqConf.PublishersConfig)

	workerServices := []rabbitmq.WorkerService{
		workers.NewAttestationWorker(attestationVerifier),
		workers.NewRegistrySweeper(registry, config.DatabaseConf.SweepSchedule),
	}

	if solanaKeys, err := external.LoadSolanaKeys(); err != nil {
		mainLogger.Warnf("Chain submit worker disabled: %v", err)
	} else {
		submitter := external.NewAttestationSubmitter(solanaKeys, config.SolanaConf.RpcUrl)
		if err := solanaKeys.ValidateProgramExecutable(context.Background(), submitter.RpcClient); err != nil {
			mainLogger.Warnf("Attestation program account check failed: %v", err)
		}
		workerServices = append(workerServices, workers.NewChainSubmitWorker(submitter))
	}

	for _, ws := range workerServices {
		mainLogger.Infof("Starting %s WorkerService", ws.GetServiceName())
		go ws.StartService()
	}

	reader := external.NewAttestationReader(registry)
	router := rest.BuildRouter([]rest.Route{
		rest.NewRoute(rest.GET, "auth", "/status", reader.Status),
		rest.NewRoute(rest.GET, "auth", "/health", reader.Health),
		rest.NewRoute(rest.POST, "auth", "/sweep", reader.Sweep),
	})

	addr := fmt.Sprintf("0.0.0.0:%d", config.RestConf.Port)
	mainLogger.Infof("Attestation service REST API is now listening on: %s", addr)
	utilities.FailOnError(router.Run(addr), "REST API server stopped")
}
