package main

import (
	"land-registry/internal/app"
	"land-registry/internal/config"
	"land-registry/internal/hashing"
	"land-registry/internal/keymanager"
	"land-registry/internal/ledger"
	"land-registry/internal/metadata"
	"land-registry/internal/ports/http"
	"land-registry/internal/registry"
	"land-registry/internal/repository/mongodb"
	"log"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	logger, err := getLogger()
	if err != nil {
		log.Fatalln("setting up the logger failed: ", err)
		return
	}
	defer logger.Sync()

	logger.Info("application started")

	hashing.Initialize(logger)

	db, err := mongodb.NewConnection(logger, config.GetDbConnectionURI(), config.GetDatabaseName())
	if err != nil {
		logger.Fatal("failed to connect to the database: " + err.Error())
		return
	}
	defer db.Disconnect()

	treasuryKeys, err := getTreasuryKeys()
	if err != nil {
		logger.Warn("treasury keys are not usable, minting and transfers will fail: " + err.Error())
	}

	ledgerClient := ledger.NewClient(logger, config.GetLedgerGatewayAddr(), ledger.Config{
		TokenID:      config.GetTokenID(),
		TreasuryID:   config.GetTreasuryID(),
		TreasuryKeys: treasuryKeys,
	})
	metadataClient := metadata.NewClient(logger, config.GetMetadataAPIAddr(), config.GetMetadataGatewayAddr())
	parcelRegistry := registry.New(logger, config.GetRegistryFilePath())
	keyManager := keymanager.NewKeyManager(logger)

	application := app.NewApp(logger, parcelRegistry, ledgerClient, metadataClient, keyManager, db)
	ser := http.NewServer(logger, &application, config.GetPort())
	if err := ser.Run(); err != nil {
		logger.Error("failed to run the server: " + err.Error())
	}

	logger.Info("application finished")
}

func getTreasuryKeys() (keymanager.UserKeys, error) {
	return keymanager.ParseKeys(config.GetTreasuryKey())
}

func getLogger() (*zap.Logger, error) {
	options := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.FatalLevel),
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	config.Development = true
	config.Level.SetLevel(zap.DebugLevel)

	logger, err := config.Build()
	return logger.WithOptions(options...), err
}
