package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/f-sync/followback/internal/server"
)

const (
	commandUse                       = "server"
	commandShortDescription          = "Serve follow-back analyses over HTTP"
	envPrefix                        = "FOLLOWBACK_SERVER"
	flagHostName                     = "host"
	flagHostDescription              = "Host interface for the HTTP server"
	flagPortName                     = "port"
	flagPortDescription              = "Port for the HTTP server"
	flagMaxUploadBytesName           = "max-upload-bytes"
	flagMaxUploadBytesDescription    = "Maximum size in bytes of one analyze request"
	flagAnalysisCacheSizeName        = "analysis-cache-size"
	flagAnalysisCacheSizeDescription = "Number of analyses kept in memory"
	defaultHost                      = "127.0.0.1"
	defaultPort                      = 8080
	shutdownTimeout                  = 10 * time.Second
	errMessageLoggerCreate           = "create logger"
	errMessageStoreCreate            = "create analysis store"
	errMessageListenAndServe         = "listen and serve"
	errMessageShutdown               = "shutdown"
	logMessageStartingServer         = "starting HTTP server"
	logMessageShuttingDown           = "shutting down HTTP server"
	logMessageServerStopped          = "server stopped"
	logMessageListenError            = "server listen failure"
	logFieldAddress                  = "address"
	logFieldAnalysisCacheSize        = "analysis_cache_size"
	logFieldMaxUploadBytes           = "max_upload_bytes"
)

func main() {
	cobra.CheckErr(newServerCommand().Execute())
}

func newServerCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   commandUse,
		Short: commandShortDescription,
		RunE:  runServerCommand,
	}

	command.Flags().String(flagHostName, defaultHost, flagHostDescription)
	command.Flags().Int(flagPortName, defaultPort, flagPortDescription)
	command.Flags().Int64(flagMaxUploadBytesName, server.DefaultMaxUploadBytes, flagMaxUploadBytesDescription)
	command.Flags().Int(flagAnalysisCacheSizeName, server.DefaultAnalysisCacheSize, flagAnalysisCacheSizeDescription)

	bindFlagToViper(command, flagHostName)
	bindFlagToViper(command, flagPortName)
	bindFlagToViper(command, flagMaxUploadBytesName)
	bindFlagToViper(command, flagAnalysisCacheSizeName)

	cobra.OnInitialize(configureEnvironment)

	return command
}

func bindFlagToViper(command *cobra.Command, flagName string) {
	cobra.CheckErr(viper.BindPFlag(flagName, command.Flags().Lookup(flagName)))
}

func configureEnvironment() {
	_ = godotenv.Load()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func runServerCommand(command *cobra.Command, _ []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("%s: %w", errMessageLoggerCreate, err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	analysisCacheSize := viper.GetInt(flagAnalysisCacheSizeName)
	store, err := server.NewAnalysisStore(analysisCacheSize)
	if err != nil {
		return fmt.Errorf("%s: %w", errMessageStoreCreate, err)
	}

	maxUploadBytes := viper.GetInt64(flagMaxUploadBytesName)
	router, err := server.NewRouter(server.RouterConfig{
		Logger:         logger,
		Store:          store,
		MaxUploadBytes: maxUploadBytes,
	})
	if err != nil {
		return err
	}

	host := viper.GetString(flagHostName)
	port := viper.GetInt(flagPortName)
	address := fmt.Sprintf("%s:%d", host, port)
	logger.Info(logMessageStartingServer,
		zap.String(logFieldAddress, address),
		zap.Int(logFieldAnalysisCacheSize, analysisCacheSize),
		zap.Int64(logFieldMaxUploadBytes, maxUploadBytes),
	)

	signalContext, stopSignals := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	httpServer := &http.Server{Addr: address, Handler: router}
	group, groupContext := errgroup.WithContext(signalContext)
	group.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(logMessageListenError, zap.Error(err))
			return fmt.Errorf("%s: %w", errMessageListenAndServe, err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupContext.Done()
		logger.Info(logMessageShuttingDown)
		shutdownContext, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := httpServer.Shutdown(shutdownContext); err != nil {
			return fmt.Errorf("%s: %w", errMessageShutdown, err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return err
	}

	logger.Info(logMessageServerStopped)
	return nil
}
