// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/mayanksahani2004/kisan-saathi-ai/advisor"
	"github.com/mayanksahani2004/kisan-saathi-ai/analyzer"
	"github.com/mayanksahani2004/kisan-saathi-ai/api"
	"github.com/mayanksahani2004/kisan-saathi-ai/config"
	"github.com/mayanksahani2004/kisan-saathi-ai/library"
	"github.com/mayanksahani2004/kisan-saathi-ai/llm"
	"github.com/mayanksahani2004/kisan-saathi-ai/logger"
	"github.com/mayanksahani2004/kisan-saathi-ai/refdata"
	"github.com/mayanksahani2004/kisan-saathi-ai/weather"
	"github.com/mayanksahani2004/kisan-saathi-ai/websocket"
)

func main() {
	configPath := flag.String("config", "configs/app_config.yaml", "application config file")
	flag.Parse()

	log := logger.GetLogger().WithComponent("server")

	env, err := config.LoadEnv()
	if err != nil {
		log.Error("loading environment failed", err)
		os.Exit(1)
	}
	if level, err := logger.ParseLevel(env.LogLevel); err == nil {
		logger.SetGlobalLevel(level)
	}

	appCfg, err := config.LoadAppConfig(*configPath)
	if err != nil {
		log.Warnf("config file unavailable (%v), using built-in defaults", err)
		appCfg = config.DefaultAppConfig()
	}

	ref, err := loadDataset(env)
	if err != nil {
		log.Error("loading reference dataset failed", err)
		os.Exit(1)
	}
	log.Infof("reference data loaded: %d crops, %d regions, %d diseases",
		len(ref.Crops()), len(ref.Regions()), len(ref.Diseases()))

	lib, err := library.Open(env.DBPath, appCfg.Library.ChatHistoryLimit, appCfg.Library.DetectionHistoryLimit)
	if err != nil {
		log.Error("opening library failed", err)
		os.Exit(1)
	}
	defer lib.Close()
	if env.OfflineDefault && !lib.OfflineMode() {
		if err := lib.SetOfflineMode(true); err != nil {
			log.Warnf("could not persist the offline default: %v", err)
		}
	}

	model, err := llm.NewClient(env.ModelProvider, env.ModelBaseURL, env.ModelAPIKey, env.ModelName, env.ModelTimeout)
	if err != nil {
		log.Warnf("hosted model disabled, running fully local: %v", err)
		model = nil
	}
	var vision llm.VisionClient
	if vc, ok := model.(llm.VisionClient); ok {
		vision = vc
	}

	an, err := analyzer.New(vision, ref.Diseases())
	if err != nil {
		log.Error("building analyzer failed", err)
		os.Exit(1)
	}

	wxService := weather.NewService(weather.NewClient(""), appCfg)

	logServer := websocket.NewLogServer(appCfg.Server.WSPort)
	if err := logServer.Start(); err != nil {
		log.Error("starting activity stream failed", err)
		os.Exit(1)
	}
	defer logServer.Stop()

	adv := advisor.New(ref, advisor.Options{
		Model:        model,
		Settings:     lib,
		History:      lib,
		Broadcaster:  logServer,
		ModelTimeout: env.ModelTimeout,
	})

	server := api.NewServer(appCfg.Server.Port, adv, wxService, an, lib, ref)
	if err := server.Start(); err != nil {
		log.Error("starting api failed", err)
		os.Exit(1)
	}
	defer server.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info("shutting down")
}

// loadDataset honors the DATASET_PATH override and otherwise serves the
// embedded copy.
func loadDataset(env *config.EnvConfig) (*refdata.Store, error) {
	if env.DatasetPath != "" {
		return refdata.LoadFile(env.DatasetPath)
	}
	return refdata.Load()
}
