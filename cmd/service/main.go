package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/2beens/mm2kbench/internal"
	"github.com/2beens/mm2kbench/internal/blobstore"
	"github.com/2beens/mm2kbench/internal/config"
	"github.com/2beens/mm2kbench/internal/logging"
	"github.com/2beens/mm2kbench/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	versionInfo, versionErr := tryGetLastCommitHash()

	sentryDSN := os.Getenv("SENTRY_DSN")
	closeLogs, err := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		Release:          versionInfo,
		SentryEnabled:    cfg.SentryEnabled && sentryDSN != "",
		SentryDSN:        sentryDSN,
		SentryServerName: "mm2k-service",
		SentryLevel:      cfg.SentryLevel,
	})
	if err != nil {
		log.Errorf("logging setup: %s", err)
	}
	defer closeLogs()

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	if versionErr != nil {
		log.Tracef("failed to get last commit hash / version info: %s", versionErr)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	adminCodeHash := os.Getenv("MM2K_ADMIN_CODE_HASH")
	if adminCodeHash == "" {
		log.Errorf("admin code hash not set, admin login disabled. use MM2K_ADMIN_CODE_HASH")
	}

	adminSecret := os.Getenv("MM2K_ADMIN_SECRET")
	if adminSecret == "" {
		log.Fatalln("admin token secret not set. use MM2K_ADMIN_SECRET")
	}

	redisPassword := os.Getenv("MM2K_REDIS_PASS")
	if redisPassword == "" {
		log.Warnln("redis password not set. use MM2K_REDIS_PASS")
	}

	postgresPassword := os.Getenv("MM2K_POSTGRES_PASS")

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	if cfg.BlobBackend == blobstore.BackendDisk {
		blobDirExists, err := pkg.PathExists(cfg.BlobRootPath, true)
		if err != nil {
			log.Fatalf("check blob root dir: %s", err)
		}
		if !blobDirExists {
			log.Warnf("blob root dir missing, will be created: %s", cfg.BlobRootPath)
		} else {
			log.Printf("blob root dir: %s", cfg.BlobRootPath)
		}
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			AdminCodeHash:           adminCodeHash,
			AdminSecret:             adminSecret,
			RedisPassword:           redisPassword,
			PostgresPassword:        postgresPassword,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	if err := server.GracefulShutdown(); err != nil {
		log.Errorf("graceful shutdown: %s", err)
	}
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "--short", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(pkg.BytesToString(stdout)), nil
}
