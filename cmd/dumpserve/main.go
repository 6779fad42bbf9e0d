package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/parsedump/internal/config"
	"github.com/danmuck/parsedump/internal/logging"
	"github.com/danmuck/parsedump/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.String("config", "", "Path to a TOML config file (defaults are used when empty)")
	addr := pflag.String("addr", "", "Listen address, overrides serve.addr")
	pflag.Parse()

	logging.ConfigureRuntime()
	gin.SetMode(gin.ReleaseMode)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dumpserve: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Serve.Addr = *addr
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "dumpserve: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg).Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "dumpserve: %v\n", err)
		os.Exit(1)
	}
}
