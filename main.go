package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/dahemar/baptiste4/config"
	"github.com/dahemar/baptiste4/handlers"
	"github.com/dahemar/baptiste4/logger"
	"github.com/dahemar/baptiste4/proxy"
	"github.com/dahemar/baptiste4/updater"
	"github.com/dahemar/baptiste4/utils"
)

func main() {
	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// manually set time zone
	if tz := os.Getenv("TZ"); tz != "" {
		var err error
		time.Local, err = time.LoadLocation(tz)
		if err != nil {
			logger.Default.Errorf("error loading location '%s': %v", tz, err)
		}
	}

	updateInstance, err := updater.Initialize(ctx)
	if err != nil {
		logger.Default.Fatalf("Error initializing content updater: %v", err)
	}

	checker := proxy.NewChecker(proxy.AllowedHostsFromEnv())
	forwarder := proxy.NewForwarder(checker, nil, logger.Default)
	registry := proxy.NewRegistry(checker, config.IsDevMode())

	proxyHandler := handlers.NewProxyHTTPHandler(forwarder, registry, logger.Default)
	registerHandler := handlers.NewRegisterHTTPHandler(registry, logger.Default)
	contentHandler := handlers.NewContentHTTPHandler(updateInstance, logger.Default)

	mux := http.NewServeMux()
	mux.Handle("/api/content", contentHandler)
	mux.Handle("/api/proxy", proxyHandler)
	mux.Handle("/api/proxy/", proxyHandler)
	mux.Handle("/api/proxy/register", registerHandler)

	port := utils.GetEnv("PORT", "8080")

	logger.Default.Logf("Server is running on port %s...", port)
	logger.Default.Log("Content Endpoint is running (`/api/content`)")
	logger.Default.Log("Proxy Endpoint is running (`/api/proxy`, `/api/proxy/{target}`)")
	if registry.Enabled() {
		logger.Default.Log("Dev registry is running (`/api/proxy/register`, `/api/proxy/serve`)")
	}

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logger.Default.Fatalf("HTTP server error: %v", err)
	}
}
