// File path: cmd/flowlang/cmd_serve.go
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicodishanthj/flowlang/internal/api"
	"github.com/nicodishanthj/flowlang/internal/catalog"
	"github.com/nicodishanthj/flowlang/internal/common"
	"github.com/nicodishanthj/flowlang/internal/llm"
	"github.com/nicodishanthj/flowlang/internal/review"
)

func runServe(cmd *cobra.Command, args []string) {
	logger := common.Logger()

	logger.Info("flowlang: startup initiated", "addr", serveAddr, "catalog", serveCatalog)

	var store *catalog.Store
	if trimmed := strings.TrimSpace(serveCatalog); trimmed != "" {
		var err error
		store, err = catalog.Open(trimmed)
		if err != nil {
			logger.Error("flowlang: catalog open failed", "path", trimmed, "error", err)
			fmt.Println("catalog error:", err)
			os.Exit(1)
		}
		defer store.Close()
	} else {
		logger.Info("flowlang: run catalog not configured")
	}

	provider := llm.NewProvider()
	logger.Info("flowlang: llm provider ready", "provider", provider.Name())
	reviewer := review.NewReviewer(provider)

	cfg := api.DefaultConfig()
	server := api.NewServer(store, reviewer, &cfg)

	logger.Info("flowlang: server listening", "addr", serveAddr, "health", "/healthz", "metrics", "/metrics")
	fmt.Printf("Serving on %s\n", serveAddr)
	reachable := serveAddr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("flowlang: verify reachability", "suggestion", fmt.Sprintf("curl http://%s/healthz", reachable))
	if err := http.ListenAndServe(serveAddr, server); err != nil {
		logger.Error("flowlang: server stopped", "error", err)
		fmt.Println("server stopped:", err)
		os.Exit(1)
	}
}
