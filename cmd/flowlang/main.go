// File path: cmd/flowlang/main.go
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/nicodishanthj/flowlang/internal/common"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("flowlang: .env file not loaded", "error", err)
	} else {
		logger.Info("flowlang: environment loaded from .env")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
