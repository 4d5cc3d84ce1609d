package main

import (
	"os"

	"github.com/SscSPs/branch_ledger/internal/cli"
)

// @title Branch Ledger API
// @version 1.0
// @description Double-entry journal ledger and posting engine.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
