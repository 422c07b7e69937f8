// Command academic-api serves the academic portal backend.
//
// @title                       Academic Portal API
// @version                     1.0
// @description                 User accounts, password reset and inquiry requests for the academic portal.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 "Bearer <token>" or the bare token
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eduportal/academic-api/pkg/logger"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)

	if err := cmd.ExecuteContext(ctx); err != nil {
		// A no-op when the failure came before the logger was built.
		log := logger.Get()
		log.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}
