// Command seed writes the built-in quest log templates into an empty
// templates collection and exits. It is safe to run repeatedly.
package main

import (
	"context"
	"os"
	"time"

	"github.com/questlog/questlog/internal/bootstrap"
	"github.com/questlog/questlog/internal/config"
	"github.com/questlog/questlog/internal/questlog/service"
	"github.com/questlog/questlog/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	st, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open store: %v", err)
	}
	defer st.Close(context.Background())

	n, err := service.NewService(st.Logs, st.Templates).SeedTemplates(ctx)
	if err != nil {
		logger.Fatalf("seeding failed after %d templates: %v", n, err)
	}
	if n == 0 {
		logger.Infof("templates collection (%s) already populated, nothing to do", st.Backend)
		return
	}
	logger.Infof("wrote %d templates to the %s store", n, st.Backend)
}
