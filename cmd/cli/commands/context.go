package commands

import (
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-tracker/internal/config"
	"github.com/jakechorley/volunteer-tracker/pkg/core/controller"
	"github.com/jakechorley/volunteer-tracker/pkg/db"
	"github.com/jakechorley/volunteer-tracker/pkg/metrics"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg          *config.Config
	Repositories *db.Repositories
	Controller   *controller.Controller
	Metrics      *metrics.Recorder
	Logger       *zap.Logger
}
