package actions

import (
	"context"
	"marketmcp/marketmcp/config"
	"marketmcp/marketmcp/sources/psql"
	"marketmcp/marketmcp/sources/psql/dao"
	"marketmcp/marketmcp/sources/storage"
	"marketmcp/marketmcp/utils/logging"

	"go.uber.org/zap"
)

// FromConfig builds the tool table with whichever optional backends cfg
// enables. A backend that cannot be reached is logged and left out. The
// returned func releases them.
func FromConfig(ctx context.Context, configPath string, cfg config.Config) (*ToolActions, func()) {
	deps := Deps{ConfigPath: configPath}
	closers := []func(){}

	if cfg.Storage.Endpoint != "" {
		mirror, err := storage.NewMinIOClient(ctx, cfg.Storage)
		if err != nil {
			logging.ErrorLogger.Error("minio connection error, mirror disabled",
				zap.String("endpoint", cfg.Storage.Endpoint), zap.Error(err))
		} else {
			deps.Mirror = mirror
		}
	}

	if cfg.Database.DSN != "" {
		db, err := psql.NewDatabase(ctx, cfg.Database.DSN)
		if err != nil {
			logging.ErrorLogger.Error("database connection error, source index disabled", zap.Error(err))
		} else {
			deps.Index = dao.NewSourceRecordDAO(db.DB)
			closers = append(closers, db.Close)
		}
	}

	return NewToolActions(deps), func() {
		for _, c := range closers {
			c()
		}
	}
}
