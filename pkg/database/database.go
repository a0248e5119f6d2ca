package database

import (
	"fmt"
	"sdo_backend/internal/config"
	"sdo_backend/internal/model"
	"sdo_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	logMode := gormlogger.Warn
	if debug {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Database connection established", zap.String("driver", cfg.Driver))
	return db, nil
}

// Dialector picks the gorm driver for the configured backend.
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
				cfg.User,
				cfg.Password,
				cfg.Host,
				cfg.Port,
				cfg.DBName,
				cfg.Charset,
				cfg.ParseTime,
			)
		}
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)
		}
		return postgres.Open(dsn), nil
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.DBName + ".db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.TaskCase{},
		&model.Task{},
		&model.TaskCaseTask{},
		&model.Variant{},
		&model.UserVariant{},
		&model.UserTaskRelation{},
		&model.UserTaskCaseRelation{},
		&model.Answer{},
		&model.Review{},
		&model.Note{},
	)
	if err != nil {
		return err
	}

	logger.Log.Info("Database migration completed")
	return nil
}
