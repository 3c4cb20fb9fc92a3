// Package database opens the optional history database.
//
// It wraps GORM and picks the MySQL or SQLite driver from Config.Driver.
// SQLite suits a single host; MySQL lets several server hosts report into
// one place.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("History disabled", zap.Error(err))
//	}
package database
