// Package database handles connections to the relational database that backs
// the document store.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure MySQL or SQLite connections based on the application's configuration.
// SQLite is intended for local development and small single-node installs;
// MySQL for shared deployments.
//
// # Connect
//
// The Connect function establishes a connection, configures the pool, and
// verifies it with a ping before returning. A ping failure here is what the
// sweep commands treat as a fatal setup error.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
