package main

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/spinnata-waitlist/internal/infra/database"
)

type databaseHandle struct {
	conn   *sqlx.DB
	driver database.Driver
}

func openDatabase(ctx context.Context, databaseURL string) (*databaseHandle, error) {
	conn, driver, err := database.NewDBConnection(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &databaseHandle{conn: conn, driver: driver}, nil
}
