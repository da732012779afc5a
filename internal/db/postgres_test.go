package db

import (
	"testing"

	"invoice-backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestDSN_EscapesCredentials(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.User = "app"
	cfg.Database.Password = "p@ss:word"
	cfg.Database.Host = "db"
	cfg.Database.Port = 5432
	cfg.Database.Name = "invoices"
	cfg.Database.SSLMode = "require"

	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/invoices?sslmode=require", DSN(cfg))
}
