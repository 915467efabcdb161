// internal/config/database.go
package config

import (
	"fmt"
)

// DSN builds the postgres connection string. TimeZone is pinned to UTC so
// discount window comparisons behave the same regardless of server locale.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
