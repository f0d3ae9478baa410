package config

import (
	"fmt"
	"io"
	"strings"
)

const maskedValue = "****"

// PrintConfig writes the effective configuration with secrets masked.
func PrintConfig(w io.Writer, c *Config) {
	var b strings.Builder

	fmt.Fprintf(&b, "mode: %s\n", c.Mode)

	b.WriteString("database:\n")
	fmt.Fprintf(&b, "  host: %s\n  port: %s\n  user: %s\n  password: %s\n  database: %s\n",
		c.Database.Host, c.Database.Port, c.Database.User, mask(c.Database.Password), c.Database.Database)
	fmt.Fprintf(&b, "  max_conns: %d\n  min_conns: %d\n  auto_migrate: %t\n",
		c.Database.MaxConns, c.Database.MinConns, c.Database.AutoMigrate)

	b.WriteString("rabbitmq:\n")
	fmt.Fprintf(&b, "  enabled: %t\n  host: %s\n  port: %s\n  user: %s\n  password: %s\n",
		c.RabbitMQ.Enabled, c.RabbitMQ.Host, c.RabbitMQ.Port, c.RabbitMQ.User, mask(c.RabbitMQ.Password))

	b.WriteString("server:\n")
	fmt.Fprintf(&b, "  port: %s\n  read_timeout: %s\n  write_timeout: %s\n  cors_origins: %s\n  login_rate_limit: %d/%s\n",
		c.Server.Port, c.Server.ReadTimeout, c.Server.WriteTimeout,
		strings.Join(c.Server.CORSOrigins, ","), c.Server.LoginRateLimit, c.Server.LoginRateWindow)

	b.WriteString("remote:\n")
	sessionsURL := c.Remote.SessionsURL
	if sessionsURL == "" {
		sessionsURL = "(disabled)"
	}
	fmt.Fprintf(&b, "  sessions_url: %s\n  timeout: %s\n  max_retries: %d\n",
		sessionsURL, c.Remote.Timeout, c.Remote.MaxRetries)

	b.WriteString("auth:\n")
	fmt.Fprintf(&b, "  access_token_ttl: %s\n  refresh_token_ttl: %s\n  jwt_secret: %s\n",
		c.Auth.AccessTokenTTL, c.Auth.RefreshTokenTTL, mask(c.Auth.JWTSecret))

	b.WriteString("log:\n")
	fmt.Fprintf(&b, "  level: %s\n  file: %s\n", c.Log.Level, c.Log.File)

	b.WriteString("dashboard:\n")
	fmt.Fprintf(&b, "  page_size: %d\n  trend_size: %d\n  recent_size: %d\n",
		c.Dashboard.PageSize, c.Dashboard.TrendSize, c.Dashboard.RecentSize)

	_, _ = io.WriteString(w, b.String())
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return maskedValue
}
