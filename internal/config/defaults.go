package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHTTPHost         = "0.0.0.0"
	DefaultHTTPPort         = 8090
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultPongWait         = 60 * time.Second
	DefaultMaxMessageSize   = 4096
	DefaultPageSize         = 20
	DefaultMaxPageSize      = 100
)

func (c *ServiceConfig) applyDefaults() {
	// HTTP defaults
	if c.HTTP.Host == "" {
		c.HTTP.Host = DefaultHTTPHost
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = DefaultHTTPPort
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Websocket defaults
	if c.Websocket.HandshakeTimeout == 0 {
		c.Websocket.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Websocket.WriteTimeout == 0 {
		c.Websocket.WriteTimeout = DefaultWriteTimeout
	}
	if c.Websocket.PongWait == 0 {
		c.Websocket.PongWait = DefaultPongWait
	}
	if c.Websocket.MaxMessageSize == 0 {
		c.Websocket.MaxMessageSize = DefaultMaxMessageSize
	}

	// Notifications defaults
	if c.Notifications.DefaultPageSize == 0 {
		c.Notifications.DefaultPageSize = DefaultPageSize
	}
	if c.Notifications.MaxPageSize == 0 {
		c.Notifications.MaxPageSize = DefaultMaxPageSize
	}
}
