package config

import "time"

// ServiceConfig is the root configuration for a notifyd instance.
type ServiceConfig struct {
	Instance      InstanceConfig      `yaml:"instance"`
	HTTP          HTTPConfig          `yaml:"http"`
	Database      DBConfig            `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Websocket     WebsocketConfig     `yaml:"websocket"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// InstanceConfig identifies this service instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// HTTPConfig holds the HTTP listener settings.
type HTTPConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// AuthConfig holds bearer-token verification settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"` // HMAC secret shared with the identity service
	Issuer    string `yaml:"issuer"`     // Expected token issuer; empty disables the check
}

// WebsocketConfig holds live-connection transport settings.
type WebsocketConfig struct {
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"` // Write deadline for pushes
	PongWait         time.Duration `yaml:"pong_wait"`     // Max time without a pong before the read fails
	MaxMessageSize   int64         `yaml:"max_message_size"`
}

// NotificationsConfig holds history-query settings.
type NotificationsConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}
