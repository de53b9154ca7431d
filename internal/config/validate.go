package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *ServiceConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}

	if c.Websocket.WriteTimeout <= 0 {
		return errors.New("websocket.write_timeout must be > 0")
	}
	if c.Websocket.PongWait <= 0 {
		return errors.New("websocket.pong_wait must be > 0")
	}

	if c.Notifications.DefaultPageSize < 1 {
		return errors.New("notifications.default_page_size must be >= 1")
	}
	if c.Notifications.MaxPageSize < c.Notifications.DefaultPageSize {
		return fmt.Errorf("notifications.max_page_size (%d) cannot be less than default_page_size (%d)",
			c.Notifications.MaxPageSize, c.Notifications.DefaultPageSize)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
