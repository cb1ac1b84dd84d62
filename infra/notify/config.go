package notify

import "fmt"

// Config defines the connection parameters for the MQTT notifier.
// Notifications are disabled unless a broker is configured.
type Config struct {
	Enabled    bool   `json:"enabled"`
	Broker     string `json:"broker"`
	ClientID   string `json:"client_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Topic      string `json:"topic"`
	QoS        byte   `json:"qos"`
	MaxRetries int    `json:"max_retries"`
	BackoffMS  int    `json:"backoff_ms"`
}

func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "plugtrack-notify"
	}
	if c.Topic == "" {
		c.Topic = "plugtrack/reminders"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS == 0 {
		c.BackoffMS = 100
	}
}

func (c *Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("notify: broker is required when notifications are enabled")
	}
	if c.QoS > 2 {
		return fmt.Errorf("notify: qos must be 0, 1 or 2")
	}
	return nil
}
