package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/id-contact/test-auth/internal/idjwt"
	"github.com/id-contact/test-auth/internal/logging"
)

// Config is the main configuration for the test-auth plugin.
type Config struct {
	ServerURL   string            `yaml:"server_url" json:"server_url"`
	InternalURL string            `yaml:"internal_url,omitempty" json:"internal_url,omitempty"`
	Server      ServerSettings    `yaml:"server" json:"server"`
	WithSession bool              `yaml:"with_session" json:"with_session"`
	Attributes  map[string]string `yaml:"attributes" json:"attributes"`
	SigningKey  KeyConfig         `yaml:"signing_privkey" json:"signing_privkey"`
	Encryption  KeyConfig         `yaml:"encryption_pubkey" json:"encryption_pubkey"`
	Metrics     MetricsConfig     `yaml:"metrics" json:"metrics"`
	Logging     logging.Config    `yaml:"logging" json:"logging"`
}

// ServerSettings contains settings for the HTTP listener.
type ServerSettings struct {
	Listen         string   `yaml:"listen" json:"listen"`
	ReadTimeout    Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout   Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout    Duration `yaml:"idle_timeout" json:"idle_timeout"`
	GracefulPeriod Duration `yaml:"graceful_period" json:"graceful_period"`
}

// KeyConfig holds a typed PEM key for signing or encryption.
type KeyConfig struct {
	Type string `yaml:"type" json:"type"` // RSA, EC
	Key  string `yaml:"key" json:"-"`     // PEM; never serialized back out
}

// Signer builds a JWS signer from a signing_privkey entry.
func (k KeyConfig) Signer() (*idjwt.Signer, error) {
	return idjwt.NewSigner(idjwt.KeyType(k.Type), []byte(k.Key))
}

// Encrypter builds a JWE encrypter from an encryption_pubkey entry.
func (k KeyConfig) Encrypter() (*idjwt.Encrypter, error) {
	return idjwt.NewEncrypter(idjwt.KeyType(k.Type), []byte(k.Key))
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Listen  string `yaml:"listen" json:"listen"`
	Path    string `yaml:"path" json:"path"`
}

// Duration is a time.Duration that can be unmarshaled from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerSettings{
			Listen:         ":8080",
			ReadTimeout:    Duration(30 * time.Second),
			WriteTimeout:   Duration(30 * time.Second),
			IdleTimeout:    Duration(60 * time.Second),
			GracefulPeriod: Duration(30 * time.Second),
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9090",
			Path:    "/metrics",
		},
		Logging: logging.DefaultConfig(),
	}
}

// SessionBaseURL returns the base URL advertised for session updates.
// Falls back to server_url when internal_url is not configured.
func (c *Config) SessionBaseURL() string {
	if c.InternalURL != "" {
		return c.InternalURL
	}
	return c.ServerURL
}

// Validate validates the configuration.
// Key parse failures are reported without echoing key material.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if _, err := url.Parse(c.ServerURL); err != nil {
		return fmt.Errorf("server_url is not a valid URL: %w", err)
	}
	if c.InternalURL != "" {
		if _, err := url.Parse(c.InternalURL); err != nil {
			return fmt.Errorf("internal_url is not a valid URL: %w", err)
		}
	}

	if c.Server.Listen == "" {
		return fmt.Errorf("server listen address is required")
	}

	if len(c.Attributes) == 0 {
		return fmt.Errorf("at least one attribute must be configured")
	}

	if _, err := c.SigningKey.Signer(); err != nil {
		return fmt.Errorf("signing_privkey: %w", err)
	}
	if _, err := c.Encryption.Encrypter(); err != nil {
		return fmt.Errorf("encryption_pubkey: %w", err)
	}

	return nil
}
