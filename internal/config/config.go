package config

import (
	"fmt"
	"time"
)

// Config represents the configs model.
type Config struct {
	// Application is the model of application configs.
	Application struct {
		// Name of the application.
		Name string `yaml:"name"`
		// BaseURL of the application.
		// It can be http://localhost:8080 during development and https://domain.com in production.
		BaseURL string `yaml:"base_url"`
		// Hostname and Port are used to derive the OAuth callback URLs.
		Hostname string `yaml:"hostname"`
		Port     int    `yaml:"port"`
		// PProf is a flag to enable/disable profiling.
		PProf bool `yaml:"pprof"`
	} `yaml:"application"`

	// HTTPServer is the model of the HTTP Server configs.
	HTTPServer struct {
		// Addr is the address of the HTTP server.
		Addr string `yaml:"addr"`
	} `yaml:"http_server"`

	// Logger is the model of the application logger configs.
	Logger struct {
		// Level of the logger.
		Level string `yaml:"level"`
		// Pretty is a flag that dictates whether the log output should be pretty (human-readable).
		Pretty bool `yaml:"pretty"`
	} `yaml:"logger"`

	Database struct {
		// Driver selects the user store. One of "postgres" and "mongo".
		Driver   string `yaml:"driver"`
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
		// Timeout applies to connection checks and index creation at startup.
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	// State holds the configs of the OAuth state store.
	State struct {
		// Driver is one of "memory" and "redis".
		Driver string `yaml:"driver"`
		// TTL is the max allowed time for a provider to invoke the callback API.
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"state"`

	Session struct {
		// Secret is the HMAC key for signing session tokens.
		Secret     string        `yaml:"secret"`
		TTL        time.Duration `yaml:"ttl"`
		CookieName string        `yaml:"cookie_name"`
	} `yaml:"session"`

	// GitHub OAuth related configs.
	GitHub struct {
		ClientID     string   `yaml:"client_id"`
		ClientSecret string   `yaml:"client_secret"`
		Scopes       []string `yaml:"scopes"`
	} `yaml:"github"`

	// Routes are the application paths that the OAuth flow ends on.
	Routes struct {
		SuccessRedirect string `yaml:"success_redirect"`
		FailureRedirect string `yaml:"failure_redirect"`
	} `yaml:"routes"`

	// AllowedOrigins is the list of origins that the CORS middleware allows.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// CallbackURL returns the URL that the given provider must call back after authentication.
func (c Config) CallbackURL(provider string) string {
	return fmt.Sprintf("http://%s:%d/auth/%s/callback", c.Application.Hostname, c.Application.Port, provider)
}

// Load loads and returns the config value.
func Load() (Config, error) {
	return loadWithViper()
}

// LoadMock provides a mock instance of the config for testing purposes.
func LoadMock() Config {
	cfg := Config{}

	cfg.Application.Name = "example-application"
	cfg.Application.BaseURL = "http://localhost:8080"
	cfg.Application.Hostname = "localhost"
	cfg.Application.Port = 8080
	cfg.HTTPServer.Addr = "localhost:8080"

	cfg.Logger.Level = "debug"
	cfg.Logger.Pretty = true

	cfg.State.Driver = "memory"
	cfg.State.TTL = time.Minute

	cfg.Session.Secret = "example-session-secret"
	cfg.Session.TTL = time.Hour
	cfg.Session.CookieName = "session"

	cfg.GitHub.ClientID = "example-client-id"
	cfg.GitHub.ClientSecret = "example-client-secret"
	cfg.GitHub.Scopes = []string{"read:user", "user:email"}

	cfg.Routes.SuccessRedirect = "/app"
	cfg.Routes.FailureRedirect = "/signin"

	cfg.AllowedOrigins = []string{"http://localhost"}

	return cfg
}
