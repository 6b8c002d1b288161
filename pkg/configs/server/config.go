package server

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Configuration of myceliumd.
//
// To get a Config, use Load or TrySeal.
type Config struct {
	server    *ServerConfig
	database  *DatabaseConfig
	templates *TemplatesConfig
	warnings  []string
}

func (c *Config) Server() *ServerConfig {
	return c.server
}

func (c *Config) Database() *DatabaseConfig {
	return c.database
}

func (c *Config) Templates() *TemplatesConfig {
	return c.templates
}

// Warnings are found while loading, and not fatal.
func (c *Config) Warnings() []string {
	return c.warnings
}

type ServerConfig struct {
	port           int
	allowedHosts   []string
	allowedOrigins []string
	logLevel       string
	authSecret     string
}

// Port to listen.
func (s *ServerConfig) Port() int {
	return s.port
}

// Hosts which can be in the Host header. "*" allows any host.
func (s *ServerConfig) AllowedHosts() []string {
	return s.allowedHosts
}

// Origins allowed by CORS.
func (s *ServerConfig) AllowedOrigins() []string {
	return s.allowedOrigins
}

// one of "debug", "info", "warn", "error" or "off".
func (s *ServerConfig) LogLevel() string {
	return s.logLevel
}

// Secret to verify HS256 bearer tokens. Empty means no authentication.
func (s *ServerConfig) AuthSecret() string {
	return s.authSecret
}

type DatabaseConfig struct {
	user     string
	password string
	name     string
	host     string
	port     int
	socket   string
}

func (d *DatabaseConfig) User() string {
	return d.user
}

func (d *DatabaseConfig) Name() string {
	return d.name
}

func (d *DatabaseConfig) Host() string {
	return d.host
}

func (d *DatabaseConfig) Port() int {
	return d.port
}

// Path to the unix domain socket of PostgreSQL. It wins over Host and Port.
func (d *DatabaseConfig) Socket() string {
	return d.socket
}

// URL is a connection string for the database.
//
// With Socket, the host parameter is the directory where the socket is.
func (d *DatabaseConfig) URL() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.user, d.password),
		Path:   "/" + d.name,
	}
	if d.socket != "" {
		u.RawQuery = url.Values{"host": {filepath.Dir(d.socket)}}.Encode()
	} else {
		u.Host = fmt.Sprintf("%s:%d", d.host, d.port)
	}
	return u.String()
}

// Redacted is URL without password, for logs.
func (d *DatabaseConfig) Redacted() string {
	u, err := url.Parse(d.URL())
	if err != nil {
		return ""
	}
	return u.Redacted()
}

type TemplatesConfig struct {
	directory string
	watch     bool
}

// Directory where template files are.
func (t *TemplatesConfig) Directory() string {
	return t.directory
}

// Watch tells whether the server should stop when template files are changed.
func (t *TemplatesConfig) Watch() bool {
	return t.watch
}
