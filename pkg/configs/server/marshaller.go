package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServerPort     = 8000
	DefaultDatabasePort   = 5432
	DefaultAllowedHosts   = "localhost,127.0.0.1"
	DefaultAllowedOrigins = "*"
	DefaultLogLevel       = "info"
	DefaultTemplatesDir   = "assets/templates"
)

// Environment variables overriding the config file.
const (
	EnvPostgresUser     = "POSTGRES_USER"
	EnvPostgresPassword = "POSTGRES_PASSWORD"
	EnvPostgresDB       = "POSTGRES_DB"
	EnvPostgresHost     = "POSTGRES_HOST"
	EnvPostgresPort     = "POSTGRES_PORT"
	EnvPostgresSocket   = "POSTGRES_SOCKET"
	EnvAllowedHosts     = "ALLOWED_HOSTS"
	EnvAllowedOrigins   = "ALLOWED_ORIGINS"
	EnvLogLevel         = "LOG_LEVEL"
	EnvServerPort       = "SERVER_PORT"
	EnvTemplatesDir     = "TEMPLATES_DIR"
	EnvAuthSecret       = "AUTH_SECRET"
	EnvWatchTemplates   = "WATCH_TEMPLATES"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

// Configuration of myceliumd, as written in a file.
//
// Ports are strings, so that non-numeric values are reported with their names.
type ConfigMarshall struct {
	Server    *ServerConfigMarshall    `yaml:"server"`
	Database  *DatabaseConfigMarshall  `yaml:"database"`
	Templates *TemplatesConfigMarshall `yaml:"templates"`
}

type ServerConfigMarshall struct {
	Port           string `yaml:"port,omitempty"`
	AllowedHosts   string `yaml:"allowedHosts,omitempty"`
	AllowedOrigins string `yaml:"allowedOrigins,omitempty"`
	LogLevel       string `yaml:"logLevel,omitempty"`
	AuthSecret     string `yaml:"authSecret,omitempty"`
}

type DatabaseConfigMarshall struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Host     string `yaml:"host,omitempty"`
	Port     string `yaml:"port,omitempty"`
	Socket   string `yaml:"socket,omitempty"`
}

type TemplatesConfigMarshall struct {
	Directory string `yaml:"directory,omitempty"`
	Watch     string `yaml:"watch,omitempty"`
}

var _ Marshalled[*Config] = &ConfigMarshall{}

func (c *ConfigMarshall) trySeal(path string) *Config {
	db, warnings := nonnil(c.Database, path+".database").trySeal(path + ".database")

	server := c.Server
	if server == nil {
		server = &ServerConfigMarshall{}
	}
	templates := c.Templates
	if templates == nil {
		templates = &TemplatesConfigMarshall{}
	}

	return &Config{
		server:    server.trySeal(path + ".server"),
		database:  db,
		templates: templates.trySeal(path + ".templates"),
		warnings:  warnings,
	}
}

func (s *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	logLevel := strings.ToLower(orDefault(s.LogLevel, DefaultLogLevel))
	return &ServerConfig{
		port:           port(orDefault(s.Port, strconv.Itoa(DefaultServerPort)), key(path, "port", EnvServerPort)),
		allowedHosts:   list(orDefault(s.AllowedHosts, DefaultAllowedHosts)),
		allowedOrigins: list(orDefault(s.AllowedOrigins, DefaultAllowedOrigins)),
		logLevel:       logLevel,
		authSecret:     s.AuthSecret,
	}
}

func (d *DatabaseConfigMarshall) trySeal(path string) (*DatabaseConfig, []string) {
	conf := &DatabaseConfig{
		user:     required(d.User, key(path, "user", EnvPostgresUser)),
		password: required(d.Password, key(path, "password", EnvPostgresPassword)),
		name:     required(d.Name, key(path, "name", EnvPostgresDB)),
		socket:   d.Socket,
	}

	if d.Socket != "" {
		warnings := []string{}
		if d.Host != "" {
			warnings = append(warnings, fmt.Sprintf("%s.socket is used, and %s.host is ignored", path, path))
		}
		return conf, warnings
	}

	conf.host = required(d.Host, key(path, "host", EnvPostgresHost)+" (or "+key(path, "socket", EnvPostgresSocket)+")")
	conf.port = port(orDefault(d.Port, strconv.Itoa(DefaultDatabasePort)), key(path, "port", EnvPostgresPort))
	return conf, nil
}

func (t *TemplatesConfigMarshall) trySeal(path string) *TemplatesConfig {
	watch := false
	if t.Watch != "" {
		w, err := strconv.ParseBool(t.Watch)
		if err != nil {
			panic(fmt.Errorf("%s should be a boolean: %s", key(path, "watch", EnvWatchTemplates), t.Watch))
		}
		watch = w
	}
	return &TemplatesConfig{
		directory: orDefault(t.Directory, DefaultTemplatesDir),
		watch:     watch,
	}
}

// OverrideWithEnv overwrites values with non-empty environment variables.
func (c *ConfigMarshall) OverrideWithEnv(getenv func(string) string) {
	if c.Server == nil {
		c.Server = &ServerConfigMarshall{}
	}
	if c.Database == nil {
		c.Database = &DatabaseConfigMarshall{}
	}
	if c.Templates == nil {
		c.Templates = &TemplatesConfigMarshall{}
	}

	for key, dest := range map[string]*string{
		EnvPostgresUser:     &c.Database.User,
		EnvPostgresPassword: &c.Database.Password,
		EnvPostgresDB:       &c.Database.Name,
		EnvPostgresHost:     &c.Database.Host,
		EnvPostgresPort:     &c.Database.Port,
		EnvPostgresSocket:   &c.Database.Socket,
		EnvAllowedHosts:     &c.Server.AllowedHosts,
		EnvAllowedOrigins:   &c.Server.AllowedOrigins,
		EnvLogLevel:         &c.Server.LogLevel,
		EnvServerPort:       &c.Server.Port,
		EnvAuthSecret:       &c.Server.AuthSecret,
		EnvTemplatesDir:     &c.Templates.Directory,
		EnvWatchTemplates:   &c.Templates.Watch,
	} {
		if v := getenv(key); v != "" {
			*dest = v
		}
	}
}

// Load reads the config file at filepath, and then overrides it with environment variables.
//
// When filepath is empty, only environment variables are used.
// getenv is usually os.Getenv.
//
// # Returns
//
// - *Config
//
// - error: when the file can not be read, or some values are missing or invalid.
func Load(filepath string, getenv func(string) string) (*Config, error) {
	m := &ConfigMarshall{}
	if filepath != "" {
		content, err := os.ReadFile(filepath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(content, m); err != nil {
			return nil, err
		}
	}
	m.OverrideWithEnv(getenv)
	return Seal(m)
}

// Seal is TrySeal returning an error instead of panic.
func Seal(m *ConfigMarshall) (conf *Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch r := r.(type) {
			case error:
				err = fmt.Errorf("invalid configuration: %w", r)
			default:
				err = fmt.Errorf("invalid configuration: %v", r)
			}
		}
	}()
	return TrySeal(m), nil
}

// key names a value both in the file and in environment variables.
func key(path string, name string, env string) string {
	return fmt.Sprintf("%s.%s ($%s)", path, name, env)
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}

func orDefault(v string, d string) string {
	if v == "" {
		return d
	}
	return v
}

func port(v string, path string) int {
	p, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || p <= 0 || 65535 < p {
		panic(fmt.Errorf("%s should be a port number: %s", path, v))
	}
	return p
}

// list splits comma-separated values, dropping empty ones.
func list(v string) []string {
	ret := []string{}
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			ret = append(ret, s)
		}
	}
	return ret
}
