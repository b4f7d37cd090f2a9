package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/0ya-sh0/GoChatLog/internal/hlog"
)

const ENV_PREFIX = "CHATLOG"

const DEFAULT_HOST = "localhost:8080"
const DEFAULT_PATH = "/ws/"
const DEFAULT_ADDR = "localhost:8080"

// Client is the resolved configuration of the terminal client.
type Client struct {
	Scheme   string
	Host     string
	Path     string
	Username string
	Cookie   string
	LogFile  string
	Verbose  bool
}

// Server is the resolved configuration of the dev broadcast server.
type Server struct {
	Addr    string
	Verbose bool
}

// New returns a viper instance reading CHATLOG_* variables and, when present,
// a config file. An explicit configFile must exist; the default chatlog.yaml
// lookup is optional.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName("chatlog")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.chatlog")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func ClientFlags(flags *pflag.FlagSet) {
	flags.String("scheme", "ws", "websocket scheme, ws or wss")
	flags.String("host", DEFAULT_HOST, "chat server host[:port]")
	flags.String("path", DEFAULT_PATH, "websocket endpoint path")
	flags.StringP("username", "u", "", "username announced to the server")
	flags.String("cookie", "", "raw Cookie header sent with the handshake")
	flags.String("log-file", hlog.DefaultLogFile(), "diagnostic log file")
	flags.BoolP("verbose", "v", false, "debug level logging")
}

func ServerFlags(flags *pflag.FlagSet) {
	flags.String("addr", DEFAULT_ADDR, "listen address")
	flags.BoolP("verbose", "v", false, "debug level logging")
}

func LoadClient(v *viper.Viper, flags *pflag.FlagSet) (Client, error) {
	if err := v.BindPFlags(flags); err != nil {
		return Client{}, fmt.Errorf("bind flags: %w", err)
	}
	cfg := Client{
		Scheme:   v.GetString("scheme"),
		Host:     v.GetString("host"),
		Path:     v.GetString("path"),
		Username: v.GetString("username"),
		Cookie:   v.GetString("cookie"),
		LogFile:  v.GetString("log-file"),
		Verbose:  v.GetBool("verbose"),
	}
	if cfg.Scheme != "ws" && cfg.Scheme != "wss" {
		return Client{}, fmt.Errorf("invalid scheme %q: want ws or wss", cfg.Scheme)
	}
	if cfg.Host == "" {
		return Client{}, errors.New("host is required")
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		cfg.Path = "/" + cfg.Path
	}
	return cfg, nil
}

func LoadServer(v *viper.Viper, flags *pflag.FlagSet) (Server, error) {
	if err := v.BindPFlags(flags); err != nil {
		return Server{}, fmt.Errorf("bind flags: %w", err)
	}
	cfg := Server{
		Addr:    v.GetString("addr"),
		Verbose: v.GetBool("verbose"),
	}
	if cfg.Addr == "" {
		return Server{}, errors.New("addr is required")
	}
	return cfg, nil
}

// URL is the websocket endpoint. The username travels as a query parameter.
func (c Client) URL() url.URL {
	u := url.URL{Scheme: c.Scheme, Host: c.Host, Path: c.Path}
	if c.Username != "" {
		u.RawQuery = url.Values{"username": {c.Username}}.Encode()
	}
	return u
}
