package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Transports understood by the check
const (
	TransportAuto   = "auto"
	TransportLocal  = "local"
	TransportESXCLI = "esxcli"
	TransportSSH    = "ssh"
)

// Config holds the application configuration
type Config struct {
	// Target
	Transport   string
	Host        string
	User        string
	Password    string
	Controller  string
	VD          string
	Timeout     time.Duration
	StorcliPath string
	ESXCLIPath  string
	Thumbprint  string
	Thumbprints map[string]string
	Replay      string

	// Output
	Product  string
	Perfdata bool
	Long     bool
	ShowHost bool
	Terse    bool
	JSON     bool
	Pretty   bool

	MaintenanceFile string
	Textfile        string
	NotifyURL       string
	LogLevel        string
	Debug           bool

	// Serve mode
	Port            string
	MetricsPath     string
	CollectInterval time.Duration
}

// New creates a new configuration from the environment with default values
func New() *Config {
	return &Config{
		Transport:   getEnv("TRANSPORT", TransportAuto),
		Controller:  "0",
		Timeout:     getEnvDuration("CHECK_TIMEOUT", 60*time.Second),
		StorcliPath: getEnv("STORCLI_PATH", ""),
		ESXCLIPath:  getEnv("ESXCLI_PATH", "/opt/vmware-vsphere-cli-distrib/lib/bin/esxcli/esxcli"),
		Thumbprints: ParseThumbprints(getEnv("ESX_THUMBPRINTS", "")),

		Product:  getEnv("PRODUCT", "RAID"),
		Perfdata: getEnvBool("ENABLE_PERFDATA", false),
		Long:     getEnvBool("ENABLE_LONG_OUTPUT", false),
		ShowHost: getEnvBool("SHOW_HOST", false),
		Terse:    getEnvBool("TERSE_OUTPUT", true),

		MaintenanceFile: getEnv("MAINTENANCE_FILE", "/tmp/NO_CHECK"),
		Textfile:        getEnv("METRICS_TEXTFILE", ""),
		NotifyURL:       getEnv("NOTIFY_URL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "warn"),

		Port:            getEnv("PORT", "9101"),
		MetricsPath:     getEnv("METRICS_PATH", "/metrics"),
		CollectInterval: getEnvDuration("COLLECT_INTERVAL", 5*time.Minute),
	}
}

// BindCheckFlags registers the check flags. Flag defaults come from the
// environment, so an explicit flag always wins.
func (c *Config) BindCheckFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Transport, "transport", c.Transport, "query transport: auto, local, esxcli or ssh")
	fs.StringVarP(&c.Host, "host", "H", c.Host, "remote host (esxcli or ssh transport)")
	fs.StringVarP(&c.User, "user", "u", c.User, "remote user")
	fs.StringVarP(&c.Password, "password", "p", c.Password, "remote password (ssh transport)")
	fs.StringVarP(&c.Controller, "controller", "c", c.Controller, "controller index")
	fs.StringVarP(&c.VD, "vd", "v", c.VD, "only check this virtual drive (\"238\" or \"0/238\")")
	fs.VarP(newTimeoutValue(&c.Timeout), "timeout", "t", "query timeout in seconds or as a duration")
	fs.StringVar(&c.StorcliPath, "storcli", c.StorcliPath, "storcli binary (default: first of storcli64, storcli, perccli64, perccli)")
	fs.StringVar(&c.ESXCLIPath, "esxcli", c.ESXCLIPath, "esxcli binary")
	fs.StringVar(&c.Thumbprint, "thumbprint", c.Thumbprint, "SSL thumbprint of the ESXi host")
	fs.StringVar(&c.Replay, "replay", c.Replay, "read captured tool output from this directory instead of running queries")

	fs.StringVar(&c.Product, "product", c.Product, "first word of the status line")
	fs.BoolVar(&c.Perfdata, "perfdata", c.Perfdata, "append performance data")
	fs.BoolVar(&c.Long, "long", c.Long, "append the long output block")
	fs.BoolVar(&c.ShowHost, "show-host", c.ShowHost, "append the target host")
	fs.BoolVar(&c.Terse, "terse", c.Terse, "short status line")
	fs.BoolVar(&c.JSON, "json", c.JSON, "print the report as JSON")
	fs.BoolVar(&c.Pretty, "pretty", c.Pretty, "print a colored report for humans")

	fs.StringVar(&c.MaintenanceFile, "maintenance-file", c.MaintenanceFile, "skip the check while this file exists")
	fs.StringVar(&c.Textfile, "textfile", c.Textfile, "also write Prometheus metrics to this file")
	fs.StringVar(&c.NotifyURL, "notify", c.NotifyURL, "shoutrrr URL notified when the check is not OK")
}

// BindServeFlags registers the exporter flags
func (c *Config) BindServeFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Port, "port", c.Port, "port to listen on")
	fs.StringVar(&c.MetricsPath, "metrics-path", c.MetricsPath, "path for metrics")
	fs.DurationVar(&c.CollectInterval, "collect-interval", c.CollectInterval, "interval between checks")
}

// BindGlobalFlags registers the flags shared by every command
func (c *Config) BindGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "debug logging with a full snapshot dump")
}

// ResolveTransport returns the transport to use. Auto picks esxcli for a
// remote host and the local tool otherwise.
func (c *Config) ResolveTransport() string {
	t := strings.ToLower(c.Transport)
	if t == "" || t == TransportAuto {
		if c.Host != "" {
			return TransportESXCLI
		}
		return TransportLocal
	}
	return t
}

// HostThumbprint returns the configured SSL thumbprint for the host
func (c *Config) HostThumbprint() string {
	if c.Thumbprint != "" {
		return c.Thumbprint
	}
	return c.Thumbprints[strings.ToLower(c.Host)]
}

// Validate checks the target settings
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.Replay != "" {
		return nil
	}
	switch c.ResolveTransport() {
	case TransportLocal:
	case TransportESXCLI, TransportSSH:
		if c.Host == "" {
			return errors.Errorf("%s transport requires a host (-H)", c.ResolveTransport())
		}
		if c.User == "" {
			return errors.Errorf("%s transport requires a user (-u)", c.ResolveTransport())
		}
	default:
		return errors.Errorf("unknown transport %q", c.Transport)
	}
	return nil
}

// ParseThumbprints reads "host=thumb,host=thumb" into a lookup keyed by lowercase host
func ParseThumbprints(s string) map[string]string {
	out := make(map[string]string)
	for _, entry := range strings.Split(s, ",") {
		host, thumb, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || host == "" || thumb == "" {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(host))] = strings.TrimSpace(thumb)
	}
	return out
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool accepts 1/true/yes as true and 0/false/no as false
func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := parseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseDuration accepts a Go duration or a plain number of seconds
func parseDuration(value string) (time.Duration, error) {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Errorf("invalid duration %q", value)
	}
	return time.Duration(seconds) * time.Second, nil
}

// timeoutValue is a pflag.Value for durations given in seconds or Go syntax
type timeoutValue time.Duration

func newTimeoutValue(p *time.Duration) *timeoutValue {
	return (*timeoutValue)(p)
}

func (t *timeoutValue) Set(s string) error {
	d, err := parseDuration(s)
	if err != nil {
		return err
	}
	*t = timeoutValue(d)
	return nil
}

func (t *timeoutValue) String() string {
	return time.Duration(*t).String()
}

func (t *timeoutValue) Type() string {
	return "duration"
}
