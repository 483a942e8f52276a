// Package config resolves displaymon settings from flags, environment and
// an optional config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Keys shared by flags, env vars (DISPLAYMON_*) and the config file.
const (
	KeyPollInterval     = "poll-interval"
	KeyDeliveryInterval = "delivery-interval"
	KeyCustomProcesses  = "custom-processes"
	KeyJournal          = "journal"
	KeyJournalPath      = "journal-path"
	KeyLogLevel         = "log-level"
	KeyLogFormat        = "log-format"
	KeyConfig           = "config"

	EnvPrefix  = "DISPLAYMON"
	configName = "displaymon"
)

// Config is the resolved runtime configuration.
type Config struct {
	PollInterval     time.Duration
	DeliveryInterval time.Duration
	CustomProcesses  []string
	Journal          bool
	JournalPath      string
	LogLevel         string
	LogFormat        string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		PollInterval:     2 * time.Second,
		DeliveryInterval: time.Second,
		LogLevel:         "info",
		LogFormat:        "auto",
	}
}

// AddFlags registers the watch/scan flags with their defaults.
func AddFlags(cmd *cobra.Command) {
	d := Default()
	cmd.Flags().Duration(KeyPollInterval, d.PollInterval, "how often to scan displays and processes")
	cmd.Flags().Duration(KeyDeliveryInterval, d.DeliveryInterval, "how often a pending event is delivered")
	cmd.Flags().StringSlice(KeyCustomProcesses, nil, "extra process names treated as screen sharing")
	cmd.Flags().Bool(KeyJournal, false, "append delivered events to the journal")
	cmd.Flags().String(KeyJournalPath, "", "journal database path (default ~/.config/displaymon/displaymon.db)")
	AddLoggingFlags(cmd)
	AddConfigFlag(cmd)
}

// AddLoggingFlags adds --log-level and --log-format.
func AddLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().String(KeyLogLevel, "info", "log level: debug|info|warn|error")
	cmd.Flags().String(KeyLogFormat, "auto", "log format: auto|console|json")
}

// AddConfigFlag adds --config.
func AddConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String(KeyConfig, "", "path to config file (overrides auto-discovery)")
}

// Bind wires a command's flags into v.
//
// Precedence (lowest to highest): defaults, config file, DISPLAYMON_* env vars, flags.
func Bind(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString(KeyConfig)
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "displaymon"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// Load reads and normalises the configuration from v. Non-positive
// intervals fall back to the defaults; process names are trimmed and
// blanks dropped.
func Load(v *viper.Viper) Config {
	d := Default()
	c := Config{
		PollInterval:     v.GetDuration(KeyPollInterval),
		DeliveryInterval: v.GetDuration(KeyDeliveryInterval),
		Journal:          v.GetBool(KeyJournal),
		JournalPath:      strings.TrimSpace(v.GetString(KeyJournalPath)),
		LogLevel:         strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat:        strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
	}

	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.DeliveryInterval <= 0 {
		c.DeliveryInterval = d.DeliveryInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}

	for _, raw := range v.GetStringSlice(KeyCustomProcesses) {
		// Env vars arrive as one comma-separated string.
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.CustomProcesses = append(c.CustomProcesses, name)
			}
		}
	}

	return c
}
