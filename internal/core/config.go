package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config contains all of the configuration options available to the server
// and its supporting tools.
type Config struct {
	// Hostname or IP address on which the server will listen for connections.
	Hostname string `mapstructure:"hostname"`
	// Port on which the game server will listen.
	Port int `mapstructure:"port"`
	// Maximum number of concurrent connections the server will allow.
	MaxConnections int `mapstructure:"max_connections"`
	// Size in bytes of the per-connection receive buffer.
	MaxPacketSize int `mapstructure:"max_packet_size"`
	// Client version accepted at login. Anything else is rejected.
	ClientVersion string `mapstructure:"client_version"`
	// Message of the day sent to clients after a successful login.
	Motd string `mapstructure:"motd"`
	// Duration of inactivity after which the watchdog evicts a connection.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	Logging struct {
		// Full path to file to which logs will be written. Blank will write to stdout.
		LogFilePath string `mapstructure:"log_file_path"`
		// Minimum level of a log required to be written. Options: debug, info, warn, error
		LogLevel string `mapstructure:"log_level"`
		// Whether or not to include the caller in log lines.
		IncludeCaller bool `mapstructure:"include_caller"`
	} `mapstructure:"logging"`

	Database struct {
		// Engine selects the database implementation; "sqlite" or "postgres".
		Engine string `mapstructure:"engine"`
		// Path to the database file when the engine is sqlite.
		Filename string `mapstructure:"filename"`
		// Hostname of the Postgres database instance.
		Host string `mapstructure:"host"`
		// Port on db_host on which the Postgres instance is accepting connections.
		Port int `mapstructure:"port"`
		// Name of the database for the server.
		Name string `mapstructure:"name"`
		// Username and password of a user with full RW privileges to ${db_name}.
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		// Set to verify-full if the Postgres instance supports SSL.
		SSLMode string `mapstructure:"sslmode"`
		// Enable database-level query logging.
		LoggingEnabled bool `mapstructure:"logging_enabled"`
	} `mapstructure:"database"`

	Scripting struct {
		// Enable the Lua hook engine.
		Enabled bool `mapstructure:"enabled"`
		// Directory from which *.lua hook files are loaded.
		ScriptsDir string `mapstructure:"scripts_dir"`
	} `mapstructure:"scripting"`

	Debugging struct {
		// Enable extra info-providing mechanisms for the server.
		PprofEnabled bool `mapstructure:"pprof_enabled"`
		// Port on which a pprof server will be started if debug mode is enabled.
		PprofPort int `mapstructure:"pprof_port"`
	} `mapstructure:"debugging"`
}

const envVarPrefix = "WICKED"

// LoadConfig initializes Viper with the contents of the config file under configPath.
func LoadConfig(configPath string) *Config {
	viper.AddConfigPath(configPath)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix(envVarPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("error reading config file: %v\n", err)
		os.Exit(1)
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, database.host can be set using: <envVarPrefix>_DATABASE_HOST
	for _, k := range viper.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := viper.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			fmt.Printf("error binding %s to %s\n", k, envVarPrefix+"_"+envVar)
			os.Exit(1)
		}
	}

	config := DefaultConfig()
	if err := viper.Unmarshal(config); err != nil {
		fmt.Printf("error unmarshaling config object: %v\n", err)
		os.Exit(1)
	}
	return config
}

// DefaultConfig returns a Config with every option set to its default value.
func DefaultConfig() *Config {
	config := &Config{
		Hostname:       "127.0.0.1",
		Port:           7171,
		MaxConnections: 100,
		MaxPacketSize:  1200,
		ClientVersion:  "0.1.0",
		Motd:           "Welcome to the world!",
		IdleTimeout:    15 * time.Second,
	}
	config.Logging.LogLevel = "info"
	config.Database.Engine = "sqlite"
	config.Database.Filename = "wicked.db"
	return config
}

// ListenAddress returns the full address on which the game server listens.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Hostname, c.Port)
}

const databaseURITemplate = "host=%s port=%d dbname=%s user=%s password=%s sslmode=%s"

// DatabaseURL returns a Postgres connection string generated from the
// provided config values.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		databaseURITemplate,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.Username,
		c.Database.Password,
		c.Database.SSLMode,
	)
}
