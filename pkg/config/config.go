package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/cbodonnell/snakes/pkg/game/constants"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable the server reads
const EnvPrefix = "SNL_"

const PlayerCountPrompt = "Enter number of players (3-5): "

type Config struct {
	// Players is 0 when neither the flag nor the environment set it
	Players     int
	TCPPort     int
	WSPort      int
	APIPort     int
	// WSOrigins are host patterns browsers may open WebSocket connections
	// from, besides the server's own host
	WSOrigins   []string
	TLS         *TLSConfig
	EventLog    string
	Scores      string
	Migrations  string
	LogLevel    string
	GracePeriod time.Duration
	// Seed for the die; 0 seeds from the clock
	Seed int64
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(filenames ...string) error {
	for _, filename := range filenames {
		if err := godotenv.Load(filename); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %v", filename, err)
		}
	}
	return nil
}

// Parse reads the configuration from args, falling back to SNL_* variables
// looked up with getenv and then to the defaults.
func Parse(name string, args []string, getenv func(string) string) (*Config, error) {
	env := func(key string) string {
		return strings.TrimSpace(getenv(EnvPrefix + key))
	}

	var errs []error
	envInt := func(key string, def int) int {
		v := env(key)
		if v == "" {
			return def
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s%s %q: %v", EnvPrefix, key, v, err))
			return def
		}
		return i
	}
	envString := func(key string, def string) string {
		if v := env(key); v != "" {
			return v
		}
		return def
	}
	envDuration := func(key string, def time.Duration) time.Duration {
		v := env(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s%s %q: %v", EnvPrefix, key, v, err))
			return def
		}
		return d
	}

	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	players := fset.String("players", env("PLAYERS"), "Number of players (3-5); prompted for when unset")
	tcpPort := fset.Int("tcp-port", envInt("TCP_PORT", constants.DefaultTCPPort), "TCP port to listen on")
	wsPort := fset.Int("ws-port", envInt("WS_PORT", 0), "WebSocket port to listen on (0 disables)")
	wsOrigins := fset.String("ws-origins", env("WS_ORIGINS"), "Comma-separated extra origin host patterns allowed to open WebSocket connections")
	apiPort := fset.Int("api-port", envInt("API_PORT", 0), "HTTP API port to listen on (0 disables)")
	tlsCertFile := fset.String("tls-cert-file", env("TLS_CERT_FILE"), "TLS certificate for the WebSocket and API servers")
	tlsKeyFile := fset.String("tls-key-file", env("TLS_KEY_FILE"), "TLS key for the WebSocket and API servers")
	eventLog := fset.String("event-log", envString("EVENT_LOG", "game.log"), "File the game event log is appended to")
	scoresURL := fset.String("scores", envString("SCORES", "file://scores.txt"), "Score store (file://, sqlite:// or postgresql://)")
	migrations := fset.String("migrations", envString("MIGRATIONS", "./migrations"), "Directory with SQL migrations")
	logLevel := fset.String("log-level", envString("LOG_LEVEL", "info"), "Log level")
	grace := fset.Duration("grace-period", envDuration("GRACE_PERIOD", constants.DefaultGracePeriod), "Pause between a win and the next round")
	seed := fset.Int64("seed", int64(envInt("SEED", 0)), "Die seed (0 seeds from the clock)")
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		TCPPort:     *tcpPort,
		WSPort:      *wsPort,
		APIPort:     *apiPort,
		EventLog:    *eventLog,
		Scores:      *scoresURL,
		Migrations:  *migrations,
		LogLevel:    *logLevel,
		GracePeriod: *grace,
		Seed:        *seed,
	}
	for _, origin := range strings.Split(*wsOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.WSOrigins = append(cfg.WSOrigins, origin)
		}
	}
	if *players != "" {
		n, err := ParsePlayerCount(*players)
		if err != nil {
			return nil, err
		}
		cfg.Players = n
	}
	if *tlsCertFile != "" || *tlsKeyFile != "" {
		if *tlsCertFile == "" || *tlsKeyFile == "" {
			return nil, fmt.Errorf("both a TLS certificate and key are required")
		}
		cfg.TLS = &TLSConfig{CertFile: *tlsCertFile, KeyFile: *tlsKeyFile}
	}
	if cfg.GracePeriod <= 0 {
		return nil, fmt.Errorf("grace period must be positive, got %s", cfg.GracePeriod)
	}
	return cfg, nil
}

// ParsePlayerCount validates a player count given as text.
func ParsePlayerCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid player count %q: not a number", s)
	}
	if n < constants.MinPlayers || n > constants.MaxPlayers {
		return 0, fmt.Errorf("invalid player count %d: must be between %d and %d", n, constants.MinPlayers, constants.MaxPlayers)
	}
	return n, nil
}

// PromptPlayerCount asks for the player count on out and reads one line
// from in.
func PromptPlayerCount(in io.Reader, out io.Writer) (int, error) {
	if _, err := io.WriteString(out, PlayerCountPrompt); err != nil {
		return 0, fmt.Errorf("failed to write prompt: %v", err)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return 0, fmt.Errorf("failed to read player count: %v", err)
	}
	return ParsePlayerCount(line)
}
