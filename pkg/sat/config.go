package sat

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// ConfigPath is where LoadConfig looks when no path is given; commands point it next to the executable
var ConfigPath = "config.json"

// Config holds solver locations and the defaults of a solving run. It is read from a JSON file
// (keys below) and then overridden by the PCMAX_* environment variables, a .env file included.
type Config struct {
	KissatPath  string        `mapstructure:"kissatPath"`
	CadicalPath string        `mapstructure:"cadicalPath"`
	MinisatPath string        `mapstructure:"minisatPath"`
	CPSolverCmd string        `mapstructure:"cpSolverCmd"`
	Solver      string        `mapstructure:"solver"`
	Encoding    string        `mapstructure:"encoding"`
	Workers     int           `mapstructure:"workers"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SkipTrivial bool          `mapstructure:"skipTrivial"`
}

var envKeys = map[string]string{
	"PCMAX_KISSAT":       "kissatPath",
	"PCMAX_CADICAL":      "cadicalPath",
	"PCMAX_MINISAT":      "minisatPath",
	"PCMAX_CP_SOLVER":    "cpSolverCmd",
	"PCMAX_SOLVER":       "solver",
	"PCMAX_ENCODING":     "encoding",
	"PCMAX_WORKERS":      "workers",
	"PCMAX_TIMEOUT":      "timeout",
	"PCMAX_SKIP_TRIVIAL": "skipTrivial",
}

func DefaultConfig() Config {
	return Config{
		KissatPath:  "kissat",
		CadicalPath: "cadical",
		MinisatPath: "minisat",
		Solver:      "gini",
		Encoding:    Sequential.String(),
		SkipTrivial: true,
	}
}

// LoadConfig builds the configuration from the defaults, the JSON file at path (ConfigPath when
// empty, ignored when missing) and the environment
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	config := DefaultConfig()
	if path == "" {
		path = ConfigPath
	}

	bytes, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	} else if err == nil {
		var inputJson map[string]any
		if err := json.Unmarshal(bytes, &inputJson); err != nil {
			return Config{}, fmt.Errorf("cannot parse config file %v: %w", path, err)
		}
		if err := decodeConfig(inputJson, &config); err != nil {
			return Config{}, fmt.Errorf("invalid config file %v: %w", path, err)
		}
	}

	environment := make(map[string]any)
	for variable, key := range envKeys {
		if value := strings.TrimSpace(os.Getenv(variable)); value != "" {
			environment[key] = value
		}
	}
	if err := decodeConfig(environment, &config); err != nil {
		return Config{}, fmt.Errorf("invalid environment configuration: %w", err)
	}

	return config, nil
}

// ExecutablePath returns the configured path of an external solver
func (config Config) ExecutablePath(solver string) (string, error) {
	paths := map[string]string{
		"kissat":  config.KissatPath,
		"cadical": config.CadicalPath,
		"minisat": config.MinisatPath,
	}
	path, ok := paths[solver]
	if !ok || path == "" {
		return "", fmt.Errorf("solver \"%v\" is not present in config", solver)
	}
	return path, nil
}

func decodeConfig(input map[string]any, config *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           config,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
