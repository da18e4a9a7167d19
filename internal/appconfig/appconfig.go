// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting the benchmark
// post-processing configuration.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/mwiater/auctionbench/internal/latency"
	"github.com/mwiater/auctionbench/internal/normalize"
	"github.com/mwiater/auctionbench/internal/render"
)

const (
	// DefaultConfigPath is the default path to the configuration file.
	DefaultConfigPath = "config/config.json"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug        bool    `mapstructure:"debug" json:"debug"`
	LogFile      string  `mapstructure:"logFile" json:"logFile,omitempty"`
	OutputFormat string  `mapstructure:"outputFormat" json:"outputFormat"`
	OutputDir    string  `mapstructure:"outputDir" json:"outputDir"`
	TestDuration float64 `mapstructure:"testDuration" json:"testDuration"`

	Results Results           `mapstructure:"results" json:"results"`
	Micro   render.MicroSweep `mapstructure:"micro" json:"micro"`
	Network normalize.Sweep   `mapstructure:"network" json:"network"`
	Systems []SystemConfig    `mapstructure:"systems" json:"systems"`
	Inputs  Inputs            `mapstructure:"inputs" json:"inputs"`

	ConfigPath string `mapstructure:"-" json:"-"`
}

// Results holds the locations of the raw benchmark outputs.
type Results struct {
	ThroughputCSV          string `mapstructure:"throughputCSV" json:"throughputCSV"`
	MicroCSV               string `mapstructure:"microCSV" json:"microCSV"`
	MicroOutputDir         string `mapstructure:"microOutputDir" json:"microOutputDir"`
	Addax2RoundDir         string `mapstructure:"addax2RoundDir" json:"addax2RoundDir"`
	AddaxNonInteractiveDir string `mapstructure:"addaxNonInteractiveDir" json:"addaxNonInteractiveDir"`
}

// SystemConfig is one system of the network comparison together with how
// it is drawn.
type SystemConfig struct {
	normalize.System   `mapstructure:",squash"`
	render.SeriesStyle `mapstructure:",squash"`
}

// Inputs configures the MP-SPDZ bid file generator.
type Inputs struct {
	Dir  string `mapstructure:"dir" json:"dir"`
	Seed int64  `mapstructure:"seed" json:"seed"`
}

// DefaultSystems are the three systems of the network comparison.
func DefaultSystems() []SystemConfig {
	return []SystemConfig{
		{
			System: normalize.System{
				Name:    "Obsidian",
				Dir:     "obsidian/results",
				Pattern: "network_benchmark_{bidders}_{domain}_{rtt}ms.csv",
				TimeCol: "online_time_ms",
				CommCol: "online_comm_bytes",
			},
			SeriesStyle: render.SeriesStyle{Color: "#2ca02c", Marker: "*", Label: "Obsidian"},
		},
		{
			System: normalize.System{
				Name:    "Addax",
				Dir:     "addax/auction/auction-local-computation/results",
				Pattern: "addax_network_{bidders}_{domain}_{rtt}ms.csv",
				TimeCol: "online_time_s",
				CommCol: "comm_bytes_kb",
			},
			SeriesStyle: render.SeriesStyle{Color: "#1f77b4", Marker: "D", Label: "Addax"},
		},
		{
			System: normalize.System{
				Name:    "MP-SPDZ",
				Dir:     "mp-spdz-0.3.9/results",
				Pattern: "mpspdz_network_{bidders}_{rtt}ms.csv",
				TimeCol: "online_time_s",
				CommCol: "comm_bytes_kb",
			},
			SeriesStyle: render.SeriesStyle{Color: "#ff7f0e", Marker: "o", Label: "MP-SPDZ"},
		},
	}
}

// SetDefaults registers every default on v. Keys are set leaf by leaf so a
// config file that overrides one sweep value keeps the others.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("logFile", "")
	v.SetDefault("outputFormat", "png")
	v.SetDefault("outputDir", "plots")
	v.SetDefault("testDuration", latency.DefaultTestDuration)

	v.SetDefault("results.throughputCSV", "obsidian/throughput_results.csv")
	v.SetDefault("results.microCSV", "results/microbenchmark_results.csv")
	v.SetDefault("results.microOutputDir", "results")
	v.SetDefault("results.addax2RoundDir", "addax/auction/throughput/results_2round")
	v.SetDefault("results.addaxNonInteractiveDir", "addax/auction/throughput/results_noninteractive")

	micro := render.DefaultMicroSweep()
	v.SetDefault("micro.bidders", micro.Bidders)
	v.SetDefault("micro.fixedDomain", micro.FixedDomain)
	v.SetDefault("micro.domains", micro.Domains)
	v.SetDefault("micro.fixedBidders", micro.FixedBidders)

	v.SetDefault("network.rtts", []int{20, 40})
	v.SetDefault("network.domains", []int{100, 1000, 10000})
	v.SetDefault("network.bidders", []int{25, 50, 100})
	v.SetDefault("network.fixedDomain", 1000)
	v.SetDefault("network.fixedBidders", 100)
	v.SetDefault("network.commRTT", 20)

	v.SetDefault("systems", systemMaps(DefaultSystems()))

	v.SetDefault("inputs.dir", "Player-Data")
	v.SetDefault("inputs.seed", 42)
}

// systemMaps flattens systems into the map form a config file decodes from.
func systemMaps(systems []SystemConfig) []any {
	out := make([]any, len(systems))
	for i, s := range systems {
		out[i] = map[string]any{
			"name":    s.Name,
			"dir":     s.Dir,
			"pattern": s.Pattern,
			"timeCol": s.TimeCol,
			"commCol": s.CommCol,
			"color":   s.Color,
			"marker":  s.Marker,
			"label":   s.Label,
		}
	}
	return out
}

// Default returns the configuration used when no file is present.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Decode(v)
	if err != nil {
		panic(fmt.Sprintf("appconfig: invalid defaults: %v", err))
	}
	return cfg
}

// Decode unmarshals v into a Config and checks the values a schema cannot
// see, such as flag overrides.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path into a fresh viper instance on top of the defaults. The
// file is validated against the embedded schema first. A missing file at
// DefaultConfigPath yields the defaults; any other missing path is an
// error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	v := viper.New()
	SetDefaults(v)

	if err := ReadInto(v, path); err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath {
			return Decode(v)
		}
		return Config{}, err
	}
	return Decode(v)
}

// ReadInto validates the file at path and merges it into v.
func ReadInto(v *viper.Viper, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := ValidateJSON(raw); err != nil {
		return fmt.Errorf("config file %q: %w", path, err)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	return nil
}

// Validate checks the decoded values.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.OutputFormat) {
	case "png", "svg", "pdf":
	default:
		errs = append(errs, fmt.Errorf("outputFormat must be png, svg or pdf, got %q", c.OutputFormat))
	}
	if c.TestDuration <= 0 {
		errs = append(errs, fmt.Errorf("testDuration must be positive, got %v", c.TestDuration))
	}
	seen := make(map[string]bool)
	for _, s := range c.Systems {
		if s.Name == "" {
			errs = append(errs, errors.New("system without a name"))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("system %q listed twice", s.Name))
		}
		seen[s.Name] = true
		if s.Color != "" {
			if _, err := render.ParseColor(s.Color); err != nil {
				errs = append(errs, fmt.Errorf("system %q: %w", s.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// LogFilePath returns the configured log file. Empty means log to stdout
// only.
func (c Config) LogFilePath() string {
	return strings.TrimSpace(c.LogFile)
}

// NormalizeSystems returns the network systems in configured order.
func (c Config) NormalizeSystems() []normalize.System {
	out := make([]normalize.System, len(c.Systems))
	for i, s := range c.Systems {
		out[i] = s.System
	}
	return out
}

// Style builds the chart style: the defaults with each configured system's
// color, marker and label applied.
func (c Config) Style() render.Style {
	st := render.DefaultStyle()
	for _, s := range c.Systems {
		ss := st.For(s.Name)
		if s.Color != "" {
			ss.Color = s.Color
		}
		if s.Marker != "" {
			ss.Marker = s.Marker
		}
		if s.Label != "" {
			ss.Label = s.Label
		}
		st = st.WithSeries(s.Name, ss)
	}
	if c.OutputFormat != "" {
		st.Format = strings.ToLower(c.OutputFormat)
	}
	return st
}
