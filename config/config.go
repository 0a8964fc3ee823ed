// Package config turns invocation parameters into a validated server
// configuration. Nothing here touches the network, so a bad value is always
// rejected before the listening socket is created.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/involk-secure-1609/goEcho/common"
	"github.com/involk-secure-1609/goEcho/constants"
	"gopkg.in/yaml.v3"
)

// Config - echo server configuration
type Config struct {
	// Port - loopback port to bind
	Port uint16
	// Backlog - passed to listen(2) as is
	Backlog int
	// LogLevel - lowest level written by the default logger
	LogLevel common.LoggingLevel
	// File - optional YAML file the values were overlaid from
	File string
}

// Default returns the configuration used when nothing is given.
func Default() Config {
	return Config{
		Port:     constants.DefaultPort,
		Backlog:  constants.DefaultBacklog,
		LogLevel: common.INFO,
	}
}

// Validate checks the ranges the flag parsers cannot express.
func (c Config) Validate() error {
	if c.Port < constants.MinPort {
		return fmt.Errorf("%w: got %d", common.ErrInvalidPort, c.Port)
	}
	if c.Backlog < 0 || c.Backlog > constants.MaxBacklog {
		return fmt.Errorf("%w: got %d", common.ErrInvalidBacklog, c.Backlog)
	}
	if c.LogLevel < common.DEBUG || c.LogLevel > common.ERROR {
		return fmt.Errorf("%w: %d", common.ErrInvalidLogLevel, int(c.LogLevel))
	}
	return nil
}

// portValue is a flag.Value accepting only 1..65535.
type portValue struct {
	port uint16
}

func (p *portValue) String() string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(int(p.port))
}

func (p *portValue) Set(s string) error {
	port, err := parsePort(s)
	if err != nil {
		return err
	}
	p.port = port
	return nil
}

func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || n < constants.MinPort {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidPort, s)
	}
	return uint16(n), nil
}

type levelValue struct {
	level common.LoggingLevel
}

func (l *levelValue) String() string {
	if l == nil {
		return ""
	}
	return l.level.String()
}

func (l *levelValue) Set(s string) error {
	level, err := common.ParseLoggingLevel(s)
	if err != nil {
		return err
	}
	l.level = level
	return nil
}

// Parse reads the command line. Usage and parse errors are written to output.
// -h returns flag.ErrHelp.
func Parse(name string, args []string, output io.Writer) (Config, error) {
	defaults := Default()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "Launch line echo server on %s\n\n\t%s [options]\n\nOptions:\n\n", constants.LoopbackAddress, name)
		fs.PrintDefaults()
		fmt.Fprint(output, "\n")
	}

	port := &portValue{port: defaults.Port}
	fs.Var(port, "p", "TCP port to bind on loopback (shorthand)")
	fs.Var(port, "port", "TCP port to bind on loopback")

	var backlog int
	fs.IntVar(&backlog, "b", defaults.Backlog, "Listen backlog size (shorthand)")
	fs.IntVar(&backlog, "backlog", defaults.Backlog, "Listen backlog size")

	var file string
	fs.StringVar(&file, "c", "", "YAML config file (shorthand)")
	fs.StringVar(&file, "config", "", "YAML config file, flags given explicitly take precedence")

	level := &levelValue{level: defaults.LogLevel}
	fs.Var(level, "log-level", "Log level: debug, info, warning or error")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %v", fs.Args())
		fmt.Fprintln(output, err)
		fs.Usage()
		return Config{}, err
	}

	cfg := defaults
	if file != "" {
		loaded, err := LoadFile(file, cfg)
		if err != nil {
			fmt.Fprintln(output, err)
			return Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "p", "port":
			cfg.Port = port.port
		case "b", "backlog":
			cfg.Backlog = backlog
		case "log-level":
			cfg.LogLevel = level.level
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(output, err)
		fs.Usage()
		return Config{}, err
	}
	return cfg, nil
}

// fileConfig mirrors the YAML layout; absent keys keep the base values.
type fileConfig struct {
	Port     *int    `yaml:"port"`
	Backlog  *int    `yaml:"backlog"`
	LogLevel *string `yaml:"log_level"`
}

// LoadFile overlays the values found in a YAML file on top of base.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", common.ErrReadConfig, err)
	}
	return Decode(data, path, base)
}

// Decode overlays YAML document data on top of base. Unknown keys are an error.
func Decode(data []byte, path string, base Config) (Config, error) {
	var fc fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %s: %w", common.ErrReadConfig, path, err)
	}

	cfg := base
	cfg.File = path
	if fc.Port != nil {
		if *fc.Port < constants.MinPort || *fc.Port > constants.MaxPort {
			return Config{}, fmt.Errorf("%w: %s: got %d", common.ErrInvalidPort, path, *fc.Port)
		}
		cfg.Port = uint16(*fc.Port)
	}
	if fc.Backlog != nil {
		cfg.Backlog = *fc.Backlog
	}
	if fc.LogLevel != nil {
		level, err := common.ParseLoggingLevel(*fc.LogLevel)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}
