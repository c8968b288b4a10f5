package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/chzyer/readline"

	"github.com/KevoDB/interop/pkg/common/log"
	"github.com/KevoDB/interop/pkg/config"
	"github.com/KevoDB/interop/pkg/telemetry"
)

// Command completer for readline
var completer = readline.NewPrefixCompleter(
	readline.PcItem(".help"),
	readline.PcItem(".exit"),
	readline.PcItem(".stats"),
	readline.PcItem(".config"),
	readline.PcItem(".load"),
	readline.PcItem(".save", readline.PcItem("list"), readline.PcItem("map")),
	readline.PcItem(".reset"),
	readline.PcItem("LIST"),
	readline.PcItem("PUSH"),
	readline.PcItem("INSERT"),
	readline.PcItem("SET"),
	readline.PcItem("DEL"),
	readline.PcItem("REMOVE"),
	readline.PcItem("GET", typeItems()...),
	readline.PcItem("ITER", typeItems()...),
	readline.PcItem("INDEX"),
	readline.PcItem("CLEAR"),
	readline.PcItem("PUT"),
	readline.PcItem("LOOKUP", typeItems()...),
	readline.PcItem("TRYGET", typeItems()...),
	readline.PcItem("UNSET"),
	readline.PcItem("KEYS"),
	readline.PcItem("VALUES", typeItems()...),
	readline.PcItem("PAIRS", typeItems()...),
	readline.PcItem("BUF",
		readline.PcItem("NEW"),
		readline.PcItem("ACQUIRE",
			readline.PcItem("RW"),
			readline.PcItem("RO"),
		),
		readline.PcItem("WRITE"),
		readline.PcItem("READ"),
		readline.PcItem("INFO"),
		readline.PcItem("SUM"),
		readline.PcItem("ZIP",
			readline.PcItem("none"),
			readline.PcItem("snappy"),
			readline.PcItem("zstd"),
		),
	),
)

func typeItems() []readline.PrefixCompleterInterface {
	return []readline.PrefixCompleterInterface{
		readline.PcItem("int"),
		readline.PcItem("float"),
		readline.PcItem("string"),
		readline.PcItem("bool"),
		readline.PcItem("any"),
	}
}

const helpText = `
interop - typed views over untyped collections and byte buffers.

Usage:
  interop [options]

Options:
  -config FILE            - Config file (default ./interop.json)
  -log-level LEVEL        - Override the configured log level

Session commands:
  .help                   - Show this help message
  .exit                   - Exit the program
  .stats                  - Show conversion and buffer statistics
  .config                 - Show the active configuration
  .load FILE              - Load a JSON array (list) or object (map)
  .save list|map FILE     - Write the working list or map as JSON
  .reset                  - Start over with an empty list, map and no buffer

List commands:
  LIST                    - Show the list
  PUSH lit                - Append a value
  INSERT i lit            - Insert a value at index i
  SET i lit               - Replace the value at index i
  DEL i                   - Remove the value at index i
  REMOVE lit              - Remove the first equal value
  INDEX lit               - Position of the first equal value, or -1
  GET type i              - Read index i as type
  ITER type               - Iterate the list as type
  CLEAR                   - Remove every value

Map commands:
  PUT key lit             - Store a value
  LOOKUP type key         - Read a value as type; missing keys are errors
  TRYGET type key         - Read a value as type; missing keys are absent
  UNSET key               - Remove a key
  KEYS                    - List keys
  VALUES type             - List values as type
  PAIRS type              - List key/value pairs with values as type

Buffer commands:
  BUF NEW n [RO]          - Create an n byte buffer, mutable unless RO
  BUF ACQUIRE RW|RO       - Acquire a writable or read-only view
  BUF WRITE off text      - Write text at offset through the view
  BUF READ                - Show the view's bytes
  BUF INFO                - Show view metadata
  BUF SUM                 - xxhash64 checksum of the view
  BUF ZIP [codec]         - Compress the view (none, snappy, zstd) and verify

Types: int, float, string, bool, any
Literals: 42, 1.5, true, false, null, "quoted text", [1, 2], {"a": 1}
`

func main() {
	configPath := flag.String("config", config.DefaultConfigFileName, "Path to the config file")
	logLevel := flag.String("log-level", "", "Override the configured log level")
	writeConfig := flag.Bool("write-config", false, "Write the resolved config to -config and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "interop - typed adapter shell\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: interop [options]\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\nStart interop and type .help for commands\n")
	}
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %s\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Update(func(c *config.Config) { c.LogLevel = *logLevel })
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	}

	if *writeConfig {
		if err := cfg.Save(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *configPath)
		return
	}

	logger := log.NewStandardLogger(log.WithOutput(os.Stderr), log.WithLevel(cfg.Level()))
	log.SetDefaultLogger(logger)

	tel, err := telemetry.New(cfg.Telemetry)
	if err != nil {
		logger.Fatal("Error initializing telemetry: %v", err)
	}
	if p, ok := tel.(*telemetry.TelemetryProvider); ok && p.MetricsAddr() != "" {
		logger.Info("Serving metrics on http://%s/metrics", p.MetricsAddr())
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			logger.Warn("Telemetry shutdown: %v", err)
		}
	}()

	shell, err := NewShell(cfg, os.Stdout, logger, tel)
	if err != nil {
		logger.Fatal("Error creating shell: %v", err)
	}
	defer shell.Close()

	runInteractive(shell, cfg.HistoryFile)
}

// loadConfig reads path, falling back to defaults when it does not exist
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if errors.Is(err, config.ErrConfigNotFound) {
		home, _ := os.UserHomeDir()
		cfg = config.NewDefaultConfig(home)
		cfg.Telemetry.LoadFromEnv()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

// runInteractive starts the interactive CLI mode
func runInteractive(shell *Shell, historyFile string) {
	fmt.Println("interop version 0.1.0")
	fmt.Println("Enter .help for usage hints.")

	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".interop_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shell.Prompt(),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing readline: %s\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	ctx := context.Background()
	for {
		rl.SetPrompt(shell.Prompt())

		line, readErr := rl.Readline()
		if readErr != nil {
			if readErr == readline.ErrInterrupt {
				if len(line) == 0 {
					break
				}
				continue
			} else if readErr == io.EOF {
				fmt.Println("Goodbye!")
				break
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", readErr)
			continue
		}

		if shell.Execute(ctx, line) {
			return
		}
	}
}
