package cli

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"layerscope/internal/core/config"
	"layerscope/internal/data/artifact"
)

const versionString = artifact.ToolVersion
const defaultConfigPath = "./layerscope.toml"

type globalOptions struct {
	configPath string
	verbose    bool
	version    bool
	args       []string
}

func parseGlobal(args []string) (globalOptions, error) {
	var opts globalOptions
	fs := flag.NewFlagSet("layerscope", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: layerscope [flags] <command> [command flags]")
		fmt.Fprintln(fs.Output(), "Commands: parse, parse-all, index, compress, chunk, view")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return globalOptions{}, err
	}
	opts.args = fs.Args()
	return opts, nil
}

// Run is the CLI entry point; it returns the process exit code.
func Run(args []string) int {
	opts, err := parseGlobal(args)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if opts.version {
		fmt.Printf("layerscope v%s\n", versionString)
		return 0
	}

	logLevel := slog.LevelInfo
	if opts.verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "path", opts.configPath, "error", err)
		return 1
	}

	if len(opts.args) == 0 {
		fmt.Fprintln(os.Stderr, "missing command (parse, parse-all, index, compress, chunk, view)")
		return 2
	}

	command, rest := opts.args[0], opts.args[1:]
	switch command {
	case "parse":
		return runParse(cfg, rest)
	case "parse-all":
		return runParseAll(cfg, rest)
	case "index":
		return runIndex(cfg, rest)
	case "compress":
		return runCompress(cfg, rest)
	case "chunk":
		return runChunk(cfg, rest)
	case "view":
		return runView(cfg, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", command)
		return 2
	}
}

// loadConfig falls back to built-in defaults when the default config path
// does not exist; an explicit path must load.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) && path == defaultConfigPath {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}
