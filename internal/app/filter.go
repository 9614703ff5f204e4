package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"horse.fit/roamsift/internal/cli"
	"horse.fit/roamsift/internal/config"
	"horse.fit/roamsift/internal/langdetect"
	"horse.fit/roamsift/internal/logging"
	"horse.fit/roamsift/internal/pipeline"
	payloadschema "horse.fit/roamsift/schema"
)

type filterOutput struct {
	Retained    []pipeline.ClassifiedRecord                       `json:"retained,omitempty"`
	Grouped     map[pipeline.Category][]pipeline.ClassifiedRecord `json:"grouped,omitempty"`
	Diagnostics []pipeline.Diagnostic                             `json:"diagnostics"`
}

func runFilter(args []string) int {
	fs := flag.NewFlagSet("filter", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	input := fs.String("input", "-", "Batch JSON file to filter, or - for stdin")
	threshold := fs.Float64("threshold", 0, "Inclusion threshold override (0 uses batch or configured value)")
	grouped := fs.Bool("grouped", false, "Group retained records by category in the output")
	pretty := fs.Bool("pretty", false, "Indent the JSON output")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *threshold < 0 || *threshold > 100 {
		fmt.Fprintln(os.Stderr, "--threshold must be within [0,100]")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	rules, err := cfg.Rules()
	if err != nil {
		logger.Error().Err(err).Msg("failed to load rule tables")
		fmt.Fprintf(os.Stderr, "Failed to load rules: %v\n", err)
		return 1
	}

	raw, err := readInput(strings.TrimSpace(*input))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		return 1
	}

	batch, err := payloadschema.ValidateBatchPayload(json.RawMessage(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid batch payload: %v\n", err)
		return 1
	}

	svc := pipeline.NewService(rules, logger)
	if cfg.DetectOrigin {
		svc.UseOriginDetector(langdetect.New())
	}

	effectiveThreshold := batch.Threshold
	if *threshold > 0 {
		effectiveThreshold = *threshold
	}

	retained, diagnostics := svc.Run(batch.Records, effectiveThreshold)

	output := filterOutput{Diagnostics: diagnostics}
	if *grouped {
		output.Grouped = pipeline.GroupByCategory(retained)
	} else {
		output.Retained = retained
	}

	encoder := json.NewEncoder(os.Stdout)
	if *pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		return 1
	}

	fmt.Fprintf(
		os.Stderr,
		"filter collected=%d passed=%d filtered=%d\n",
		len(batch.Records),
		len(retained),
		len(batch.Records)-len(retained),
	)
	return 0
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}
