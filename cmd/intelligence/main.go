package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tailored-agentic-units/intelligence/backend"
	"github.com/tailored-agentic-units/intelligence/core/schema"
	"github.com/tailored-agentic-units/intelligence/core/transcript"
	"github.com/tailored-agentic-units/intelligence/session"
)

func main() {
	var (
		configFile     = flag.String("config", "", "Path to session config JSON file")
		prompt         = flag.String("prompt", "", "Prompt to send to the model (required)")
		backendKind    = flag.String("backend", "", "Backend: remote or local (overrides config)")
		model          = flag.String("model", "", "Model name for the selected backend (overrides config)")
		instructions   = flag.String("instructions", "", "Instruction text (overrides config)")
		storePath      = flag.String("store", "", "Path to the store directory (overrides config)")
		schemaFile     = flag.String("schema", "", "Path to a json_schema response format; enables structured output")
		transcriptFile = flag.String("transcript", "", "Write the transcript JSON to this file")
		export         = flag.Bool("export", false, "Export the transcript to the store")
		maxRounds      = flag.Int("max-rounds", 0, "Maximum tool rounds per prompt (overrides config)")
		temperature    = flag.Float64("temperature", -1, "Sampling temperature; negative leaves the model default")
		noTools        = flag.Bool("no-tools", false, "Do not offer the builtin tools")
		verbose        = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	if *prompt == "" {
		fmt.Fprintln(os.Stderr, "Usage: intelligence [-config <file>] -prompt <text>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := session.DefaultConfig()
	if *configFile != "" {
		loaded, err := session.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if *backendKind != "" {
		cfg.Backend = backend.Kind(*backendKind)
	}
	if *model != "" {
		if cfg.Backend == backend.KindLocal {
			cfg.Local.Model = *model
		} else {
			cfg.Remote.Model = *model
		}
	}
	if *instructions != "" {
		cfg.Instructions = *instructions
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}
	if *maxRounds > 0 {
		cfg.Remote.MaxRounds = *maxRounds
		cfg.Local.MaxRounds = *maxRounds
	}
	if cfg.Remote.APIKey == "" {
		cfg.Remote.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	var opts []session.Option
	if !*noTools {
		registry, err := builtinTools()
		if err != nil {
			log.Fatalf("Failed to register tools: %v", err)
		}
		opts = append(opts, session.WithTools(registry))
	}

	var genOpts transcript.GenerationOptions
	if *temperature >= 0 {
		genOpts.Temperature = temperature
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := session.New(ctx, &cfg, opts...)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	if *schemaFile != "" {
		sch, err := loadSchema(*schemaFile)
		if err != nil {
			log.Fatalf("Failed to load schema: %v", err)
		}
		content, err := s.RespondStructured(ctx, *prompt, sch, genOpts)
		if err != nil {
			log.Fatalf("Respond failed: %v", err)
		}
		fmt.Printf("Response: %s\n", content)
	} else {
		text, err := s.Respond(ctx, *prompt, genOpts)
		if err != nil {
			log.Fatalf("Respond failed: %v", err)
		}
		fmt.Printf("Response: %s\n", text)
	}

	t := s.Transcript()
	printToolCalls(t)

	if *transcriptFile != "" {
		data, err := t.JSON(true)
		if err != nil {
			log.Fatalf("Failed to encode transcript: %v", err)
		}
		if err := os.WriteFile(*transcriptFile, []byte(data), 0o644); err != nil {
			log.Fatalf("Failed to write transcript: %v", err)
		}
	}
	if *export {
		if err := s.Export(ctx); err != nil {
			log.Fatalf("Failed to export transcript: %v", err)
		}
		fmt.Printf("\nExported transcript %s\n", s.ID())
	}
}

// loadSchema reads a json_schema response format document.
func loadSchema(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var format schema.ResponseFormat
	if err := json.Unmarshal(data, &format); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}
	return schema.FromWire(format)
}

func printToolCalls(t *transcript.Transcript) {
	var outputs = map[string]string{}
	var calls []transcript.Entry
	for _, e := range t.Entries() {
		switch e.Kind {
		case transcript.KindToolCall:
			calls = append(calls, e)
		case transcript.KindToolOutput:
			outputs[e.CallID] = e.Output
		}
	}
	if len(calls) == 0 {
		return
	}

	fmt.Println("\nTool Calls:")
	for i, c := range calls {
		fmt.Printf("  [%d] %s(%s)\n", i+1, c.Name, c.Arguments)
		if out := outputs[c.CallID]; len(out) > 200 {
			fmt.Printf("    -> %s...\n", out[:200])
		} else {
			fmt.Printf("    -> %s\n", out)
		}
	}
}
