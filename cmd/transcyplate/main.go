package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/VWRoent/transcyplate/internal/anki"
	"github.com/VWRoent/transcyplate/internal/app"
	"github.com/VWRoent/transcyplate/internal/archive"
	"github.com/VWRoent/transcyplate/internal/batch"
	"github.com/VWRoent/transcyplate/internal/capture"
	"github.com/VWRoent/transcyplate/internal/cli"
	"github.com/VWRoent/transcyplate/internal/display"
	"github.com/VWRoent/transcyplate/internal/llm"
	"github.com/VWRoent/transcyplate/internal/models"
	"github.com/VWRoent/transcyplate/internal/wordstore"
)

func main() {
	flags := cli.NewFlags()
	rootCmd := cli.CreateRootCommand(flags)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(flags)
	}
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(flags *cli.Flags) error {
	// Viper resolves flag, config file and environment precedence.
	host := viper.GetString("server.host")
	model := viper.GetString("server.model")
	logDir := viper.GetString("log.directory")
	genCfg := llm.Config{
		Temperature: viper.GetFloat64("generation.temperature"),
		MaxTokens:   viper.GetInt("generation.max_tokens"),
	}

	// Handle --archive flag
	if flags.ArchiveLogs {
		if err := archive.RotateLogs(logDir); err != nil {
			return fmt.Errorf("failed to archive logs: %w", err)
		}
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(host)
		return lister.ListAvailableModels(context.Background(), os.Stdout, model)
	}

	// Handle --anki flag
	if flags.AnkiFile != "" {
		store := wordstore.NewStore(filepath.Join(logDir, "word.csv"))
		n, err := anki.ExportStore(store, flags.AnkiFile)
		if err != nil {
			return fmt.Errorf("failed to export Anki package: %w", err)
		}
		fmt.Printf("Anki package created: %s (%d words)\n", flags.AnkiFile, n)
		return nil
	}

	client, err := llm.NewLMStudioClient(host, model)
	if err != nil {
		return err
	}

	a, err := app.New(app.Config{
		Client:    client,
		Sink:      display.NewConsoleSink(os.Stdout),
		LogDir:    logDir,
		GenConfig: genCfg,
		Capture:   capture.NewFlashSnapshot(logDir, wordstore.NewStore(filepath.Join(logDir, "word.csv"))),
	})
	if err != nil {
		return err
	}
	a.Start()
	defer a.Stop()

	if flags.BatchFile != "" {
		return runBatch(a, flags.BatchFile)
	}
	return runInteractive(a)
}

func runBatch(a *app.App, path string) error {
	sentences, err := batch.ReadSentences(path)
	if err != nil {
		return err
	}
	for _, s := range sentences {
		if err := a.SubmitSentence(s); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	if !a.Drain(time.Duration(len(sentences)+1) * 5 * time.Minute) {
		return fmt.Errorf("batch did not finish in time")
	}
	fmt.Printf("\nDone! %d sentences translated.\n", len(sentences))
	return nil
}

// runInteractive reads lines from stdin until EOF. Plain lines are
// translated; "/ask " lines go to the model directly.
func runInteractive(a *app.App) error {
	fmt.Println("Enter German text to translate. /ask <question> for free questions, Ctrl-D to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var err error
		if q, ok := strings.CutPrefix(line, "/ask "); ok {
			err = a.Ask(q)
		} else {
			err = a.SubmitSentence(line)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	// Let queued work finish before the session ends.
	a.Drain(10 * time.Minute)
	return nil
}
