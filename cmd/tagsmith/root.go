package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tagsmith/internal/config"
	"tagsmith/internal/identify"
	"tagsmith/internal/musicbrainz"
	"tagsmith/internal/organizer"
	"tagsmith/internal/scanner"
	"tagsmith/internal/server"
	"tagsmith/internal/tagger"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tagsmith",
		Short:         "Resolve and tag scanned music albums against MusicBrainz",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newRunCommand())

	return rootCmd
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func newClient(cfg *config.Config) *musicbrainz.Client {
	return musicbrainz.NewClient(musicbrainz.WithUserAgent(cfg.MusicBrainz.UserAgent))
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log := newLogger()
			srv := server.New(newClient(cfg), cfg.Tagger.StrictTrackMatch, log)
			return srv.Run(cfg.Listen)
		},
	}
}

func newScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <dir>",
		Short: "Scan a directory tree and report the detected albums",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			albums, err := scanner.New(log).Scan(args[0])
			if err != nil {
				return err
			}
			for _, album := range albums {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d files) [%s]\n",
					album.FolderName(), len(album.Files), album.Status)
			}
			return nil
		},
	}
}

func newRunCommand() *cobra.Command {
	var inputDir, outputDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan, identify, tag and organize in one pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if inputDir == "" {
				inputDir = cfg.InputDir
			}
			if outputDir == "" {
				outputDir = cfg.OutputDir
			}
			if inputDir == "" || outputDir == "" {
				return fmt.Errorf("input and output directories must be set via flags or config")
			}

			log := newLogger()
			mb := newClient(cfg)

			albums, err := scanner.New(log).Scan(inputDir)
			if err != nil {
				return err
			}
			log.Info("scan complete", "albums", len(albums))

			albums = identify.NewResolver(mb, log).IdentifyAll(albums)

			t := tagger.New(mb, log, tagger.Options{StrictTrackMatch: cfg.Tagger.StrictTrackMatch})
			albums = t.TagAll(albums)

			albums, report := organizer.New(outputDir, log).OrganizeAll(albums)
			log.Info("run complete", "attempted", report.Attempted, "moved", report.Moved)

			for _, album := range albums {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", album.Title, album.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "input directory (overrides config)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides config)")

	return cmd
}
