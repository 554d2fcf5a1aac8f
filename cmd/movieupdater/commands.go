package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/pokerjest/movieAutoTool/internal/app"
	"github.com/pokerjest/movieAutoTool/internal/config"
	"github.com/pokerjest/movieAutoTool/internal/db"
	"github.com/pokerjest/movieAutoTool/internal/logging"
	"github.com/pokerjest/movieAutoTool/internal/parser"
	"github.com/pokerjest/movieAutoTool/internal/updater"
)

type rootFlags struct {
	configDir string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "movieupdater",
		Short:         "Sync movie metadata from the reference site without starting the server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configDir, "config", ".", "directory containing config.yaml")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newMovieCmd(flags), newAllCmd(flags))
	return root
}

// setup loads configuration and opens the database. The returned func closes it.
func setup(flags *rootFlags) (*app.App, func(), error) {
	if err := config.LoadConfig(flags.configDir); err != nil {
		return nil, nil, err
	}
	cfg := config.AppConfig
	level := cfg.Log.Level
	if flags.verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: cfg.Log.Format})

	conn, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	}
	a, err := app.Build(cfg, conn)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return a, closeDB, nil
}

func newMovieCmd(flags *rootFlags) *cobra.Command {
	var (
		force bool
		url   string
		only  []string
	)
	cmd := &cobra.Command{
		Use:   "movie <id>",
		Short: "Sync a single movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid movie id %q", args[0])
			}
			cats, err := parseOnly(only)
			if err != nil {
				return err
			}

			a, closeDB, err := setup(flags)
			if err != nil {
				return err
			}
			defer closeDB()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			updated, err := a.Updater.UpdateMovie(ctx, uint(id), updater.Options{
				Categories: cats,
				Force:      force,
				URL:        url,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]bool{"updated": updated})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "ignore the refresh interval")
	cmd.Flags().StringVar(&url, "url", "", "explicit reference page URL")
	cmd.Flags().StringSliceVar(&only, "only", nil, "limit to these categories, e.g. --only rating,poster")
	return cmd
}

func newAllCmd(flags *rootFlags) *cobra.Command {
	var (
		force       bool
		createdFrom string
		createdTo   string
	)
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Sync every movie that is due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parser.ParseDate(createdFrom, false)
			if err != nil {
				return err
			}
			to, err := parser.ParseDate(createdTo, true)
			if err != nil {
				return err
			}

			a, closeDB, err := setup(flags)
			if err != nil {
				return err
			}
			defer closeDB()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			counts := a.Updater.UpdateAll(ctx, updater.BatchOptions{
				Options:     updater.Options{Force: force},
				CreatedFrom: from,
				CreatedTo:   to,
				Progress: func(p updater.BatchProgress) {
					logging.Info().Int("index", p.Index).Int("total", p.Total).
						Uint("movie_id", p.MovieID).Str("outcome", p.Outcome).Msg("movieupdater: progress")
				},
			})
			return printJSON(cmd, counts)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "sync every movie regardless of the refresh interval")
	cmd.Flags().StringVar(&createdFrom, "created-from", "", "only movies added on or after this date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&createdTo, "created-to", "", "only movies added on or before this date")
	return cmd
}

// parseOnly turns --only names into a category set. No names means all.
func parseOnly(names []string) (updater.CategorySet, error) {
	if len(names) == 0 {
		return nil, nil
	}
	set := make(updater.CategorySet)
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		c, err := updater.ParseCategory(n)
		if err != nil {
			return nil, err
		}
		set.Add(c)
	}
	return set, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
