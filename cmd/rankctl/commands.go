// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/husbandometrics/internal/app"
	"github.com/taibuivan/husbandometrics/internal/platform/config"
	"github.com/taibuivan/husbandometrics/internal/platform/constants"
	"github.com/taibuivan/husbandometrics/internal/ranking"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
)

// cli carries the state shared by every subcommand.
type cli struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool
	format  string
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	state := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "rankctl",
		Short:         "Inspect and refresh character popularity rankings",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "Log at debug level to stderr")
	root.PersistentFlags().StringVar(&state.format, "format", formatTable, "Output format (table|json)")

	root.AddCommand(
		state.rankingsCommand(),
		state.showCommand(),
		state.refreshCommand(),
		state.migrateCommand(),
	)
	return root
}

func (state *cli) logger() *slog.Logger {
	level := slog.LevelWarn
	if state.verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(state.errOut, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName+"-cli"))
}

// withApp wires the runtime, runs work, and drains background writes.
func (state *cli) withApp(ctx context.Context, work func(runtime *app.App) error) error {
	if state.format != formatTable && state.format != formatJSON {
		return fmt.Errorf("unknown format %q", state.format)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	runtime, err := app.New(ctx, cfg, state.logger())
	if err != nil {
		return err
	}
	defer runtime.Close()

	return work(runtime)
}

// # Commands

func (state *cli) rankingsCommand() *cobra.Command {
	var filter struct {
		query      string
		sourceType string
	}

	command := &cobra.Command{
		Use:   "rankings",
		Short: "Print the current ranking",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return state.withApp(command.Context(), func(runtime *app.App) error {
				payload, err := runtime.Service.Rankings(command.Context())
				if err != nil {
					return err
				}

				narrowed := ranking.Filter{Query: filter.query}
				if filter.sourceType != "" {
					narrowed.SourceType = ranking.ParseSourceType(filter.sourceType)
				}
				return state.printPayload(narrowed.Apply(payload))
			})
		},
	}

	command.Flags().StringVarP(&filter.query, "query", "q", "", "Fuzzy search over names, aliases and franchise")
	command.Flags().StringVar(&filter.sourceType, "source-type", "", "Only ANIME, GAME or MANGA")
	return command
}

func (state *cli) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one ranked character",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			return state.withApp(command.Context(), func(runtime *app.App) error {
				character, err := runtime.Service.Character(command.Context(), args[0])
				if err != nil {
					return err
				}
				return state.printCharacter(character)
			})
		},
	}
}

func (state *cli) refreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Recompute the ranking and warm the cache",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return state.withApp(command.Context(), func(runtime *app.App) error {
				payload, err := runtime.Service.Refresh(command.Context())
				if err != nil {
					return err
				}
				return state.printPayload(payload)
			})
		},
	}
}

func (state *cli) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations for DATABASE_PROVIDER",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := app.Migrate(cfg, state.logger()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(state.out, "migrations applied (%s)\n", cfg.DatabaseProvider)
			return err
		},
	}
}

// # Output

func (state *cli) printPayload(payload *ranking.Payload) error {
	if state.format == formatJSON {
		return state.printJSON(payload)
	}

	writer := tabwriter.NewWriter(state.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "RANK\tID\tNAME\tSOURCE\tTYPE\tTOTAL\tTREND\n")
	for _, character := range payload.Characters {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			character.Rank, character.ID, character.Name, character.Source,
			character.SourceType, character.WeightedTotal, character.Trend,
		)
	}
	fmt.Fprintf(writer, "\nmode=%s updated_at=%s\n",
		payload.Metadata.Mode, payload.Metadata.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
	return writer.Flush()
}

func (state *cli) printCharacter(character *ranking.RankedCharacter) error {
	if state.format == formatJSON {
		return state.printJSON(character)
	}

	writer := tabwriter.NewWriter(state.out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"id", character.ID},
		{"name", character.Name},
		{"name_jp", character.NameJP},
		{"source", fmt.Sprintf("%s (%s)", character.Source, character.SourceType)},
		{"aliases", strings.Join(character.Aliases, ", ")},
		{"rank", fmt.Sprint(character.Rank)},
		{"weighted_total", fmt.Sprintf("%.2f", character.WeightedTotal)},
		{"trend", string(character.Trend)},
		{"pixiv", fmt.Sprintf("%.2f", character.Scores.Pixiv)},
		{"ao3", fmt.Sprintf("%.2f", character.Scores.AO3)},
		{"google_trends", fmt.Sprintf("%.2f", character.Scores.GoogleTrends)},
		{"danbooru", fmt.Sprintf("%.2f", character.Scores.Danbooru)},
		{"twitter", fmt.Sprintf("%.2f", character.Scores.Twitter)},
	}
	for _, row := range rows {
		fmt.Fprintf(writer, "%s\t%s\n", row[0], row[1])
	}
	return writer.Flush()
}

func (state *cli) printJSON(value any) error {
	encoder := json.NewEncoder(state.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
