package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnavshah/lineup-rotator-go/pkg/config"
	"github.com/arnavshah/lineup-rotator-go/pkg/exporter"
	"github.com/arnavshah/lineup-rotator-go/pkg/logger"
	"github.com/arnavshah/lineup-rotator-go/pkg/models"
	"github.com/arnavshah/lineup-rotator-go/pkg/session"
)

type generateFlags struct {
	matchPath string
	seed      int64
	format    string
	output    string
	attempts  int
}

func newGenerateCmd() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a rotation from a match file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				return runGenerate(cmd, f, nil)
			}
			return runGenerate(cmd, f, &f.seed)
		},
	}
	cmd.Flags().StringVarP(&f.matchPath, "file", "f", "match.yaml", "match file (yaml or json)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed; a fresh one is drawn when unset")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format: text, json, csv or xlsx")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().IntVar(&f.attempts, "attempts", 0, "generator restarts (defaults to ROTATION_ATTEMPTS)")
	return cmd
}

func runGenerate(cmd *cobra.Command, f generateFlags, seed *int64) error {
	defaults, err := config.LoadRotationDefaults()
	if err != nil {
		return err
	}
	match, err := config.LoadMatch(f.matchPath)
	if err != nil {
		return err
	}

	settings := match.Settings
	if seed != nil {
		settings.Seed = seed
	}
	if f.attempts > 0 {
		settings.Attempts = f.attempts
	}
	settings, err = session.NormalizeSettings(settings, defaults)
	if err != nil {
		return err
	}

	rot, res, stats, err := session.Generate(match.Players, settings, defaults.RepairRounds, logger.New("cli"))
	if err != nil {
		return err
	}
	view := rot.View("")
	if len(stats.Missing) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s never play\n", strings.Join(stats.Missing, ", "))
	}
	logger.New("cli").Debugf("generated %d intervals in %d attempts, seed %d", len(rot.Schedule), res.Attempts, *settings.Seed)

	if f.output == "" {
		return render(cmd.OutOrStdout(), f.format, view)
	}
	return renderFile(f.output, f.format, view)
}

// renderFile leaves no partial file behind when rendering fails.
func renderFile(path, format string, v models.RotationResponse) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return render(file, format, v)
}

func render(w io.Writer, format string, v models.RotationResponse) error {
	switch strings.ToLower(format) {
	case "", "text":
		return writeText(w, v)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	ef, err := exporter.ParseFormat(format)
	if err != nil {
		return err
	}
	return exporter.Write(w, ef, v)
}

func writeText(w io.Writer, v models.RotationResponse) error {
	var b strings.Builder
	for _, iv := range v.Intervals {
		fmt.Fprintf(&b, "Interval %d\n", iv.Number)
		for _, slot := range models.Slots {
			fmt.Fprintf(&b, "  %-12s %s\n", slot.String()+":", iv.Lineup[slot])
		}
		if len(iv.Resting) > 0 {
			fmt.Fprintf(&b, "  %-12s %s\n", "Resting:", strings.Join(iv.Resting, ", "))
		}
	}
	b.WriteString("\nMinutes\n")
	for _, row := range v.Summary {
		fmt.Fprintf(&b, "  %-16s %3d  %5.1f%%  gk %d\n", row.Player, row.Minutes, row.Percent, row.Goalkeeping)
	}
	fmt.Fprintf(&b, "\nSpread %d, fairness %.1f\n", v.Spread, v.FairnessScore)
	if v.Settings.Seed != nil {
		fmt.Fprintf(&b, "Seed %d\n", *v.Settings.Seed)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
