package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vidsub/internal/deps"
	"vidsub/internal/preflight"
	"vidsub/internal/services/ytdlp"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check binaries, directories, and the translation endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := preflight.CheckSystemDeps(cfg)
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				rows = append(rows, []string{s.Name, dependencyState(s), s.Command, s.Description, s.Detail})
			}
			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "State", "Command", "Purpose", "Detail"}, rows, nil))

			if statuses[0].Available {
				fmt.Fprintln(out, renderStatusLine("yt-dlp version", statusInfo, ytdlpVersion(cmd.Context(), cfg.Download.YtdlpBinary), colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Translate fallback", statusInfo, yesNo(cfg.Subtitles.TranslateFallback), colorize))
			fmt.Fprintln(out, renderStatusLine("Target languages", statusInfo, strings.Join(cfg.Subtitles.TargetLanguages, ", "), colorize))
			fmt.Fprintln(out, renderStatusLine("Source languages", statusInfo, strings.Join(cfg.Subtitles.SourceLanguages, ", "), colorize))

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			failed := 0
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			if missing := deps.Missing(statuses); len(missing) > 0 {
				names := make([]string, 0, len(missing))
				for _, m := range missing {
					names = append(names, m.Name)
				}
				return fmt.Errorf("missing required dependencies: %s", strings.Join(names, ", "))
			}
			if failed > 0 {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}

func dependencyState(s deps.Status) string {
	switch {
	case s.Available:
		return "ok"
	case s.Optional:
		return "missing (optional)"
	default:
		return "missing"
	}
}

func ytdlpVersion(ctx context.Context, binary string) string {
	client, err := ytdlp.New(binary, 0, 0)
	if err != nil {
		return err.Error()
	}
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	version, err := client.Version(checkCtx)
	if err != nil {
		return "unknown (" + err.Error() + ")"
	}
	return version
}
