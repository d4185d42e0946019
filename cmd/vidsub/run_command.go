package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"vidsub/internal/session"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var embed, translate bool

	cmd := &cobra.Command{
		Use:   "run <reference> [output-dir]",
		Short: "Download a video and localize its captions",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req := session.Request{
				Reference:         args[0],
				EmbedSubtitles:    cfg.Download.EmbedSubtitles,
				TranslateFallback: cfg.Subtitles.TranslateFallback,
			}
			if len(args) > 1 {
				req.OutputDir = args[1]
			}
			if cmd.Flags().Changed("embed") {
				req.EmbedSubtitles = embed
			}
			if cmd.Flags().Changed("translate") {
				req.TranslateFallback = translate
			}

			handle, err := ctx.openSession(cmd)
			if err != nil {
				return err
			}
			result := handle.controller.Run(cmd.Context(), req)
			handle.Close()
			return resultError(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&embed, "embed", true, "Embed captions into the downloaded video (default from config)")
	cmd.Flags().BoolVar(&translate, "translate", false, "Translate captions when the target language is missing (default from config)")
	return cmd
}

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "translate <base-name>",
		Short: "Translate captions that already sit next to a downloaded video",
		Long: "Translate captions that already sit next to a downloaded video.\n\n" +
			"<base-name> is the media file path or its name without extension. Running\n" +
			"it again is a no-op once a target-language caption has text; use --force\n" +
			"to translate again.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := ctx.openSession(cmd)
			if err != nil {
				return err
			}
			result := handle.controller.TranslateOnly(cmd.Context(), args[0], force)
			handle.Close()
			return resultError(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Translate again even if the target caption already has text")
	return cmd
}

// resultError prints the caption summary of a finished run and maps the
// Result onto the command error. The reporter has already rendered the
// terminal line.
func resultError(out io.Writer, result session.Result) error {
	if len(result.CaptionPaths) > 0 {
		fmt.Fprintln(out, "captions:")
		for _, path := range result.CaptionPaths {
			fmt.Fprintf(out, "  %s\n", path)
		}
	}
	if result.Success {
		return nil
	}
	if result.Cancelled {
		return context.Canceled
	}
	return errRunFailed
}
