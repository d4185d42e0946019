package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"vidsub/internal/session"
)

func newInteractiveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Prompt for videos to download (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, ctx)
		},
	}
}

// prompter reads answers line by line. Reads happen on a goroutine so an
// interrupt is noticed while waiting for input.
type prompter struct {
	out   io.Writer
	lines chan string
	stop  chan struct{}
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{out: out, lines: make(chan string), stop: make(chan struct{})}
	go func() {
		defer close(p.lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case p.lines <- scanner.Text():
			case <-p.stop:
				return
			}
		}
	}()
	return p
}

// close releases the reader goroutine unless it is blocked inside Read.
func (p *prompter) close() {
	close(p.stop)
}

// ask prints question and returns the trimmed answer, or def when blank.
// io.EOF is returned once input is exhausted.
func (p *prompter) ask(ctx context.Context, question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return def, nil
		}
		return line, nil
	}
}

func (p *prompter) confirm(ctx context.Context, question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := p.ask(ctx, question+" ("+hint+")", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func runInteractive(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}
	out := cmd.OutOrStdout()
	p := newPrompter(cmd.InOrStdin(), out)
	defer p.close()

	handle, err := ctx.openSession(cmd)
	if err != nil {
		return err
	}
	defer handle.Close()

	fmt.Fprintln(out, "vidsub interactive mode: enter a YouTube URL or video id, 't' to translate existing captions, 'q' to quit")
	for {
		ref, err := p.ask(runCtx, "video", "")
		if err != nil {
			return endOfInput(err)
		}
		switch strings.ToLower(ref) {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "t":
			err := interactiveTranslate(runCtx, p, handle.controller, out)
			handle.reporter.Flush()
			if err != nil {
				return endOfInput(err)
			}
		default:
			if !validReference(ref) {
				fmt.Fprintln(out, "not a valid YouTube URL or video id")
				continue
			}
			req, err := askRequest(runCtx, p, ref, cfg.Paths.OutputDir, cfg.Download.EmbedSubtitles, cfg.Subtitles.TranslateFallback)
			if err != nil {
				return endOfInput(err)
			}
			result := handle.controller.Run(runCtx, req)
			handle.reporter.Flush()
			if result.Cancelled {
				return context.Canceled
			}
		}

		again, err := p.confirm(runCtx, "process another video?", true)
		if err != nil {
			return endOfInput(err)
		}
		if !again {
			return nil
		}
	}
}

func askRequest(ctx context.Context, p *prompter, ref, outputDir string, embed, translate bool) (session.Request, error) {
	req := session.Request{Reference: ref}
	var err error
	if req.OutputDir, err = p.ask(ctx, "output directory", outputDir); err != nil {
		return req, err
	}
	if req.EmbedSubtitles, err = p.confirm(ctx, "embed captions into the video?", embed); err != nil {
		return req, err
	}
	if req.TranslateFallback, err = p.confirm(ctx, "translate captions when the target language is missing?", translate); err != nil {
		return req, err
	}
	return req, nil
}

func interactiveTranslate(ctx context.Context, p *prompter, controller *session.Controller, out io.Writer) error {
	name, err := p.ask(ctx, "media file or base name", "")
	if err != nil {
		return err
	}
	if name == "" {
		fmt.Fprintln(out, "no base name given")
		return nil
	}
	force, err := p.confirm(ctx, "translate again if a target caption already has text?", false)
	if err != nil {
		return err
	}
	result := controller.TranslateOnly(ctx, name, force)
	if result.Cancelled {
		return context.Canceled
	}
	return nil
}

// endOfInput treats exhausted stdin as a normal quit.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
