package subtitles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"vidsub/internal/fileutil"
	"vidsub/internal/logging"
	"vidsub/internal/services"
)

// FileResult summarizes a translated caption file.
type FileResult struct {
	SourcePath string
	TargetPath string
	Cues       int
	Charset    string
}

// TranslateFile translates the caption file at src into dst. dst is written
// as UTF-8 only after every cue has been processed, via an atomic rename, so
// an interrupted run leaves any existing dst untouched.
func (d *Driver) TranslateFile(ctx context.Context, src, dst, targetLang string) (FileResult, error) {
	result := FileResult{SourcePath: src, TargetPath: dst}

	data, err := os.ReadFile(src)
	if err != nil {
		return result, services.Wrap(services.ErrNotFound, "translate", "read source", filepath.Base(src), err)
	}
	text, charset, err := DecodeText(data)
	if err != nil {
		return result, services.Wrap(services.ErrParse, "translate", "decode source", filepath.Base(src), err)
	}
	result.Charset = charset
	cues, err := ParseSRT(text)
	if err != nil {
		return result, services.Wrap(services.ErrParse, "translate", "parse source", filepath.Base(src), err)
	}
	result.Cues = len(cues)

	d.logger.Info("translating caption file",
		logging.String("source", src),
		logging.String("target", dst),
		logging.String("charset", charset),
		logging.String("language", targetLang),
		logging.Int("cues", len(cues)),
	)

	translated, err := d.Translate(ctx, cues, targetLang)
	if err != nil {
		return result, err
	}
	if err := fileutil.WriteFileAtomic(dst, []byte(FormatSRT(translated)), 0o644); err != nil {
		return result, fmt.Errorf("write translated captions: %w", err)
	}
	return result, nil
}
