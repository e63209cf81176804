package cli

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// embedProgress draws a progress bar for each document's embedding step.
type embedProgress struct {
	w     io.Writer
	bar   *progressbar.ProgressBar
	label string
}

// newEmbedProgress returns nil when w is not a terminal.
func newEmbedProgress(w io.Writer, label string) *embedProgress {
	if !isTerminal(w) {
		return nil
	}
	return &embedProgress{w: w, label: label}
}

// callback returns the function to pass as RuntimeOptions.Progress.
func (p *embedProgress) callback() func(done, total int) {
	if p == nil {
		return nil
	}
	return p.update
}

func (p *embedProgress) update(done, total int) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", p.label)),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(p.w)
			}),
		)
	}

	_ = p.bar.Set(done)
	// The bar completes itself at total; the next document starts a new one
	if done >= total {
		p.bar = nil
	}
}
