package outwriter

import (
	"os"

	"github.com/huangsam/repovalue/internal/contract"
	"golang.org/x/term"
)

// getMaxValueWidth calculates the maximum width of free-text cells in table output
// based on terminal width and table configuration.
func getMaxValueWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Field column plus borders, separators and padding
	available := termWidth - 32
	if available < 20 {
		return 20
	}
	if available > 100 {
		return 100
	}
	return available
}
