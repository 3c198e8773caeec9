package cmd

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/huangsam/repovalue/internal/contract"
	"github.com/spf13/cobra"
)

// rankCmd scores many repositories concurrently and lists the strongest.
var rankCmd = &cobra.Command{
	Use:   "rank [owner/repo ...]",
	Short: "Rank repositories by unicorn score",
	Long: `Score several repositories with the unicorn hunter and rank them.

Repositories come from the arguments or, when none are given, from stdin one
per line. Blank lines and lines starting with # are skipped. Up to --workers
repositories are fetched at once. Repositories that fail to load are listed
last with their error.

Examples:
  # Rank three repositories
  repovalue rank octo/rocket octo/comet octo/meteor

  # Rank a watch list, keeping the top five
  repovalue rank --limit 5 < watchlist.txt

  # Export the ranking for later analysis
  repovalue rank octo/rocket octo/comet --output parquet --output-file ranking.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		names := args
		if len(names) == 0 {
			var err error
			if names, err = readRepoList(os.Stdin); err != nil {
				contract.LogFatal("Cannot read repositories from stdin", err)
			}
		}
		if len(names) == 0 {
			contract.LogFatal("Nothing to rank", errors.New("no repositories given"))
		}

		start := time.Now()
		rows := mustService().RankRepositories(rootCtx, names, cfg.Workers, cfg.ResultLimit)
		if err := writer.WriteRanking(rows, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write results", err)
		}
	},
}

// readRepoList reads one repository per line, skipping blanks and # comments.
func readRepoList(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}
