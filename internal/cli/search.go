package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/lazypower/bangapda/internal/logging"
	"github.com/lazypower/bangapda/internal/match"
)

const promptNoPeriod = "(모름)"

var (
	searchYear        int
	searchPeriod      string
	searchLocation    string
	searchKeywords    []string
	searchInteractive bool
	searchMinScore    int
	searchMaxResults  int
	searchBrowse      bool
	searchExplain     bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Rank the directory against what you remember",
	Long: "Score every directory entry against a remembered year, period, location and keywords " +
		"and print the best matches. With --browse, list the head of the directory instead.",
	Example: `  bangapda search --year 2015 --period "고등학교 2학년" --location "서울 강남구 압구정동" -k 반
  bangapda search -i`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchYear, "year", "y", 0, "remembered year")
	searchCmd.Flags().StringVarP(&searchPeriod, "period", "p", "", "school or life period")
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "remembered location, e.g. \"서울 강남구 압구정동\"")
	searchCmd.Flags().StringSliceVarP(&searchKeywords, "keyword", "k", nil, "keyword to look for in shared memories (repeatable)")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "prompt for missing criteria")
	searchCmd.Flags().IntVar(&searchMinScore, "min-score", -1, "minimum score to keep (default from config)")
	searchCmd.Flags().IntVarP(&searchMaxResults, "max-results", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchBrowse, "browse", false, "list the directory head without scoring")
	searchCmd.Flags().BoolVar(&searchExplain, "explain", false, "show the per-signal score breakdown")
}

func runSearch(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.EnsureCandidates(cfg.Database.SeedFile); err != nil {
		return fmt.Errorf("seed directory: %w", err)
	}

	eng, err := newEngine(db)
	if err != nil {
		return err
	}
	if searchMaxResults > 0 {
		eng.Opts.MaxResults = searchMaxResults
	}
	if searchMinScore >= 0 {
		eng.Opts.MinScore = searchMinScore
	}

	out := cmd.OutOrStdout()

	if searchBrowse {
		results, err := eng.Browse()
		if err != nil {
			return err
		}
		printMatches(out, results, nil)
		return nil
	}

	q := match.Criteria{
		Year:     searchYear,
		Period:   searchPeriod,
		Location: searchLocation,
		Keywords: searchKeywords,
	}
	if searchInteractive {
		if q, err = promptCriteria(q); err != nil {
			return err
		}
	}

	results, err := eng.Search(q)
	if err != nil {
		return err
	}

	var explain *match.Criteria
	if searchExplain {
		n := q.Normalize()
		explain = &n
	}
	printMatches(out, results, explain)
	return nil
}

// promptCriteria asks for every criterion that was not given as a flag.
func promptCriteria(q match.Criteria) (match.Criteria, error) {
	if q.Year == 0 {
		p := promptui.Prompt{
			Label: "몇 년도의 기억인가요",
			Validate: func(s string) error {
				if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n <= 0 {
					return fmt.Errorf("enter a year such as 2015")
				}
				return nil
			},
		}
		s, err := p.Run()
		if err != nil {
			return q, err
		}
		q.Year, _ = strconv.Atoi(strings.TrimSpace(s))
	}

	if q.Period == "" {
		sel := promptui.Select{
			Label: "그때 당신은",
			Items: append([]string{promptNoPeriod}, match.Periods...),
			Size:  8,
		}
		_, picked, err := sel.Run()
		if err != nil {
			return q, err
		}
		if picked != promptNoPeriod {
			q.Period = picked
		}
	}

	if strings.TrimSpace(q.Location) == "" {
		p := promptui.Prompt{
			Label: "어디였나요 (예: 서울 강남구 압구정동)",
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("location is required")
				}
				return nil
			},
		}
		s, err := p.Run()
		if err != nil {
			return q, err
		}
		q.Location = s
	}

	if len(q.Keywords) == 0 {
		p := promptui.Prompt{Label: "기억나는 키워드 (쉼표로 구분, 없으면 Enter)"}
		s, err := p.Run()
		if err != nil {
			return q, err
		}
		q.Keywords = match.ParseKeywords(s)
	}

	return q, nil
}

// printMatches writes a ranked list. With explain set, each line also shows
// how the score was reached.
func printMatches(w io.Writer, results []match.ScoredMatch, explain *match.Criteria) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return
	}

	for i, m := range results {
		fmt.Fprintf(w, "%d. [%3d] %s (#%d)\n", i+1, m.MatchScore, m.Nickname, m.ID)
		fmt.Fprintf(w, "   %d · %s · %s\n", m.Year, m.Period, m.Location)
		if m.AdditionalInfo != "" {
			fmt.Fprintf(w, "   %s\n", m.AdditionalInfo)
		}
		if m.Bio != "" {
			fmt.Fprintf(w, "   %s\n", logging.Truncate(m.Bio, 80))
		}
		if explain != nil {
			b := match.Explain(m.Candidate, *explain)
			fmt.Fprintf(w, "   year %.0f + period %.0f + location %.0f + keywords %.1f\n",
				b.Year, b.Period, b.Location, b.Keywords)
		}
		fmt.Fprintln(w)
	}
}
