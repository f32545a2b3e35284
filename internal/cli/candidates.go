package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazypower/bangapda/internal/logging"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List the candidate directory",
	RunE:  runCandidates,
}

func runCandidates(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	candidates, err := db.ListCandidates()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(candidates) == 0 {
		fmt.Fprintln(out, "Directory is empty. Run `bangapda seed` first.")
		return nil
	}

	fmt.Fprintf(out, "## Directory (%d)\n\n", len(candidates))
	for _, c := range candidates {
		fmt.Fprintf(out, "  #%-3d %s  %d · %s · %s\n", c.ID, c.Nickname, c.Year, c.Period, c.Location)
		if c.AdditionalInfo != "" || c.Bio != "" {
			fmt.Fprintf(out, "       %s\n", logging.Truncate(c.AdditionalInfo+" / "+c.Bio, 60))
		}
	}
	return nil
}
