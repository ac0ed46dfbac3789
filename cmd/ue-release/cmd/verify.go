package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/ue-release/internal/service/verifier"
)

// errReleaseInvalid is returned when verification finds problems.
var errReleaseInvalid = errors.New("release verification failed")

// verifyCmd checks a staged release without modifying it.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the staged release against the project sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		report, err := verifier.Run(cmd.Context(), new(verifier.Options))
		if err != nil {
			return err
		}

		_, _ = fmt.Fprint(cmd.OutOrStdout(), report.Render())

		if !report.OK() {
			return fmt.Errorf("%d problem(s): %w", len(report.Findings), errReleaseInvalid)
		}

		return nil
	},
}
