package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-site/folio/pkg/site"
)

// errInvalidSite makes validate exit non-zero after printing its report.
var errInvalidSite = errors.New("site is not valid")

type validationReport struct {
	*site.ValidationResult
}

func (r validationReport) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	if len(r.Errors) > 0 {
		b.WriteString("Errors:\n")
		for _, err := range r.Errors {
			fmt.Fprintf(&b, "  - [%s] %s\n", err.Code, err.Message)
			if err.Suggestion != "" {
				fmt.Fprintf(&b, "    %s\n", err.Suggestion)
			}
		}
	}
	if info := r.SiteInfo; info != nil {
		b.WriteString("\nSite Info:\n")
		if info.SiteTitle != "" {
			fmt.Fprintf(&b, "  Title: %s\n", info.SiteTitle)
		}
		if info.BaseURL != "" {
			fmt.Fprintf(&b, "  Base URL: %s\n", info.BaseURL)
		}
		if info.Engine != "" {
			fmt.Fprintf(&b, "  Engine: %s\n", info.Engine)
		}
		fmt.Fprintf(&b, "  Posts: %d\n", info.Posts)
	}
	return b.String()
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the site data is complete and consistent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := site.Validate(cfg.Root)
			if err := printResult(cmd, validationReport{result}); err != nil {
				return err
			}
			if result.Status != site.StatusValid {
				return errInvalidSite
			}
			return nil
		},
	}
}
