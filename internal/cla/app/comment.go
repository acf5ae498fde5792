package app

import (
	"fmt"
	"strings"

	"github.com/nathantilsley/cla-val/internal/cla/domain"
)

const thankYouComment = "\n## Thank You for making this pull request."

// FormatComment renders the PR comment for an outcome. Exported for use in tests.
func FormatComment(outcome domain.Outcome, signURL string) string {
	if !outcome.Failed() {
		return thankYouComment
	}

	var sb strings.Builder
	sb.WriteString("### Error: Contributor Licence Agreement Signature Missing\n\n")
	sb.WriteString("The following contributors have not signed the Contributor Licence Agreement:\n\n")
	for _, login := range outcome.Unsigned {
		fmt.Fprintf(&sb, "- `%s`", login)
		if s := outcome.Suggestions[login]; len(s) > 0 {
			fmt.Fprintf(&sb, " (signed as `%s`?)", strings.Join(s, "`, `"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nPlease sign the Contributor Licence Agreement by clicking the following link.\n\n")
	fmt.Fprintf(&sb, "<p align=\"center\"> <a href=\"%s\">Click here to sign the CLA</a></p>", signURL)
	return sb.String()
}
