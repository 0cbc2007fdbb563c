package validate

import (
	"fmt"
	"regexp"

	"github.com/inkatlas/datakit/internal/domain"
)

// minPortfolioImages is the floor below which a profile is flagged as thin.
// A sparse portfolio is a quality concern, not a data error, so it only
// warns.
const minPortfolioImages = 3

// ukPostcodePattern matches the outward+inward UK postcode format,
// e.g. "E2 8AA" or "M1 1AE".
var ukPostcodePattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}$`)

// artistRule is one named business check. Rules run in declaration order
// after schema validation; a nil return means the rule passed.
type artistRule struct {
	name  string
	check func(*domain.Artist) *Issue
}

// artistRules are the business rules the schema tag language cannot express.
var artistRules = []artistRule{
	{
		name: "rating-requires-reviews",
		check: func(a *domain.Artist) *Issue {
			if a.Rating > 0 && a.ReviewCount <= 0 {
				return &Issue{
					Field:    "review_count",
					Message:  fmt.Sprintf("rating %.1f present but review count is %d", a.Rating, a.ReviewCount),
					Severity: SeverityError,
				}
			}
			return nil
		},
	},
	{
		name: "minimum-portfolio",
		check: func(a *domain.Artist) *Issue {
			if len(a.PortfolioImages) < minPortfolioImages {
				return &Issue{
					Field:    "portfolio_images",
					Message:  fmt.Sprintf("only %d portfolio images, expected at least %d", len(a.PortfolioImages), minPortfolioImages),
					Severity: SeverityWarning,
				}
			}
			return nil
		},
	},
	{
		name: "uk-postcode-format",
		check: func(a *domain.Artist) *Issue {
			if a.Location.Country != "GB" {
				return nil
			}
			if a.Location.Postcode == "" || !ukPostcodePattern.MatchString(a.Location.Postcode) {
				return &Issue{
					Field:    "location.postcode",
					Message:  fmt.Sprintf("postcode %q is not a valid UK postcode", a.Location.Postcode),
					Severity: SeverityError,
				}
			}
			return nil
		},
	},
}
