package approval

import (
	"fmt"
	"strings"
)

var serviceSlugs = map[string]string{
	"App\\Models\\Claim":       "claims",
	"App\\Models\\Expense":     "expenses",
	"App\\Models\\Trip":        "trips",
	"App\\Models\\CashAdvance": "cash-advances",
	"App\\Models\\Requisition": "requisitions",
}

// ServiceSlug translates a document's polymorphic underlying type into the
// normalized slug naming its backend execution endpoint. The mapping is an
// explicit table; unmapped types are an error, never a guess.
func ServiceSlug(documentableType string) (string, error) {
	if slug, ok := serviceSlugs[documentableType]; ok {
		return slug, nil
	}
	// Short tags ("Claim", "Expense") arrive from older records.
	short := documentableType
	if idx := strings.LastIndex(short, "\\"); idx >= 0 {
		short = short[idx+1:]
	}
	for qualified, slug := range serviceSlugs {
		if strings.HasSuffix(qualified, "\\"+short) {
			return slug, nil
		}
	}
	return "", fmt.Errorf("no service registered for documentable type %q", documentableType)
}
