package pipeline

import (
	"os"
	"strings"
)

// NoExclusionCriteria is the sentinel handed to the scanner when the operator
// has not configured any exclusion rules.
const NoExclusionCriteria = "No exclusion criteria configured."

// LoadExclusionCriteria reads the plain-text exclusion rules. A missing or
// blank file is not an error; the sentinel is returned instead.
func LoadExclusionCriteria(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return NoExclusionCriteria
	}
	criteria := strings.TrimSpace(string(data))
	if criteria == "" {
		return NoExclusionCriteria
	}
	return criteria
}
