// validate/messages.go
package validate

import (
	"fmt"
	"strconv"
	"unicode"
)

// MessageValid is returned for addresses that pass every check.
const MessageValid = "Email looks valid (basic checks passed)."

var fixedMessages = map[Reason]string{
	ReasonEmpty:                 "Email is empty.",
	ReasonAtCount:               "Email must contain exactly one '@'.",
	ReasonEmptyLocal:            "Local part (before @) is empty.",
	ReasonEmptyDomain:           "Domain part (after @) is empty.",
	ReasonLocalDotEdge:          "Local part must not start or end with a dot.",
	ReasonDomainDotEdge:         "Domain must not start or end with a dot.",
	ReasonLocalConsecutiveDots:  "Local part must not contain consecutive dots.",
	ReasonDomainConsecutiveDots: "Domain must not contain consecutive dots.",
	ReasonDomainNoDot:           "Domain must contain at least one dot (e.g., 'example.com').",
	ReasonLabelEmpty:            "Domain has empty label (consecutive dots or leading/trailing dot).",
	ReasonLabelHyphen:           "Domain labels must not start or end with '-' (hyphen).",
	ReasonShortTLD:              "Top-level domain (last label) must be at least 2 characters.",
}

// message renders the human-readable text for a failed check.
// offending is used by the character checks; limit by the length and digit checks.
func message(r Reason, offending rune, limit int) string {
	switch r {
	case ReasonLocalChar:
		return fmt.Sprintf("Invalid character %s in local part.", quoteRune(offending))
	case ReasonLabelChar:
		return fmt.Sprintf("Invalid character %s in domain label.", quoteRune(offending))
	case ReasonTooLong:
		return fmt.Sprintf("Email is too long (>%d characters).", limit)
	case ReasonDigits:
		return fmt.Sprintf("Email must contain at least %d digits.", limit)
	}
	if m, ok := fixedMessages[r]; ok {
		return m
	}
	return "Email is invalid."
}

// quoteRune writes printable runes as-is between single quotes and escapes
// the rest, so messages never carry raw control characters.
func quoteRune(r rune) string {
	if unicode.IsPrint(r) {
		return "'" + string(r) + "'"
	}
	return strconv.QuoteRune(r)
}
