// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	sessionPrefixLen    = 4
	sessionPrefixPad    = 'X'
	firstSessionCounter = 1000
)

// SessionPrefix returns the organization part of a session id: the name
// uppercased with whitespace removed, cut or padded to four characters.
func SessionPrefix(orgName string) string {
	var b strings.Builder
	n := 0
	for _, r := range orgName {
		if unicode.IsSpace(r) {
			continue
		}
		if n == sessionPrefixLen {
			break
		}
		b.WriteRune(unicode.ToUpper(r))
		n++
	}
	for ; n < sessionPrefixLen; n++ {
		b.WriteRune(sessionPrefixPad)
	}
	return b.String()
}

// NextSessionID derives the next session id for an election, e.g.
// ACME-007-1000. The counter is one past the highest counter among existing
// ids that share the ORG-EEE- prefix, starting at 1000. Election ids above
// 999 and counters above 9999 print at their full width.
func NextSessionID(orgName string, electionID int64, existing []string) string {
	prefix := fmt.Sprintf("%s-%03d-", SessionPrefix(orgName), electionID)

	next := firstSessionCounter
	for _, id := range existing {
		rest, ok := strings.CutPrefix(id, prefix)
		if !ok {
			continue
		}
		counter, err := strconv.Atoi(rest)
		if err != nil || counter < 0 {
			continue
		}
		if counter+1 > next {
			next = counter + 1
		}
	}

	return prefix + strconv.Itoa(next)
}
