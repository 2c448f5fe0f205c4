// SPDX-License-Identifier: MPL-2.0

package command

import (
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// QuoteArgs renders an argument vector as a single line that a POSIX shell would
// parse back into the same vector. Arguments that cannot be represented (for
// example, ones containing NUL) fall back to Go quoting.
func QuoteArgs(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, a := range args {
		q, err := syntax.Quote(a, syntax.LangPOSIX)
		if err != nil {
			q = strconv.Quote(a)
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " ")
}
