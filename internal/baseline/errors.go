package baseline

import (
	"fmt"
	"strings"
)

// UploadError rejects an upload before any calculation sees it.
type UploadError struct {
	Kind    Kind
	File    string
	Missing []string
	Row     int
	Reason  string
}

func (e *UploadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "baseline: invalid %s upload", e.Kind)
	if e.File != "" {
		fmt.Fprintf(&b, " %s", e.File)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing columns: %s", strings.Join(e.Missing, ", "))
	}
	if e.Reason != "" {
		if e.Row > 0 {
			fmt.Fprintf(&b, ": row %d", e.Row)
		}
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	return b.String()
}
