package rendering

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeChars   = regexp.MustCompile(`[^\p{L}\p{N}_.-]`)
)

// ExportFilename builds "<prefix>_<title>_<unix-millis>.<ext>". Whitespace runs in the
// title become "_" and characters unsafe in a Content-Disposition header are dropped.
func ExportFilename(prefix, title, ext string, now time.Time) string {
	title = whitespaceRun.ReplaceAllString(strings.TrimSpace(title), "_")
	title = unsafeChars.ReplaceAllString(title, "")
	if title == "" {
		title = "untitled"
	}
	return prefix + "_" + title + "_" + strconv.FormatInt(now.UnixMilli(), 10) + "." + strings.TrimPrefix(ext, ".")
}
