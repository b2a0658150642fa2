package summarizer

import (
	"fmt"
	"path/filepath"

	"github.com/user/vpxconform/pkg/ports"
)

// FormatFileLine renders one file report as a single line. translate may
// be nil.
func FormatFileLine(r ports.FileReport, translate func(string) string) string {
	if translate == nil {
		translate = func(s string) string { return s }
	}

	status := translate("PASS")
	if !r.Passed {
		status = translate("FAIL")
	}

	fourcc := r.FourCC
	if fourcc == "" {
		fourcc = "----"
	}

	line := fmt.Sprintf("[%s] %-28s %s %dx%d %d/%d %s",
		status, filepath.Base(r.Path), fourcc, r.Width, r.Height,
		r.DecodedFrames, r.DeclaredFrames, translate("frames"))
	if r.FailedFrames > 0 {
		line += fmt.Sprintf(", %d %s", r.FailedFrames, translate("failed"))
	}
	if r.TrailingBytes > 0 {
		line += fmt.Sprintf(", %d %s", r.TrailingBytes, translate("trailing bytes"))
	}
	if r.Failure != "" {
		line += fmt.Sprintf(" (%s)", r.Failure)
	}
	return line
}
