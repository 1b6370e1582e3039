package rendering

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExportFilename(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	t.Run("whitespace runs become underscores", func(t *testing.T) {
		name := ExportFilename("cv", "Senior  Engineer", "pdf", time.Now())
		assert.Regexp(t, regexp.MustCompile(`^cv_Senior_Engineer_\d+\.pdf$`), name)
	})

	tests := []struct {
		title string
		ext   string
		want  string
	}{
		{"Senior Engineer", "pdf", "cv_Senior_Engineer_1700000000123.pdf"},
		{"  Data\tScientist \n", ".pdf", "cv_Data_Scientist_1700000000123.pdf"},
		{`Lead "Dev"/Ops`, "pdf", "cv_Lead_DevOps_1700000000123.pdf"},
		{"", "pdf", "cv_untitled_1700000000123.pdf"},
		{"Développeur Go", "pdf", "cv_Développeur_Go_1700000000123.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ExportFilename("cv", tt.title, tt.ext, now))
		})
	}
}
