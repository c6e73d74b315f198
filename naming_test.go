package edgar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogicalName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"aapl-20230930.xml", "aapl-20230930"},
		{"aapl-20230930_htm.xml", "aapl-20230930"},
		{"aapl-20230930_cal.xml", "aapl-20230930"},
		{"FilingSummary.xml", "FilingSummary"},
		{"_lab.xml", ""},
		{".xml", ""},
		{"R1.htm", "R1"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, LogicalName(tt.filename))
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "aapl-20230930", "aapl-20230930"},
		{"separators", `a/b\c`, "a_b_c"},
		{"reserved", `x:y*z?"<>|`, "x_y_z_____"},
		{"trailing dot kept", "Apple Inc.", "Apple Inc."},
		{"single dot", ".", ""},
		{"dot dot", "..", ""},
		{"blank", "   ", ""},
		{"control", "a\tb", "a_b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

func TestCompanyFolder(t *testing.T) {
	assert.Equal(t, "320193 - Apple", CompanyFolder(CompanyRef{CIK: "320193", Name: "Apple"}))
	assert.Equal(t, "1 - AT_T", CompanyFolder(CompanyRef{CIK: "1", Name: "AT/T"}))
	assert.Equal(t, "320193 - Apple Inc.", CompanyFolder(CompanyRef{CIK: "320193", Name: "Apple Inc."}))
}

func TestURLFilename(t *testing.T) {
	assert.Equal(t, "aapl-20230930_htm.xml", urlFilename("https://www.sec.gov/Archives/edgar/data/320193/000032019323000106/aapl-20230930_htm.xml"))
	assert.Equal(t, "doc.xml", urlFilename("https://www.sec.gov/a/doc.xml?x=1#frag"))
	assert.Equal(t, "", urlFilename("https://www.sec.gov/"))
	assert.Equal(t, "", urlFilename("https://www.sec.gov"))
}
