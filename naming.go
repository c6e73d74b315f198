package edgar

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var (
	nameDelimiters = regexp.MustCompile(`[._]`)
	unsafePathChar = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
)

// LogicalName returns the filing name encoded in an XBRL file name: the
// leading token before the first "." or "_". "aapl-20230930_htm.xml" yields
// "aapl-20230930". The result is safe to use as a directory name and is
// empty when nothing usable remains.
func LogicalName(filename string) string {
	token := nameDelimiters.Split(filename, 2)[0]
	return SanitizeName(token)
}

// SanitizeName makes s usable as a single path element. Separators and
// control characters become "_"; "." and ".." are rejected.
func SanitizeName(s string) string {
	s = unsafePathChar.ReplaceAllString(s, "_")
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == ".." {
		return ""
	}
	return s
}

// CompanyFolder is the per-company directory name "{cik} - {name}".
func CompanyFolder(company CompanyRef) string {
	return SanitizeName(fmt.Sprintf("%s - %s", company.CIK, company.Name))
}

// urlFilename returns the final path segment of a URL.
func urlFilename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}
