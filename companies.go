package edgar

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// CompanyRef is one entry of the company list.
type CompanyRef struct {
	CIK  string `json:"CIK" yaml:"cik"`
	Name string `json:"company_name" yaml:"company_name"`
}

// LoadCompanies reads a company list from a JSON or YAML file, chosen by
// extension. JSON is the default.
func LoadCompanies(path string) ([]CompanyRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open company list %s", path)
	}
	defer f.Close() //nolint:errcheck

	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}

	companies, err := ParseCompanies(f, format)
	if err != nil {
		return nil, eris.Wrapf(err, "company list %s", path)
	}
	return companies, nil
}

// ParseCompanies decodes a company list in the given format ("json" or
// "yaml") and trims every field.
func ParseCompanies(r io.Reader, format string) ([]CompanyRef, error) {
	var companies []CompanyRef
	switch format {
	case "json":
		if err := json.NewDecoder(r).Decode(&companies); err != nil {
			return nil, eris.Wrap(err, "decode JSON")
		}
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(&companies); err != nil && err != io.EOF {
			return nil, eris.Wrap(err, "decode YAML")
		}
	default:
		return nil, eris.Errorf("unsupported company list format %q", format)
	}

	for i := range companies {
		companies[i].CIK = strings.TrimSpace(companies[i].CIK)
		companies[i].Name = strings.TrimSpace(companies[i].Name)
	}
	return companies, nil
}
