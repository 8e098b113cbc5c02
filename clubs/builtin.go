package clubs

import (
	_ "embed"
	"fmt"
	"strings"

	"archery-results/models"

	"gopkg.in/yaml.v3"
)

//go:embed builtin_clubs.yaml
var builtinYAML []byte

type builtinFile struct {
	Clubs []models.Club `yaml:"clubs"`
}

// Builtins returns the shipped vocabulary.
func Builtins() []models.Club {
	clubs, err := parseBuiltins(builtinYAML)
	if err != nil {
		panic(err)
	}
	return clubs
}

func parseBuiltins(data []byte) ([]models.Club, error) {
	var f builtinFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse built-in clubs: %w", err)
	}
	out := make([]models.Club, 0, len(f.Clubs))
	seen := map[string]bool{}
	for _, c := range f.Clubs {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		if code == "" || seen[code] {
			return nil, fmt.Errorf("built-in club code %q is empty or duplicated", c.Code)
		}
		seen[code] = true
		out = append(out, models.Club{Code: code, Name: strings.TrimSpace(c.Name)})
	}
	return out, nil
}
