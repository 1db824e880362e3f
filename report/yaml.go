// report/yaml.go
package report

import (
	"io"

	"gopkg.in/yaml.v3"
)

type yamlReport struct {
	Summary Summary  `yaml:"summary"`
	Results []Result `yaml:"results"`
}

func writeYAML(w io.Writer, results []Result) error {
	if results == nil {
		results = []Result{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlReport{Summary: Summarize(results), Results: results}); err != nil {
		return err
	}
	return enc.Close()
}
