package report

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/csvtype/pkg/errors"
	"github.com/ajitpratap0/csvtype/pkg/json"
)

func renderJSON(w io.Writer, s *Summary) error {
	if err := json.MarshalToWriter(w, s, "  "); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write JSON report")
	}
	return nil
}

func renderYAML(w io.Writer, s *Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write YAML report")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write YAML report")
	}
	return nil
}
