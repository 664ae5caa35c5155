package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/apm-run/apm/internal/ports"
)

type ConstitutionFileAdapter struct{}

func NewConstitutionFileAdapter() ConstitutionFileAdapter {
	return ConstitutionFileAdapter{}
}

// ReadConstitution reads the optional governance file. Absence is not
// an error (spec.md §4.9); any other read failure is.
func (a ConstitutionFileAdapter) ReadConstitution(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read constitution file " + path).
			WithCause(err)
	}
	return string(data), true, nil
}

var _ ports.ConstitutionReaderPort = ConstitutionFileAdapter{}
