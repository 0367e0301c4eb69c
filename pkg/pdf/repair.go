package pdf

import (
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Repairer is the external archival-compliance pass invoked on a saved
// file. It runs after the write completes and sees only the destination
// path, never the session.
type Repairer interface {
	Repair(path string) error
}

// RepairerFunc adapts a function to the Repairer interface.
type RepairerFunc func(path string) error

func (f RepairerFunc) Repair(path string) error {
	return f(path)
}

// DefaultRepairer rewrites the saved file in place through the engine's
// optimize pass, restoring the strict object layout archival profiles
// expect. Callers with a dedicated PDF/A tool can install it via
// WithRepairer.
var DefaultRepairer Repairer = RepairerFunc(func(path string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.OptimizeFile(path, "", conf)
})
