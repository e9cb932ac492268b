package web2pdf

import (
	"fmt"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfcpu otherwise reads and creates a config file in the user config
// directory, and exits the process when that fails.
var disablePDFCPUConfig = sync.OnceFunc(func() { model.ConfigPath = "disable" })

// PDFInfo describes a rendered PDF.
type PDFInfo struct {
	Path  string
	Size  int64
	Pages int
}

// VerifyPDF checks that path holds a non-empty, structurally valid PDF and
// counts its pages. Validation is relaxed: renderers emit minor deviations
// from the PDF standard that viewers accept.
func VerifyPDF(path string) (*PDFInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: output not written: %v", ErrRenderFailed, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: output %s is empty", ErrRenderFailed, path)
	}

	disablePDFCPUConfig()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return nil, fmt.Errorf("%w: invalid PDF %s: %v", ErrRenderFailed, path, err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: counting pages of %s: %v", ErrRenderFailed, path, err)
	}
	return &PDFInfo{Path: path, Size: info.Size(), Pages: pages}, nil
}
