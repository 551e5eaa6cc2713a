package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validator checks that a manual can be processed before extraction starts
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// CheckFile performs the file system checks that need no PDF parsing
func (v *Validator) CheckFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	return v.ValidateFileInfo(filePath, fileInfo)
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}

// ValidateStructure runs pdfcpu's relaxed validation over the file
func (v *Validator) ValidateStructure(filePath string) error {
	if err := v.CheckFile(filePath); err != nil {
		return err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(filePath, conf); err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	return nil
}

// CheckPageCoverage verifies the file has at least minPages pages, so
// that every configured anchor page exists.
func (v *Validator) CheckPageCoverage(filePath string, minPages int) (int, error) {
	if err := v.CheckFile(filePath); err != nil {
		return 0, err
	}

	pageCount, err := api.PageCountFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}

	if pageCount < minPages {
		return pageCount, fmt.Errorf("document has %d pages, configuration references page %d",
			pageCount, minPages)
	}
	return pageCount, nil
}
