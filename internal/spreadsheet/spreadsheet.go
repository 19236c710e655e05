// Package spreadsheet reads the first sheet of an xlsx workbook as a grid
// of formatted cell strings.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheet is returned for a workbook without worksheets.
var ErrNoSheet = errors.New("spreadsheet: workbook has no sheets")

// Parser opens xlsx content with excelize.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// Parse returns the formatted cell values of the first sheet. Rows keep
// their spreadsheet position; trailing empty cells are dropped by excelize,
// so rows may be ragged.
func (p *Parser) Parse(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: open: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: read %s: %w", sheets[0], err)
	}
	return rows, nil
}
