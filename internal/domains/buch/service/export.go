package service

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"buchladen-backend/internal/domains/buch/model"
)

// writeWorkbook serializes the records as an xlsx workbook.
func writeWorkbook(buecher []model.Buch) (io.Reader, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Buecher"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Titel", "Version", "Art", "Verlag", "Preis", "Rating", "ISBN", "Lieferbar"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, buch := range buecher {
		values := []interface{}{
			buch.ID, buch.Titel, buch.Version, string(buch.Art), string(buch.Verlag),
			buch.Preis.String(), derefInt(buch.Rating), buch.Isbn, derefBool(buch.Lieferbar),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return &buf, nil
}

func derefInt(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func derefBool(v *bool) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
