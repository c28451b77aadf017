package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Resumen"
	detailsSheet    = "Detalle"
	adviceSheet     = "Consejos"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteXLSX writes the evaluation as a workbook with summary, per-item
// detail and advice sheets.
func WriteXLSX(w io.Writer, r Response) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(detailsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(adviceSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E8C"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := writeSummary(f, r, headerStyle); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeDetails(f, r, headerStyle); err != nil {
		return fmt.Errorf("details sheet: %w", err)
	}
	if err := writeAdvice(f, r, headerStyle); err != nil {
		return fmt.Errorf("advice sheet: %w", err)
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSummary(f *excelize.File, r Response, headerStyle int) error {
	sheet := summarySheet
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 60); err != nil {
		return err
	}

	rows := [][]any{
		{r.Title, ""},
		{"Nombre", r.Name},
		{"Cargo", r.Role},
		{"Capítulo", r.Chapter},
		{"Páginas", r.Pages},
		{"Perfil", r.Profile.Score},
		{"Funciones", r.Functions.Score},
		{"Promedio indicadores", r.IndicatorAverage},
		{"Puntaje global", r.Global},
		{"Comentario", r.Comment},
		{"Estrategia", r.Scoring.Strategy},
		{"Escala", r.Scoring.Scale},
		{"Umbral de consejos", r.Scoring.Threshold},
		{"Referencia", r.ReferenceFingerprint},
		{"Generado", r.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	if err := setRows(f, sheet, 1, rows); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", "B1", headerStyle)
}

func writeDetails(f *excelize.File, r Response, headerStyle int) error {
	sheet := detailsSheet
	if err := f.SetColWidth(sheet, "A", "B", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "C", "C", 12); err != nil {
		return err
	}

	rows := [][]any{{"Dimensión", "Elemento", "Puntaje"}}
	for _, d := range r.Profile.Details {
		rows = append(rows, []any{"Perfil", d.Item, d.Score})
	}
	for _, d := range r.Functions.Details {
		rows = append(rows, []any{"Funciones", d.Item, d.Score})
	}
	for _, ind := range r.Indicators {
		rows = append(rows, []any{ind.Name, "(indicador)", ind.Score})
		for _, d := range ind.Details {
			rows = append(rows, []any{ind.Name, d.Item, d.Score})
		}
	}
	if err := setRows(f, sheet, 1, rows); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", "C1", headerStyle)
}

func writeAdvice(f *excelize.File, r Response, headerStyle int) error {
	sheet := adviceSheet
	if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "C", "C", 80); err != nil {
		return err
	}

	rows := [][]any{{"Indicador", "Puntaje", "Consejo"}}
	for _, rec := range r.Recommendations {
		for _, line := range rec.Advice {
			rows = append(rows, []any{rec.Indicator, rec.Score, line})
		}
	}
	if err := setRows(f, sheet, 1, rows); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", "C1", headerStyle)
}

func setRows(f *excelize.File, sheet string, startRow int, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
