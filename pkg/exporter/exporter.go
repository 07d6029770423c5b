// Package exporter writes a rotation view as CSV or an Excel workbook.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/arnavshah/lineup-rotator-go/pkg/models"
)

// Format is an export file type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat defaults to CSV
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type served for f
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write exports v in format f
func Write(w io.Writer, f Format, v models.RotationResponse) error {
	if f == FormatXLSX {
		return WriteXLSX(w, v)
	}
	return WriteCSV(w, v)
}

// WriteCSV writes one row per interval and slot followed by the minutes summary
func WriteCSV(w io.Writer, v models.RotationResponse) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"interval", "slot", "player"})
	for _, iv := range v.Intervals {
		for _, slot := range models.Slots {
			cw.Write([]string{strconv.Itoa(iv.Number), slot.String(), iv.Lineup[slot]})
		}
		for _, p := range iv.Resting {
			cw.Write([]string{strconv.Itoa(iv.Number), "Resting", p})
		}
	}

	cw.Write(nil)
	cw.Write([]string{"player", "minutes", "goalkeeper", "percent"})
	for _, row := range v.Summary {
		cw.Write([]string{
			row.Player,
			strconv.Itoa(row.Minutes),
			strconv.Itoa(row.Goalkeeping),
			fmt.Sprintf("%.1f", row.Percent),
		})
	}
	cw.Flush()
	return cw.Error()
}

const (
	rotationsSheet = "Rotations"
	summarySheet   = "Summary"
)

// WriteXLSX writes a workbook with a rotations sheet and a summary sheet
func WriteXLSX(w io.Writer, v models.RotationResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rotationsSheet); err != nil {
		return err
	}
	header := []any{"Interval"}
	for _, slot := range models.Slots {
		header = append(header, slot.String())
	}
	header = append(header, "Resting")
	if err := setRow(f, rotationsSheet, 1, header); err != nil {
		return err
	}
	for i, iv := range v.Intervals {
		row := []any{iv.Number}
		for _, slot := range models.Slots {
			row = append(row, iv.Lineup[slot])
		}
		row = append(row, strings.Join(iv.Resting, ", "))
		if err := setRow(f, rotationsSheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	if err := setRow(f, summarySheet, 1, []any{"Player", "Minutes", "Goalkeeper", "Percent"}); err != nil {
		return err
	}
	for i, s := range v.Summary {
		if err := setRow(f, summarySheet, i+2, []any{s.Player, s.Minutes, s.Goalkeeping, s.Percent}); err != nil {
			return err
		}
	}
	last := len(v.Summary) + 3
	if err := setRow(f, summarySheet, last, []any{"Spread", v.Spread}); err != nil {
		return err
	}
	if err := setRow(f, summarySheet, last+1, []any{"Fairness", v.FairnessScore}); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
