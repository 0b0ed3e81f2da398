// Package review writes an XLSX workbook of one normalization result so that a person
// can check the extracted fields before a voucher is generated.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/voucher-standardizer/constants"
	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
	"github.com/joseph-ayodele/voucher-standardizer/internal/llm"
	"github.com/joseph-ayodele/voucher-standardizer/internal/normalize"
)

const (
	SheetFields = "Fields"
	SheetIssues = "Issues"
	SheetRaw    = "Raw"
)

// Input is everything the workbook shows.
type Input struct {
	Source string
	Raw    llm.RawFieldMap
	Record normalize.Record
	Issues []normalize.Issue
}

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportXLSX returns the review workbook as bytes.
func (s *Service) ExportXLSX(ctx context.Context, in Input) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// the default sheet becomes Fields
	if err := f.SetSheetName("Sheet1", SheetFields); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetIssues, SheetRaw} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	idx, _ := f.GetSheetIndex(SheetFields)
	f.SetActiveSheet(idx)

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"0B5394"}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	byField := map[constants.Field][]normalize.Issue{}
	for _, is := range in.Issues {
		if is.Field != "" {
			byField[is.Field] = append(byField[is.Field], is)
		}
	}

	// Fields
	values := fieldValues(in.Record)
	rows := [][]any{}
	for _, spec := range constants.Fields() {
		status := "ok"
		if list := byField[spec.Name]; len(list) > 0 {
			kinds := make([]string, len(list))
			for i, is := range list {
				kinds[i] = string(is.Kind)
			}
			status = strings.Join(kinds, ", ")
		} else if values[spec.Name] == "" {
			status = "absent"
		}
		rows = append(rows, []any{string(spec.Name), spec.Label, values[spec.Name], yesNo(spec.Required), status})
	}
	if err := writeTable(f, SheetFields, header,
		[]string{"Field", "Label", "Value", "Required", "Status"}, rows); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetFields, "A", "A", 24)
	_ = f.SetColWidth(SheetFields, "B", "B", 22)
	_ = f.SetColWidth(SheetFields, "C", "C", 60)
	_ = f.SetColWidth(SheetFields, "D", "D", 10)
	_ = f.SetColWidth(SheetFields, "E", "E", 36)

	// Issues
	rows = rows[:0]
	for _, is := range in.Issues {
		rows = append(rows, []any{string(is.Kind), string(is.Field), is.Key, truncate(is.Value, 200), is.Message, yesNo(is.Blocking())})
	}
	if err := writeTable(f, SheetIssues, header,
		[]string{"Kind", "Field", "Raw Key", "Raw Value", "Message", "Blocking"}, rows); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetIssues, "A", "B", 26)
	_ = f.SetColWidth(SheetIssues, "C", "D", 28)
	_ = f.SetColWidth(SheetIssues, "E", "E", 60)

	// Raw
	rows = rows[:0]
	for _, rf := range in.Raw {
		v := "(null)"
		if rf.Value != nil {
			v = *rf.Value
		}
		canon := ""
		if field, ok := constants.Canonicalize(rf.Key); ok {
			canon = string(field)
		}
		rows = append(rows, []any{rf.Key, canon, v})
	}
	if err := writeTable(f, SheetRaw, header, []string{"Oracle Key", "Maps To", "Value"}, rows); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetRaw, "A", "B", 28)
	_ = f.SetColWidth(SheetRaw, "C", "C", 80)

	if in.Source != "" {
		_ = f.SetDocProps(&excelize.DocProperties{Title: "Voucher review", Subject: in.Source})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("review.xlsx.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"source", in.Source,
		"issues", len(in.Issues),
		"raw_keys", len(in.Raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, style int, headers []string, rows [][]any) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("xlsx %s header: %w", sheet, err)
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, first, last, style)

	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx %s row %d: %w", sheet, r+2, err)
		}
	}
	return nil
}

// fieldValues renders each record field as display text.
func fieldValues(rec normalize.Record) map[constants.Field]string {
	num := func(n *int) string {
		if n == nil {
			return ""
		}
		return strconv.Itoa(*n)
	}
	rate := ""
	if rec.Rate != nil {
		rate = rec.Rate.String()
	}
	return map[constants.Field]string{
		constants.FieldHotelName:             rec.HotelName,
		constants.FieldHotelAddress:          rec.HotelAddress,
		constants.FieldHotelContact:          rec.HotelContact,
		constants.FieldCity:                  rec.City,
		constants.FieldCountry:               rec.Country,
		constants.FieldConfirmationNumber:    rec.ConfirmationNumber,
		constants.FieldGuestName:             rec.GuestName,
		constants.FieldGuestNationality:      rec.GuestNationality,
		constants.FieldNumGuests:             num(rec.NumGuests),
		constants.FieldCheckInDate:           string(rec.CheckInDate),
		constants.FieldCheckOutDate:          string(rec.CheckOutDate),
		constants.FieldNumNights:             num(rec.NumNights),
		constants.FieldRoomType:              rec.RoomType,
		constants.FieldBedType:               rec.BedType,
		constants.FieldBreakfastIncluded:     string(rec.BreakfastIncluded),
		constants.FieldRateAmount:            rate,
		constants.FieldCurrency:              rec.Currency,
		constants.FieldSpecialRequests:       rec.SpecialRequests,
		constants.FieldAdditionalInformation: strings.Join(rec.AdditionalInformation, "\n"),
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
