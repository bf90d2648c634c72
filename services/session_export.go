package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const sessionsSheet = "Sessões"

// MaxExportRows caps a single spreadsheet export
const MaxExportRows = 50000

var sessionExportHeaders = []string{
	"ID", "Data", "Início", "Fim", "Ativa", "Advogado", "Inscrição OAB", "IP do computador",
	"Sala", "Unidade", "Subseção", "Analistas",
}

// ExportSessionsXLSX writes every session matching f (pagination ignored) into a spreadsheet
func ExportSessionsXLSX(db *gorm.DB, f SessionFilter) (*bytes.Buffer, error) {
	f.Skip, f.Limit = 0, MaxLimit
	if err := f.Validate(); err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", sessionsSheet)
	for i, header := range sessionExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sessionsSheet, cell, header)
	}
	headerStyle, _ := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(sessionExportHeaders), 1)
	file.SetCellStyle(sessionsSheet, "A1", lastHeader, headerStyle)
	file.SetColWidth(sessionsSheet, "A", "A", 38)
	file.SetColWidth(sessionsSheet, "B", "L", 20)

	row := 2
	for row-2 < MaxExportRows {
		views, _, err := ListSessions(db, f)
		if err != nil {
			return nil, err
		}
		for _, v := range views {
			writeSessionRow(file, row, v)
			row++
		}
		if len(views) < f.Limit {
			break
		}
		f.Skip += f.Limit
	}

	file.SetPanes(sessionsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

func writeSessionRow(file *excelize.File, row int, v SessionView) {
	end := ""
	if v.EndTime != nil {
		end = v.EndTime.Format(time.DateTime)
	}
	active := "Não"
	if v.Active {
		active = "Sim"
	}
	values := []interface{}{
		v.ID, v.Date, v.StartTime.Format(time.DateTime), end, active, v.LawyerName, v.BarNumber, v.ComputerIP,
		refName(v.Room), refName(v.Unit), refName(v.Subsection), fmt.Sprintf("%d", len(v.AnalystIDs)),
	}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	file.SetSheetRow(sessionsSheet, cell, &values)
}

func refName(r *RefView) string {
	if r == nil {
		return ""
	}
	return r.Name
}
