package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shule/core/attendance"
)

var exportHeaders = []string{"Student ID", "Student", "Classes", "Present", "Absent", "Late", "Excused", "Present %"}

// ExportBatchAttendance renders the batch attendance stats into an .xlsx workbook.
func (svc *Service) ExportBatchAttendance(ctx context.Context, batchID int, rng attendance.QueryRange) (*bytes.Buffer, error) {
	stats, err := svc.BatchAttendance(ctx, batchID, rng)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Attendance"
	f.SetSheetName("Sheet1", sheet)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err = f.SetCellValue(sheet, cell, header); err != nil {
			return nil, errors.Wrap(err, "writing header row")
		}
	}

	for i, st := range stats {
		row := i + 2
		values := []interface{}{
			st.StudentID,
			st.StudentName,
			st.TotalClasses,
			st.PresentCount,
			st.AbsentCount,
			st.LateCount,
			st.ExcusedCount,
			fmt.Sprintf("%.1f", st.PresentPercent),
		}
		for j, val := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err = f.SetCellValue(sheet, cell, val); err != nil {
				return nil, errors.Wrap(err, "writing stats row")
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "serializing workbook")
	}
	return buf, nil
}
