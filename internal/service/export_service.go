package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/grvup/classroom/internal/dto"
	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/repository"
	pkgerrors "github.com/grvup/classroom/pkg/errors"
)

// ErrExportGenerateFail the workbook could not be written
var ErrExportGenerateFail = errors.New("failed to generate the spreadsheet")

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportService spreadsheet exports
type ExportService interface {
	// ExportAttendance one row per student, one column per lesson and a
	// final percentage column
	ExportAttendance(ctx context.Context, caller *model.User, classID string) (*dto.Export, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates the ExportService
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAttendance
// ═══════════════════════════════════════════════════════════
//
// Layout:
//   - row 1: class name, merged across the table
//   - row 2: Student | <lesson name (date)>... | Attendance
//   - rows 3+: full name | ✓ or - per lesson | percentage or "-"

func (s *exportService) ExportAttendance(ctx context.Context, caller *model.User, classID string) (*dto.Export, error) {
	class, err := s.repo.Class.GetOwned(ctx, classID, caller.ID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("load class failed", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Attendance"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	lastCol := colName(len(class.Lessons) + 1)

	f.SetColWidth(sheetName, "A", "A", 28)
	if len(class.Lessons) > 0 {
		f.SetColWidth(sheetName, colName(1), colName(len(class.Lessons)), 18)
	}
	f.SetColWidth(sheetName, lastCol, lastCol, 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// title
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s (%s)", class.ClassName, class.ClassLevel))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// header
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "Student")
	for i, l := range class.Lessons {
		f.SetCellValue(sheetName, cell(colName(i+1), row), lessonHeader(l))
	}
	f.SetCellValue(sheetName, cell(lastCol, row), "Attendance")
	f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), headerStyle)

	// one row per student
	row = 3
	for _, st := range class.Students {
		f.SetCellValue(sheetName, cell("A", row), st.FullName())

		history, present := class.StudentHistory(st.ID)
		for i, h := range history {
			mark := "-"
			if h.Present {
				mark = "✓"
			}
			f.SetCellValue(sheetName, cell(colName(i+1), row), mark)
		}

		if pct, ok := model.AttendancePercentage(present, len(class.Lessons)); ok {
			f.SetCellValue(sheetName, cell(lastCol, row), fmt.Sprintf("%d%%", pct))
		} else {
			f.SetCellValue(sheetName, cell(lastCol, row), "-")
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, ErrExportGenerateFail
	}

	return &dto.Export{
		Filename:    fileSafe(class.ClassName) + "_attendance.xlsx",
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}

// ── Helpers ──

func lessonHeader(l model.Lesson) string {
	if l.LessonDate == "" {
		return l.LessonName
	}
	return fmt.Sprintf("%s (%s)", l.LessonName, l.LessonDate)
}

// colName 0 → "A"
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// fileSafe keeps names usable in a Content-Disposition header
func fileSafe(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "class"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
