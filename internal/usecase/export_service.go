package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/courtsight/draft-assistant/internal/domain/player"
)

// exportColumns is the export contract, same names and order as the JSON
// row fields.
var exportColumns = []string{
	"Player", "Team", "Position", "GP",
	"PTS", "REB", "AST", "STL", "BLK", "TO",
	"PTS_PG", "REB_PG", "AST_PG", "STL_PG", "BLK_PG", "TO_PG",
	"FPPG", "Total",
}

// ExportService renders draft board tables as CSV or JSON downloads.
type ExportService struct {
	roster *RosterService
}

func NewExportService(roster *RosterService) *ExportService {
	return &ExportService{roster: roster}
}

func (s *ExportService) ExportCSV(ctx context.Context, query TableQuery) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.ExportCSV")
	defer span.End()

	table, err := s.roster.Table(ctx, query)
	if err != nil {
		return nil, err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportColumns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(csvRecord(row)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return append([]byte(nil), buf.B...), nil
}

func (s *ExportService) ExportJSON(ctx context.Context, query TableQuery) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.ExportJSON")
	defer span.End()

	table, err := s.roster.Table(ctx, query)
	if err != nil {
		return nil, err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(table.Rows); err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}

	return append([]byte(nil), buf.B...), nil
}

func csvRecord(row player.Row) []string {
	return []string{
		row.Player,
		row.Team,
		row.Position,
		strconv.Itoa(row.GP),
		strconv.Itoa(row.PTS),
		strconv.Itoa(row.REB),
		strconv.Itoa(row.AST),
		strconv.Itoa(row.STL),
		strconv.Itoa(row.BLK),
		strconv.Itoa(row.TO),
		strconv.FormatFloat(row.PTSPG, 'f', 1, 64),
		strconv.FormatFloat(row.REBPG, 'f', 1, 64),
		strconv.FormatFloat(row.ASTPG, 'f', 1, 64),
		strconv.FormatFloat(row.STLPG, 'f', 1, 64),
		strconv.FormatFloat(row.BLKPG, 'f', 1, 64),
		strconv.FormatFloat(row.TOPG, 'f', 1, 64),
		strconv.FormatFloat(row.FPPG, 'f', 2, 64),
		strconv.FormatFloat(row.FPTSTotal, 'f', 1, 64),
	}
}
