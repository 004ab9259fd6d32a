// Package export renders saved calculations as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joaolangeloh/3decom/internal/pricing"
)

const (
	SummarySheet   = "Resumo"
	WaterfallSheet = "Cascata"

	// ContentType is the MIME type of the workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	moneyFormat = 2 // builtin "0.00"
)

// Calculation is what gets exported: a name, when it was saved and its
// result snapshot.
type Calculation struct {
	Name      string
	CreatedAt time.Time
	Result    pricing.Result
}

// WriteXLSX writes a workbook with a summary sheet and the waterfall.
func WriteXLSX(w io.Writer, c Calculation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(WaterfallSheet); err != nil {
		return fmt.Errorf("create waterfall sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}

	if err := writeSummary(f, c, bold, money); err != nil {
		return err
	}
	if err := writeWaterfall(f, c.Result.Waterfall, bold, money); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, c Calculation, bold, money int) error {
	r := c.Result
	rows := [][]any{
		{"Cálculo", c.Name},
		{"Data", c.CreatedAt.Format("02/01/2006 15:04")},
		{"Marketplace", string(r.Marketplace)},
		{"Preço de venda", r.SalePrice},
		{"Preço anunciado", r.AdvertisedPrice},
		{"Preço no Pix", r.PixPrice},
		{"Taxa do marketplace", r.MarketplaceTotalFee},
		{"Frete", r.ShippingCost},
		{"Custos totais", r.TotalCosts},
		{"Lucro", r.Profit},
		{"Margem (%)", r.MarginPercent},
		{"Lucro por hora", r.ProfitPerHour},
		{"Lucro diário", r.DailyProfit},
		{"Lucro mensal", r.MonthlyProfit},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("summary cell: %w", err)
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return fmt.Errorf("style summary labels: %w", err)
	}
	if err := f.SetCellStyle(SummarySheet, "B4", fmt.Sprintf("B%d", len(rows)), money); err != nil {
		return fmt.Errorf("style summary values: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "A", 22)
}

func writeWaterfall(f *excelize.File, lines []pricing.WaterfallLine, bold, money int) error {
	header := []any{"Item", "Valor", "% do preço", "Saldo"}
	if err := f.SetSheetRow(WaterfallSheet, "A1", &header); err != nil {
		return fmt.Errorf("write waterfall header: %w", err)
	}
	if err := f.SetCellStyle(WaterfallSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("style waterfall header: %w", err)
	}

	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("waterfall cell: %w", err)
		}
		row := []any{line.Label, line.Amount, line.PercentOfSalePrice, line.RunningRemainder}
		if err := f.SetSheetRow(WaterfallSheet, cell, &row); err != nil {
			return fmt.Errorf("write waterfall row %d: %w", i+2, err)
		}
	}
	if len(lines) > 0 {
		if err := f.SetCellStyle(WaterfallSheet, "B2", fmt.Sprintf("D%d", len(lines)+1), money); err != nil {
			return fmt.Errorf("style waterfall values: %w", err)
		}
	}
	return f.SetColWidth(WaterfallSheet, "A", "A", 24)
}
