package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dailyReportFixture = `Report
Date: 05-03-2024 to 06-03-2024

Receipt no,Item name,Item amount,Tax amount,Status,Sale date,Ordertype name,Register name
2001,Burger,100,10,ordered,2024-03-05 13:00:00,Eat in,CO-50001
2002,Pizza,100,10,ordered,2024-03-05 20:00:00,Home Delivery,CO-50010
2003,Void Pizza,500,0,cancelled,2024-03-05 20:05:00,Eat in,CO-50001
2004,Kebab,50,5,ordered,2024-03-05 08:00:00,Corporate,CO-50001
2005,Late Snack,30,0,ordered,2024-03-06 01:30:00,Eat in,CO-50001
2006,Next Day,999,0,ordered,2024-03-06 10:00:00,Eat in,CO-50001
`

func TestReportService_Generate(t *testing.T) {
	svc := NewReportService()

	report, err := svc.Generate([]byte(dailyReportFixture))
	require.NoError(t, err)

	assert.Equal(t, "05/03/2024", report.Date)
	assert.Equal(t, "05-03-2024", report.SalesDate)
	assert.Equal(t, "sales_report_05-03-2024.csv", report.Filename())

	// Cancelled receipt 2003 and out-of-window receipt 2006 are excluded;
	// receipt 2005 at 01:30 next day falls inside the night spillover.
	assert.InDelta(t, 195, report.Lahore.TotalSales, 0.001)
	assert.InDelta(t, 110, report.Santorini.TotalSales, 0.001)

	expected := strings.Join([]string{
		"05/03/2024;;",
		"Location;Lahore;Santorini",
		"Lunch sales;110.00;0.00",
		"Dinner sales;30.00;110.00",
		"Breakfast (weekend);55.00;0.00",
		"Total Eat in;195.00;0.00",
		"Total Delivery;0.00;110.00",
		"Total Take away;0.00;0.00",
		"TOTAL SALES;195.00;110.00",
	}, "\n")
	assert.Equal(t, expected, report.Rendered)
}

func TestReportService_Generate_MultiLineReceipt(t *testing.T) {
	svc := NewReportService()

	// Both lines of receipt 2001 sum into one total; scalar fields come from
	// the first line.
	fixture := `Report
Date: 05-03-2024 to 06-03-2024

Receipt no,Item name,Item amount,Tax amount,Status,Sale date,Ordertype name,Register name
2001,Burger,100,10,ordered,2024-03-05 13:00:00,Eat in,CO-50001
2001,Fries,40,4,ordered,2024-03-05 13:00:00,Eat in,CO-50001
`
	report, err := svc.Generate([]byte(fixture))
	require.NoError(t, err)

	assert.InDelta(t, 154, report.Lahore.TotalSales, 0.001)
	assert.InDelta(t, 154, report.Lahore.PeriodTotals["Lunch"], 0.001)
}

func TestReportService_Generate_LegacyAmountColumn(t *testing.T) {
	svc := NewReportService()

	fixture := `Report
Date: 05-03-2024 to 06-03-2024

Receipt no,Item name,Amount,Status,Sale date,Ordertype name,Register name
2001,Burger,110,ordered,2024-03-05 13:00:00,Eat in,CO-50001
`
	report, err := svc.Generate([]byte(fixture))
	require.NoError(t, err)
	assert.InDelta(t, 110, report.Lahore.TotalSales, 0.001)
}

func TestReportService_Generate_WholeFileFallback(t *testing.T) {
	svc := NewReportService()

	// No metadata preamble at all: the body parse falls back to the whole
	// file and the report day comes from the earliest sale date.
	fixture := `Receipt no,Item name,Item amount,Status,Sale date,Ordertype name,Register name
2001,Burger,110,ordered,2024-03-05 13:00:00,Eat in,CO-50001
2002,Next Day,999,ordered,2024-03-06 10:00:00,Eat in,CO-50001
`
	report, err := svc.Generate([]byte(fixture))
	require.NoError(t, err)

	assert.Equal(t, "", report.SalesDate)
	assert.InDelta(t, 110, report.Lahore.TotalSales, 0.001)
}

func TestReportService_Generate_MissingTimesSurviveWindow(t *testing.T) {
	svc := NewReportService()

	// A receipt without a parseable sale time stays in the report and lands
	// in the Unknown period rather than vanishing.
	fixture := `Report
Date: 05-03-2024 to 06-03-2024

Receipt no,Item name,Item amount,Status,Sale date,Ordertype name,Register name
2001,Burger,110,ordered,,Eat in,CO-50001
`
	report, err := svc.Generate([]byte(fixture))
	require.NoError(t, err)

	assert.InDelta(t, 110, report.Lahore.TotalSales, 0.001)
	assert.InDelta(t, 110, report.Lahore.PeriodTotals["Unknown"], 0.001)
}

func TestReportService_Generate_TooShort(t *testing.T) {
	svc := NewReportService()

	_, err := svc.Generate([]byte("Report"))
	assert.ErrorIs(t, err, ErrReportTooShort)
}

func TestReportService_Generate_NoAmountColumn(t *testing.T) {
	svc := NewReportService()

	fixture := `Report
Date: 05-03-2024 to 06-03-2024

Receipt no,Item name,Status,Sale date
2001,Burger,ordered,2024-03-05 13:00:00
`
	_, err := svc.Generate([]byte(fixture))
	assert.ErrorIs(t, err, ErrNoAmountColumn)
}

func TestReportService_Generate_MissingReceiptColumn(t *testing.T) {
	svc := NewReportService()

	fixture := `Report
Date: 05-03-2024 to 06-03-2024

Item name,Item amount,Status,Sale date
Burger,110,ordered,2024-03-05 13:00:00
`
	_, err := svc.Generate([]byte(fixture))
	assert.ErrorIs(t, err, ErrMissingReceiptColumn)
}
