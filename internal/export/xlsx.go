// Package export renders planning outputs as xlsx workbooks for the weekly
// S&OP meeting deck. Monetary cells are rounded to two decimal places with
// decimal arithmetic so exported totals match the finance reports.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	productSheet  = "Products"
	customerSheet = "Customers"
	kpiSheet      = "KPIs"
	alertSheet    = "Alerts"
)

type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Dashboard writes the integrated rollup into a three-sheet workbook.
func (e *XLSXExporter) Dashboard(w io.Writer, d *domain.Dashboard) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", productSheet)
	if _, err := f.NewSheet(customerSheet); err != nil {
		return fmt.Errorf("create customer sheet: %w", err)
	}
	if _, err := f.NewSheet(kpiSheet); err != nil {
		return fmt.Errorf("create kpi sheet: %w", err)
	}

	if err := e.writeProducts(f, d.Items); err != nil {
		return err
	}
	if err := e.writeCustomers(f, d.Customers); err != nil {
		return err
	}
	if err := e.writeKPIs(f, d.KPIs); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// AlertFeed writes one daily alert run into a single-sheet workbook.
func (e *XLSXExporter) AlertFeed(w io.Writer, feed *domain.AlertFeed, runDate time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", alertSheet)

	header := []interface{}{
		fmt.Sprintf("Daily alerts %s", runDate.Format("2006-01-02")),
	}
	if err := f.SetSheetRow(alertSheet, "A1", &header); err != nil {
		return fmt.Errorf("write alert title: %w", err)
	}

	columns := []interface{}{"Type", "Level", "Product Code", "Product Name", "Cause", "Action", "Magnitude"}
	if err := f.SetSheetRow(alertSheet, "A2", &columns); err != nil {
		return fmt.Errorf("write alert header: %w", err)
	}

	for i, a := range feed.Alerts {
		row := []interface{}{
			string(a.Type), string(a.Level), a.ProductCode, a.ProductName,
			a.Cause, a.Action, a.Magnitude,
		}
		cell := fmt.Sprintf("A%d", i+3)
		if err := f.SetSheetRow(alertSheet, cell, &row); err != nil {
			return fmt.Errorf("write alert row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (e *XLSXExporter) writeProducts(f *excelize.File, items []domain.IntegratedItem) error {
	columns := []interface{}{
		"Product Code", "Product Name", "Category",
		"Requested", "Delivered", "Unfulfilled", "Sales Amount",
		"Total Stock", "Plant Stock", "External Stock", "Status", "Min Days Left",
		"ADS 30", "ADS 60", "ADS 90",
		"Planned", "Received", "Achievement %",
	}
	if err := f.SetSheetRow(productSheet, "A1", &columns); err != nil {
		return fmt.Errorf("write product header: %w", err)
	}

	for i, item := range items {
		row := []interface{}{
			item.ProductCode, item.ProductName, item.Category,
			item.Sales.RequestedQty, item.Sales.DeliveredQty, item.Sales.UnfulfilledQty,
			money(item.Sales.TotalAmount),
			item.Inventory.TotalStock, item.Inventory.PlantStock, item.Inventory.ExternalStock,
			item.Inventory.Status.Label(), item.Inventory.MinRemainingDays,
			round1(item.Inventory.ADS30), round1(item.Inventory.ADS60), round1(item.Inventory.ADS90),
			item.Production.PlannedQty, item.Production.ReceivedQty, round1(item.Production.AchievementRate),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(productSheet, cell, &row); err != nil {
			return fmt.Errorf("write product row: %w", err)
		}
	}
	return nil
}

func (e *XLSXExporter) writeCustomers(f *excelize.File, customers []domain.CustomerStat) error {
	columns := []interface{}{
		"Customer ID", "Customer Name", "Orders", "Fulfilled",
		"Fulfillment %", "Revenue", "Missed Revenue",
	}
	if err := f.SetSheetRow(customerSheet, "A1", &columns); err != nil {
		return fmt.Errorf("write customer header: %w", err)
	}

	for i, c := range customers {
		row := []interface{}{
			c.CustomerID, c.CustomerName, c.OrderCount, c.FulfilledCount,
			round1(c.FulfillmentRate), money(c.Revenue), money(c.MissedRevenue),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(customerSheet, cell, &row); err != nil {
			return fmt.Errorf("write customer row: %w", err)
		}
	}
	return nil
}

func (e *XLSXExporter) writeKPIs(f *excelize.File, kpis domain.KPISummary) error {
	rows := [][]interface{}{
		{"Total Sales", money(kpis.TotalSales)},
		{"Manufactured Sales", money(kpis.ManufacturedSales)},
		{"Merchandise Sales", money(kpis.MerchandiseSales)},
		{"Unfulfilled Value", money(kpis.TotalUnfulfilledValue)},
		{"Critical Deliveries", kpis.CriticalDeliveryCount},
		{"Products", kpis.ProductCount},
		{"Customers", kpis.CustomerCount},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(kpiSheet, cell, &row); err != nil {
			return fmt.Errorf("write kpi row: %w", err)
		}
	}
	return nil
}

// money rounds a float amount half-up to two decimals via decimal
// arithmetic, avoiding float drift in exported totals.
func money(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
