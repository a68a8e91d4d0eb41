// syndicare/internal/handlers/charge_export.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khalidesskali/syndicare/models"
	"github.com/xuri/excelize/v2"
)

// ExportChargesHandler writes the syndic's charges into an xlsx workbook.
// GET /api/charges/export?building_id=&apartment_id=
func ExportChargesHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var charges []models.Charge
	err := syndicChargeQuery(c, userID).
		Select("charges.*").
		Preload("Apartment").Preload("Apartment.Building").
		Order("charges.due_date").
		Find(&charges).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch charges"})
		return
	}

	f := excelize.NewFile()
	sheet := "Charges"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"ID", "Building", "Apartment", "Description", "Amount",
		"Paid Amount", "Remaining", "Status", "Overdue", "Due Date", "Paid Date",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, charge := range charges {
		paidDate := ""
		if charge.PaidDate != nil {
			paidDate = charge.PaidDate.Format("2006-01-02")
		}
		values := []interface{}{
			charge.ID,
			charge.Apartment.Building.Name,
			charge.Apartment.Number,
			charge.Description,
			charge.Amount,
			charge.PaidAmount,
			charge.RemainingAmount(),
			charge.Status,
			charge.IsOverdue(),
			charge.DueDate.Format("2006-01-02"),
			paidDate,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate export"})
		return
	}

	filename := fmt.Sprintf("charges_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
