package productcontroller

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thedevbrian1/thevervefashion-fly/catalog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func ExportProductsToExcel(cat Reader, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := cat.All(c.Request.Context())
		if err != nil {
			log.Error("export products", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		// Buffer so a write failure can still be reported as JSON
		var buf bytes.Buffer
		if err := catalog.WriteWorkbook(&buf, products); err != nil {
			log.Error("write workbook", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}
