// Package invoice rend la facture PDF d'une commande via Chrome headless.
package invoice

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"my_market_back_end/internal/services"
	"my_market_back_end/internal/utils"
)

//
// GET /api/orders/:id/invoice
//
func DownloadInvoice(c *gin.Context) {
	username := c.GetString("username")

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	order, err := services.Orders.FindByID(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if order.Username != username && c.GetString("role") != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Commande non autorisée"})
		return
	}

	// QR de virement SEPA tant que la commande n'est pas réglée.
	qrBase64 := ""
	if !order.PaymentState {
		qrBase64, err = utils.GenerateSepaQR(
			os.Getenv("SHOP_IBAN"), os.Getenv("SHOP_BIC"), os.Getenv("SHOP_NAME"),
			order.ID.String(), order.TotalPrice)
		if err != nil {
			log.Printf("⚠️ QR SEPA non généré pour %s: %v", order.ID, err)
		}
	}

	pdf, err := utils.RenderInvoicePDF(order.ID.String(), qrBase64)
	if err != nil {
		log.Printf("❌ Erreur génération PDF pour %s: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération facture"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=facture-"+order.ID.String()+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
