package user

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"my_market_back_end/internal/models"
	"my_market_back_end/internal/services"
	"my_market_back_end/internal/store"
	"my_market_back_end/internal/utils"
)

// parsePeriod lit les bornes from/to (AAAA-MM-JJ) et la page des query
// params. Période ouverte par défaut, borne haute exclusive.
func parsePeriod(c *gin.Context) (time.Time, time.Time, int) {
	from := time.Time{}
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			from = t
		}
	}

	to := time.Now().AddDate(0, 0, 1)
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			to = t.AddDate(0, 0, 1)
		}
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return from, to, page
}

//
// 🟢 POST /api/orders — valide le panier en commande
//
func CreateOrder(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var input struct {
		CartID        string `json:"cart_id" binding:"required"`
		Address       string `json:"address" binding:"required"`
		PaymentMethod string `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	order, err := services.Orders.CreateFromCart(c.Request.Context(), services.OrderConfirmation{
		Username:      username,
		CartID:        input.CartID,
		Address:       input.Address,
		PaymentMethod: input.PaymentMethod,
	})
	switch {
	case errors.Is(err, services.ErrBadCartID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID panier invalide"})
		return
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Printf("❌ Erreur création commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}

	// 📤 Confirmation par e-mail, sans bloquer la réponse.
	go sendOrderConfirmation(*order)

	c.JSON(http.StatusCreated, order)
}

func sendOrderConfirmation(order models.Order) {
	account, err := users.FindByUsername(context.Background(), order.Username)
	if err != nil {
		log.Printf("⚠️ E-mail non envoyé, utilisateur %s introuvable: %v", order.Username, err)
		return
	}

	// QR de virement SEPA pour les commandes non réglées.
	qrBase64 := ""
	if !order.PaymentState {
		qrBase64, err = utils.GenerateSepaQR(
			os.Getenv("SHOP_IBAN"), os.Getenv("SHOP_BIC"), os.Getenv("SHOP_NAME"),
			order.ID.String(), order.TotalPrice)
		if err != nil {
			log.Printf("⚠️ QR SEPA non généré pour %s: %v", order.ID, err)
		}
	}

	html := utils.GenerateOrderConfirmationHTML(order, qrBase64)
	if err := utils.SendOrderEmail(account.Email, "Confirmation de votre commande", html, nil); err != nil {
		log.Printf("⚠️ Échec envoi e-mail de confirmation pour %s: %v", order.ID, err)
	}
}

//
// GET /api/orders — les commandes de l'utilisateur connecté
//
func GetMyOrders(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	from, to, page := parsePeriod(c)
	orders, err := services.Orders.FindOrdersByOwner(c.Request.Context(), username, from, to, page)
	if err != nil {
		log.Printf("❌ Erreur lecture commandes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"page":   page,
	})
}

//
// GET /api/orders/:id
//
func GetOrderByID(c *gin.Context) {
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
	// L'absence est un résultat vide, pas une faute.
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	// ✅ Sécurité : la commande doit appartenir à l'utilisateur connecté.
	if order.Username != username && c.GetString("role") != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Commande non autorisée"})
		return
	}

	c.JSON(http.StatusOK, order)
}
