// Package admin regroupe les endpoints réservés aux administrateurs :
// supervision des commandes et statistiques de vente.
package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"my_market_back_end/internal/database"
	"my_market_back_end/internal/models"
	"my_market_back_end/internal/services"
	"my_market_back_end/internal/store"
)

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
// GET /api/admin/orders — toutes les commandes, filtrables par état
//
func GetAllOrders(c *gin.Context) {
	from, to, page := parsePeriod(c)
	state := c.Query("state")

	orders, err := services.Orders.FindAllOrders(c.Request.Context(), from, to, page, state)
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
// PUT /api/admin/orders/:id — avance une commande dans son cycle de vie
//
func UpdateOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var input struct {
		Address string `json:"address" binding:"required"`
		State   string `json:"state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	order, err := services.Orders.UpdateOrder(c.Request.Context(), orderID, input.Address, input.State)
	switch {
	case errors.Is(err, models.ErrUnknownState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "État de commande inconnu: " + input.State})
		return
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	case errors.Is(err, services.ErrRestockOverflow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité de réapprovisionnement hors limites"})
		return
	case err != nil:
		log.Printf("❌ Erreur mise à jour commande %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande"})
		return
	}

	publishOrderEvent(c, order)

	c.JSON(http.StatusOK, order)
}

// publishOrderEvent notifie le suivi temps réel du propriétaire.
func publishOrderEvent(c *gin.Context, order *models.Order) {
	event, err := json.Marshal(gin.H{
		"type":          "order_updated",
		"order_id":      order.ID,
		"state":         order.State,
		"payment_state": order.PaymentState,
	})
	if err != nil {
		return
	}
	database.Redis.Publish(c.Request.Context(), "orders:"+order.Username, event)
}

//
// GET /api/admin/statistics/products — ventes agrégées par produit
//
func GetProductStatistic(c *gin.Context) {
	from, to, _ := parsePeriod(c)

	stats, err := services.Orders.GetProductStatistic(c.Request.Context(), from, to)
	if err != nil {
		log.Printf("❌ Erreur statistiques produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur calcul statistiques"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"statistics":   stats,
		"generated_at": time.Now(),
	})
}

//
// GET /api/admin/statistics/:name — agrégats journaliers ("orders", "revenue")
//
func GetStatistic(c *gin.Context) {
	from, to, _ := parsePeriod(c)
	name := c.Param("name")

	stats, err := services.Orders.GetStatistic(c.Request.Context(), name, from, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statistique inconnue: " + name})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":         name,
		"statistics":   stats,
		"generated_at": time.Now(),
	})
}
