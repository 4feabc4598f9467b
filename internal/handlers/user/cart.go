package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"my_market_back_end/internal/cache"
	"my_market_back_end/internal/database"
	"my_market_back_end/internal/models"
	"my_market_back_end/internal/store"
	"my_market_back_end/internal/store/rediscart"
)

var carts = rediscart.NewCartStore()

func parseCartID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID panier invalide"})
		return uuid.Nil, false
	}
	return id, true
}

//
// 🟢 POST /api/cart
//
func CreateCart(c *gin.Context) {
	cart := models.Cart{ID: uuid.New(), Items: []models.CartItem{}}
	if err := carts.Save(c.Request.Context(), &cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création panier"})
		return
	}
	c.JSON(http.StatusCreated, cart)
}

//
// GET /api/cart/:id
//
func GetCart(c *gin.Context) {
	id, ok := parseCartID(c)
	if !ok {
		return
	}

	cart, err := carts.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Panier introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    cart.ID,
		"items": cart.Items,
		"total": cart.Total(),
	})
}

//
// 🟢 POST /api/cart/:id/items
//
func AddToCart(c *gin.Context) {
	id, ok := parseCartID(c)
	if !ok {
		return
	}

	var input struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	cart, err := carts.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Panier introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	product, err := cache.GetProductFromCache(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	// 🖼️ Première image pour l'aperçu panier
	imageURL := ""
	if len(product.ImageURLs) > 0 {
		imageURL = product.ImageURLs[0]
	}

	// 🔁 Met à jour ou ajoute la ligne
	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += input.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: productID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  input.Quantity,
			ImageURL:  imageURL,
		})
	}

	if err := carts.Save(c.Request.Context(), cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}
	database.Redis.Publish(c.Request.Context(), "cart:"+id.String(), "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit ajouté au panier",
		"items":   cart.Items,
	})
}

//
// ❌ DELETE /api/cart/:id/items/:productId
//
func RemoveFromCart(c *gin.Context) {
	id, ok := parseCartID(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	cart, err := carts.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Panier introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	newItems := []models.CartItem{}
	for _, item := range cart.Items {
		if item.ProductID != productID {
			newItems = append(newItems, item)
		}
	}
	cart.Items = newItems

	if err := carts.Save(c.Request.Context(), cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}
	database.Redis.Publish(c.Request.Context(), "cart:"+id.String(), "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit supprimé du panier",
		"items":   cart.Items,
	})
}

//
// 🧹 DELETE /api/cart/:id
//
func ClearCart(c *gin.Context) {
	id, ok := parseCartID(c)
	if !ok {
		return
	}

	if err := carts.Clear(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé avec succès"})
}
