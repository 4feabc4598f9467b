// Package product expose le catalogue : consultation publique, recherche
// Elasticsearch et administration des fiches produit.
package product

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"my_market_back_end/internal/cache"
	"my_market_back_end/internal/models"
	"my_market_back_end/internal/services"
	"my_market_back_end/internal/store/scylla"
)

var products = scylla.NewProductStore()

//
// GET /api/products
//
func ListProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 100
	}

	list, err := products.List(c.Request.Context(), limit)
	if err != nil {
		log.Printf("❌ Erreur lecture produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produits"})
		return
	}
	c.JSON(http.StatusOK, list)
}

//
// GET /api/products/:id — passe par le cache Redis
//
func GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	p, err := cache.GetProductFromCache(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	c.JSON(http.StatusOK, p)
}

//
// GET /api/products/search?q=...
//
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q manquant"})
		return
	}

	results, err := services.SearchProducts(c.Request.Context(), query)
	if err != nil {
		log.Printf("❌ Erreur recherche Elastic: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la recherche"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

//
// 🟢 POST /api/admin/products
//
func CreateProduct(c *gin.Context) {
	var input struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Price       float64  `json:"price" binding:"required"`
		Stock       int      `json:"stock"`
		Tags        []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	now := time.Now()
	p := models.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURLs:   []string{},
		Tags:        input.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := products.Save(c.Request.Context(), &p); err != nil {
		log.Printf("❌ Erreur création produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	// Indexation asynchrone, non bloquante pour la réponse.
	go services.IndexProduct(p)
	cache.InvalidateProductCache(c.Request.Context(), p.ID)

	log.Printf("✅ Produit %s créé (%s)", p.Name, p.ID)
	c.JSON(http.StatusCreated, p)
}

//
// PUT /api/admin/products/:id
//
func UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	p, err := products.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	var input struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Price       *float64  `json:"price"`
		Stock       *int      `json:"stock"`
		Tags        *[]string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.Stock != nil {
		p.Stock = *input.Stock
	}
	if input.Tags != nil {
		p.Tags = *input.Tags
	}
	p.UpdatedAt = time.Now()

	if err := products.Save(c.Request.Context(), p); err != nil {
		log.Printf("❌ Erreur mise à jour produit %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	go services.IndexProduct(*p)
	cache.InvalidateProductCache(c.Request.Context(), p.ID)

	c.JSON(http.StatusOK, p)
}
