package product

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"my_market_back_end/internal/cache"
	"my_market_back_end/internal/services"
)

//
// 📤 POST /api/admin/products/:id/images — upload multipart vers MinIO
//
func UploadProductImage(c *gin.Context) {
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

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier image manquant"})
		return
	}

	url, err := services.UploadProductImage(c.Request.Context(), id, file)
	if err != nil {
		log.Printf("🪣 Erreur upload MinIO pour %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	p.ImageURLs = append(p.ImageURLs, url)
	if err := products.Save(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde produit"})
		return
	}

	go services.IndexProduct(*p)
	cache.InvalidateProductCache(c.Request.Context(), p.ID)

	log.Printf("✅ Image ajoutée au produit %s", p.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Image uploadée",
		"url":     url,
	})
}
