package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"my_market_back_end/internal/database"
)

// UploadProductImage pousse une image produit dans MinIO et retourne son URL.
// L'objet est préfixé par l'identifiant du produit pour éviter les collisions
// de noms de fichiers.
func UploadProductImage(ctx context.Context, productID uuid.UUID, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := path.Join("products", productID.String(), file.Filename)

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s/%s/%s", os.Getenv("MINIO_ENDPOINT"), bucket, objectName), nil
}

// GenerateSignedURL génère une URL de lecture signée avec expiration pour un
// objet du bucket images.
func GenerateSignedURL(ctx context.Context, objectName string, duration time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, os.Getenv("MINIO_BUCKET"),
		objectName, duration, make(url.Values))
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}
