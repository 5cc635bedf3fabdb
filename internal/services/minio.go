package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"velora_back_end/internal/database"
)

func bucketName() string {
	if b := os.Getenv("MINIO_BUCKET"); b != "" {
		return b
	}
	return "velora-images"
}

// UploadFile envoie une image dans MinIO et retourne son URL publique
func UploadFile(file *multipart.FileHeader) (string, error) {
	if database.MinioClient == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Nom unique pour éviter les collisions
	objectName := uuid.New().String() + "-" + file.Filename

	_, err = database.MinioClient.PutObject(context.Background(), bucketName(), objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	publicURL := fmt.Sprintf("http://%s/%s/%s", os.Getenv("MINIO_ENDPOINT"), bucketName(), objectName)
	return publicURL, nil
}

// DeleteObject supprime un objet MinIO à partir de son URL publique
func DeleteObject(objectURL string) {
	if database.MinioClient == nil || objectURL == "" {
		return
	}

	prefix := fmt.Sprintf("http://%s/%s/", os.Getenv("MINIO_ENDPOINT"), bucketName())
	key := strings.TrimPrefix(objectURL, prefix)
	if key == objectURL {
		// URL externe, rien à supprimer chez nous
		return
	}

	if err := database.MinioClient.RemoveObject(context.Background(), bucketName(), key, minio.RemoveObjectOptions{}); err != nil {
		log.Println("⚠️ Erreur suppression MinIO:", err)
	}
}

// GenerateSignedURL génère une URL signée avec expiration
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	reqParams := make(url.Values)

	// Nettoie l'URL complète pour ne garder que le chemin relatif au bucket
	prefix := fmt.Sprintf("http://%s/%s/", os.Getenv("MINIO_ENDPOINT"), bucketName())
	key := strings.TrimPrefix(objectPath, prefix)

	presignedURL, err := database.MinioClient.PresignedGetObject(
		ctx,
		bucketName(),
		key,
		duration,
		reqParams,
	)
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}
