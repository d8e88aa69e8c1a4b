package service

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"go-catalog-import/internal/model"
	"go-catalog-import/internal/repository"

	"github.com/google/uuid"
)

const downloadTimeout = 30 * time.Second

// AssetService downloads product images to a temp directory, records them as
// assets, and attaches them to a product. Products that already carry a
// featured asset are left untouched so re-runs do not pile up duplicates.
type AssetService interface {
	AttachFromURLs(productID uuid.UUID, urls string, tags []string) (int, error)
}

type assetService struct {
	catalogRepo repository.CatalogRepository
	assetRepo   repository.AssetRepository
	client      *http.Client
	tempDir     string
}

func NewAssetService(catalogRepo repository.CatalogRepository, assetRepo repository.AssetRepository, tempDir string) AssetService {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &assetService{
		catalogRepo: catalogRepo,
		assetRepo:   assetRepo,
		client:      &http.Client{Timeout: downloadTimeout},
		tempDir:     tempDir,
	}
}

func (s *assetService) AttachFromURLs(productID uuid.UUID, urls string, tags []string) (int, error) {
	product, err := s.catalogRepo.FindProductWithVariants(productID)
	if err != nil {
		return 0, err
	}
	if product.FeaturedAssetID != nil {
		log.Printf("assets: product %s already has a featured asset, skipping", productID)
		return 0, nil
	}

	var assetIDs []uuid.UUID
	for _, rawURL := range splitURLs(urls) {
		localPath, err := s.downloadToTemp(rawURL)
		if err != nil {
			log.Printf("assets: failed to download %s: %v", rawURL, err)
			continue
		}
		asset := &model.Asset{
			Name:     fileNameFromURL(rawURL),
			Source:   rawURL,
			Path:     localPath,
			MimeType: mimeTypeFor(rawURL),
			Tags:     strings.Join(tags, ","),
		}
		asset.CreatedBy = "import"
		asset.UpdatedBy = "import"
		if err := s.assetRepo.Create(asset); err != nil {
			log.Printf("assets: failed to record asset for %s: %v", rawURL, err)
			continue
		}
		assetIDs = append(assetIDs, asset.ID)
	}

	if len(assetIDs) == 0 {
		return 0, nil
	}
	// First successful download becomes the featured asset
	if err := s.catalogRepo.UpdateProductAssets(productID, assetIDs, assetIDs[0]); err != nil {
		return 0, err
	}
	return len(assetIDs), nil
}

func (s *assetService) downloadToTemp(rawURL string) (string, error) {
	resp, err := s.client.Get(rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	file, err := os.CreateTemp(s.tempDir, "catalog-asset-*")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

// splitURLs parses the pipe-delimited asset URL list from the CSV
func splitURLs(raw string) []string {
	parts := strings.Split(raw, "|")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

func fileNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return rawURL
	}
	return path.Base(parsed.Path)
}

func mimeTypeFor(rawURL string) string {
	if strings.HasSuffix(strings.ToLower(fileNameFromURL(rawURL)), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
