package main

import (
	"context"
	"log"
	"os"
	"path"
	"path/filepath"

	"newscorr/src/config"
	"newscorr/src/utils/general"
)

// Copies a news or price dataset into the configured bucket, from a URL or a
// local file. The printed gs:// URI can be used as analysis.news_source or
// analysis.data_dir.

func main() {
	if len(os.Args) != 3 || (os.Args[1] != "news" && os.Args[1] != "prices") {
		log.Fatalf("Usage: upload_dataset <news|prices> <url-or-file>")
	}
	kind, source := os.Args[1], os.Args[2]

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	storageConfig := appConfig.StorageConfig
	if storageConfig.Bucket == "" {
		log.Fatalf("storage.bucket is not configured")
	}
	prefix := storageConfig.NewsPrefix
	if kind == "prices" {
		prefix = storageConfig.PricePrefix
	}

	ctx := context.Background()
	if valid, _ := general.IsValidURL(source); valid {
		objectPath := path.Join(prefix, path.Base(source))
		if err := general.CopyURLToBucket(ctx, source, storageConfig.Bucket, objectPath); err != nil {
			log.Fatalf("Failed to copy URL to bucket: %v", err)
		}
		log.Printf("uploaded %s", general.JoinGCSURI(storageConfig.Bucket, objectPath))
		return
	}

	if _, err := os.Stat(source); err != nil {
		log.Fatalf("Source is neither a valid URL nor a readable file: %v", err)
	}
	objectPath := path.Join(prefix, filepath.Base(source))
	if err := general.CopyFileToBucket(ctx, source, storageConfig.Bucket, objectPath); err != nil {
		log.Fatalf("Failed to copy file to bucket: %v", err)
	}
	log.Printf("uploaded %s", general.JoinGCSURI(storageConfig.Bucket, objectPath))
}
