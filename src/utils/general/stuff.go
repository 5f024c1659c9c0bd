package general

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
)

const GCSScheme = "gs://"

func GetCurrentFilepath() string {
	_, filename, _, _ := runtime.Caller(1)
	return filepath.Dir(filename)
}

func GetCurrentDir() string {
	return filepath.Dir(GetCurrentFilepath())
}

// IsValidURL checks if a string is a valid URL with allowed schemes
func IsValidURL(rawURL string) (bool, string) {

	// Trim spaces
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return false, "URL is empty"
	}

	// Parse the URL
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Sprintf("Invalid URL format: %v", err)
	}

	// Check scheme
	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme == "" {
		return false, "URL scheme is missing"
	}

	// Check host
	if parsedURL.Host == "" {
		return false, "URL host is missing"
	}

	return true, ""
}

// IsGCSURI reports whether uri names a Cloud Storage object.
func IsGCSURI(uri string) bool {
	return strings.HasPrefix(uri, GCSScheme)
}

// SplitGCSURI splits gs://bucket/path/to/object into bucket and object path.
func SplitGCSURI(uri string) (string, string, error) {
	if !IsGCSURI(uri) {
		return "", "", fmt.Errorf("not a gs:// uri: %s", uri)
	}
	bucket, object, found := strings.Cut(strings.TrimPrefix(uri, GCSScheme), "/")
	if !found || bucket == "" || object == "" {
		return "", "", fmt.Errorf("gs:// uri needs a bucket and an object: %s", uri)
	}
	return bucket, object, nil
}

func JoinGCSURI(bucket, objectPath string) string {
	return GCSScheme + bucket + "/" + strings.TrimPrefix(objectPath, "/")
}

// CopyURLToBucket streams an http(s) download into a bucket object.
func CopyURLToBucket(ctx context.Context, url, bucketName, objectPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: status %s", url, resp.Status)
	}

	return copyToBucket(ctx, resp.Body, bucketName, objectPath)
}

// CopyFileToBucket uploads a local file into a bucket object.
func CopyFileToBucket(ctx context.Context, localPath, bucketName, objectPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return copyToBucket(ctx, file, bucketName, objectPath)
}

func copyToBucket(ctx context.Context, src io.Reader, bucketName, objectPath string) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	writer := client.Bucket(bucketName).Object(objectPath).NewWriter(ctx)

	if _, err := io.Copy(writer, src); err != nil {
		writer.Close()
		return err
	}

	return writer.Close()
}

func ItemInSlice[T comparable](slice []T, item T) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func NoDuplicateItemsInSlice[T comparable](slice []T) bool {
	seen := make(map[T]bool)
	for _, item := range slice {
		if seen[item] {
			return false
		}
		seen[item] = true
	}
	return true
}

// GetSystemUsage snapshots runtime counters for the end-of-run log line.
func GetSystemUsage() map[string]string {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return map[string]string{
		"num_cpu":           strconv.Itoa(runtime.NumCPU()),
		"num_goroutine":     strconv.Itoa(runtime.NumGoroutine()),
		"memory_alloc":      strconv.FormatUint(mem.Alloc, 10),
		"memory_total":      strconv.FormatUint(mem.TotalAlloc, 10),
		"memory_heap_inuse": strconv.FormatUint(mem.HeapInuse, 10),
		"gc_cycles":         strconv.FormatUint(uint64(mem.NumGC), 10),
	}
}
