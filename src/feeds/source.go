package feeds

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"

	"newscorr/src/utils/errors"
	"newscorr/src/utils/general"
)

// OpenSource opens a local file or a gs://bucket/object for reading. A source
// that does not exist is ErrUpstreamUnavailable.
func OpenSource(ctx context.Context, uri string) (io.ReadCloser, error) {
	if uri == "" {
		return nil, errors.Wrap(errors.ErrUpstreamUnavailable, "empty source")
	}
	if general.IsGCSURI(uri) {
		return openBucketObject(ctx, uri)
	}

	file, err := os.Open(uri)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapef(errors.ErrUpstreamUnavailable, err, "source %s", uri)
		}
		return nil, errors.Wrapf(err, "opening %s", uri)
	}
	return file, nil
}

// JoinSource joins a local directory or a gs:// prefix with a file name.
func JoinSource(base, name string) string {
	if general.IsGCSURI(base) {
		return general.GCSScheme + path.Join(strings.TrimPrefix(base, general.GCSScheme), name)
	}
	return filepath.Join(base, name)
}

type bucketObjectReader struct {
	*storage.Reader
	client *storage.Client
}

func (r *bucketObjectReader) Close() error {
	readerErr := r.Reader.Close()
	clientErr := r.client.Close()
	if readerErr != nil {
		return readerErr
	}
	return clientErr
}

func openBucketObject(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, object, err := general.SplitGCSURI(uri)
	if err != nil {
		return nil, errors.WrapE(errors.ErrInvalidInput, err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrapef(errors.ErrUpstreamUnavailable, err, "storage client for %s", uri)
	}

	reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		client.Close()
		if stderrors.Is(err, storage.ErrObjectNotExist) || stderrors.Is(err, storage.ErrBucketNotExist) {
			return nil, errors.Wrapef(errors.ErrUpstreamUnavailable, err, "source %s", uri)
		}
		return nil, errors.Wrapf(err, "opening %s", uri)
	}

	return &bucketObjectReader{Reader: reader, client: client}, nil
}
