package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/agropack/artworkflow/backend/config"
)

// Metadata fields carried on every library object. DocID links a file to its
// owning artwork record and is stamped immediately after upload.
const (
	metaDocID  = "Docid"
	metaStatus = "Status"
	metaRemark = "Remark"
)

// ArtworkLibrary is the MinIO-backed document library. Folders are object key
// prefixes; file metadata lives in user metadata on the object.
type ArtworkLibrary struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
	upload config.UploadConfig
	sleep  sleeper
}

// NewArtworkLibrary creates the library over a MinIO endpoint.
func NewArtworkLibrary(cfg *config.MinioConfig, upload config.UploadConfig) (*ArtworkLibrary, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &ArtworkLibrary{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
		upload: upload,
		sleep:  defaultSleeper,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (l *ArtworkLibrary) EnsureBucket(ctx context.Context) error {
	exists, err := l.client.BucketExists(ctx, l.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = l.client.MakeBucket(ctx, l.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// progressReader reports fractional read progress for long uploads.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.progress != nil && p.total > 0 {
		f := float64(p.read) / float64(p.total)
		if f > 1 {
			f = 1
		}
		p.progress(f)
	}
	return n, err
}

// UploadFile stores the file under folder/name as a chunked upload, retrying
// on throttling. The reader must be seekable for a retry to rewind; committed
// chunks of an abandoned upload are not rolled back.
func (l *ArtworkLibrary) UploadFile(ctx context.Context, folder, name string, r io.Reader, size int64, contentType string, progress ProgressFunc) (FileInfo, error) {
	objectName := folder + "/" + name
	partSize := uint64(l.upload.ChunkSizeMiB) * 1024 * 1024

	var info minio.UploadInfo
	attempt := 0
	err := retryWithBackoff(ctx, "upload "+objectName, l.upload.MaxRetries, l.upload.RetryBase(), l.sleep, func() error {
		if attempt > 0 {
			seeker, ok := r.(io.Seeker)
			if !ok {
				return fmt.Errorf("cannot retry upload of %s: reader not seekable", name)
			}
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return fmt.Errorf("failed to rewind upload: %w", err)
			}
		}
		attempt++
		reader := &progressReader{r: r, total: size, progress: progress}
		var err error
		info, err = l.client.PutObject(ctx, l.bucket, objectName, reader, size, minio.PutObjectOptions{
			ContentType: contentType,
			PartSize:    partSize,
		})
		return err
	})
	if err != nil {
		return FileInfo{}, err
	}

	return FileInfo{
		Name:     name,
		URL:      l.publicURL(objectName),
		UniqueID: strings.Trim(info.ETag, `"`),
	}, nil
}

// UpdateFileItem merges fields into the object's user metadata. Implemented as
// a self-copy with replaced metadata, which makes re-applying the same fields
// idempotent.
func (l *ArtworkLibrary) UpdateFileItem(ctx context.Context, folder, name string, fields map[string]string) error {
	objectName := folder + "/" + name

	return retryWithBackoff(ctx, "update "+objectName, l.upload.MaxRetries, l.upload.RetryBase(), l.sleep, func() error {
		stat, err := l.client.StatObject(ctx, l.bucket, objectName, minio.StatObjectOptions{})
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", objectName, err)
		}

		meta := make(map[string]string, len(stat.UserMetadata)+len(fields))
		for k, v := range stat.UserMetadata {
			meta[k] = v
		}
		for k, v := range fields {
			meta[k] = v
		}

		_, err = l.client.CopyObject(ctx,
			minio.CopyDestOptions{
				Bucket:          l.bucket,
				Object:          objectName,
				UserMetadata:    meta,
				ReplaceMetadata: true,
			},
			minio.CopySrcOptions{
				Bucket: l.bucket,
				Object: objectName,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to update metadata on %s: %w", objectName, err)
		}
		return nil
	})
}

// ListFiles returns the folder's files, optionally filtered to one DocID.
func (l *ArtworkLibrary) ListFiles(ctx context.Context, folder, docID string) ([]FileInfo, error) {
	prefix := folder + "/"
	var out []FileInfo

	for obj := range l.client.ListObjects(ctx, l.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", folder, obj.Err)
		}
		stat, err := l.client.StatObject(ctx, l.bucket, obj.Key, minio.StatObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", obj.Key, err)
		}
		if docID != "" && stat.UserMetadata[metaDocID] != docID {
			continue
		}
		out = append(out, FileInfo{
			Name:     strings.TrimPrefix(obj.Key, prefix),
			URL:      l.publicURL(obj.Key),
			UniqueID: strings.Trim(stat.ETag, `"`),
			DocID:    stat.UserMetadata[metaDocID],
			Status:   stat.UserMetadata[metaStatus],
			Remark:   stat.UserMetadata[metaRemark],
		})
	}
	return out, nil
}

// PresignedURL generates a presigned download URL with the configured expiry.
func (l *ArtworkLibrary) PresignedURL(ctx context.Context, folder, name string) (string, error) {
	expiry := time.Duration(l.config.ExpireDays) * 24 * time.Hour
	url, err := l.client.PresignedGetObject(ctx, l.bucket, folder+"/"+name, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.String(), nil
}

// publicURL returns a direct URL for the object (if bucket policy allows).
func (l *ArtworkLibrary) publicURL(objectName string) string {
	protocol := "http"
	if l.config.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, l.config.Endpoint, l.bucket, objectName)
}
