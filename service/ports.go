package service

import (
	"context"
	"io"
)

// FileInfo is the library's view of one stored document.
type FileInfo struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	UniqueID string `json:"unique_id"`
	DocID    string `json:"doc_id,omitempty"`
	Status   string `json:"status,omitempty"`
	Remark   string `json:"remark,omitempty"`
}

// ProgressFunc receives fractional upload progress in [0,1].
type ProgressFunc func(fraction float64)

// DocumentLibrary is the generic file-store collaborator: folders of files,
// each linked to its owning record by a DocID field stamped after upload.
// The MinIO adapter implements it; tests swap in fakes.
type DocumentLibrary interface {
	UploadFile(ctx context.Context, folder, name string, r io.Reader, size int64, contentType string, progress ProgressFunc) (FileInfo, error)
	UpdateFileItem(ctx context.Context, folder, name string, fields map[string]string) error
	ListFiles(ctx context.Context, folder, docID string) ([]FileInfo, error)
	PresignedURL(ctx context.Context, folder, name string) (string, error)
}
