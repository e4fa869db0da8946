// Package upload encodes partner files into self-contained document records.
// The whole file is read and base64-encoded into the record body, so no
// companion blob store is needed. That deliberately caps file size: the
// pipeline enforces a configured ceiling (default 8 MiB) instead of failing
// silently on large inputs. Uploads are not chunked and cannot be cancelled
// mid-flight; they either fail or complete.
package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/domain/entity"
	"github.com/bluepond/aqualedger/internal/store"
)

// DefaultMaxSize is the documented whole-file encoding ceiling.
const DefaultMaxSize = 8 << 20

// ErrFileTooLarge is returned when the input exceeds the configured ceiling.
var ErrFileTooLarge = errors.New("file exceeds upload size ceiling")

// Handle is the opaque reference returned for a stored artifact. It is the
// store-issued document key, not a URL, and cannot be dereferenced by any
// other account.
type Handle string

// Pipeline writes partner uploads as document records under a
// partner-and-path-scoped collection.
type Pipeline struct {
	backend store.Backend
	maxSize int64
	logger  *zap.Logger
}

// NewPipeline creates a pipeline. maxSize <= 0 selects DefaultMaxSize.
func NewPipeline(backend store.Backend, maxSize int64, logger *zap.Logger) *Pipeline {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Pipeline{
		backend: backend,
		maxSize: maxSize,
		logger:  logger,
	}
}

// callState tracks one upload from start to finish. Each call owns its own
// instance, so concurrent uploads from different callers never share a flag;
// finish runs via defer on success and failure alike.
type callState struct {
	partnerID string
	fileName  string
	startedAt time.Time
	logger    *zap.Logger
}

func (p *Pipeline) begin(partnerID, fileName string) *callState {
	return &callState{
		partnerID: partnerID,
		fileName:  fileName,
		startedAt: time.Now(),
		logger:    p.logger,
	}
}

func (s *callState) finish(err *error) {
	elapsed := time.Since(s.startedAt)
	if *err != nil {
		s.logger.Warn("Upload failed",
			zap.String("partner_id", s.partnerID),
			zap.String("file", s.fileName),
			zap.Duration("elapsed", elapsed),
			zap.Error(*err))
		return
	}
	s.logger.Info("Upload complete",
		zap.String("partner_id", s.partnerID),
		zap.String("file", s.fileName),
		zap.Duration("elapsed", elapsed))
}

// Upload reads r fully, encodes it into an UploadRecord and appends it under
// the partner's scope. The returned handle is meaningful only to this store.
// A 0-byte file is a valid upload with size 0, not an error.
func (p *Pipeline) Upload(ctx context.Context, partnerID, pathHint, fileName string, r io.Reader) (handle Handle, err error) {
	state := p.begin(partnerID, fileName)
	defer state.finish(&err)

	if partnerID == "" {
		return "", store.ErrUnauthenticated
	}

	data, err := io.ReadAll(io.LimitReader(r, p.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: read: %v", store.ErrEncodingFailure, err)
	}
	if int64(len(data)) > p.maxSize {
		return "", fmt.Errorf("%w: limit %d bytes", ErrFileTooLarge, p.maxSize)
	}

	mimeType := mimeTypeOf(fileName)
	rec := &entity.UploadRecord{
		Name:        fileName,
		MimeType:    mimeType,
		Size:        int64(len(data)),
		EncodedData: dataURI(mimeType, data),
		UploadedAt:  time.Now().UTC(),
	}
	if mimeType == "application/pdf" {
		rec.PageCount = pdfPageCount(data, p.logger)
	}

	col := store.NewCollection[entity.UploadRecord](p.backend, uploadPath(partnerID, pathHint))
	if err := col.Create(ctx, rec); err != nil {
		return "", err
	}

	return Handle(rec.ID), nil
}

// uploadPath scopes the artifact to the submitting partner. Path isolation
// is the ownership check; no other account can derive another partner's key.
func uploadPath(partnerID, pathHint string) string {
	hint := strings.Trim(path.Clean("/"+pathHint), "/")
	if hint == "" || hint == "." {
		hint = "files"
	}
	return path.Join("partners", partnerID, "uploads", hint)
}

func mimeTypeOf(fileName string) string {
	if t := mime.TypeByExtension(path.Ext(fileName)); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return "application/octet-stream"
}

func dataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// pdfPageCount records how many pages a PDF upload carries. An unparseable
// PDF records zero pages; the upload itself still succeeds.
func pdfPageCount(data []byte, logger *zap.Logger) int {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		logger.Debug("Could not parse PDF for page count", zap.Error(err))
		return 0
	}
	defer doc.Close()
	return doc.NumPage()
}
