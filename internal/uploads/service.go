package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
	"github.com/angelmondragon/vendorhub-backend/pkg/logger"
)

// Kind names the vendor file slot an upload fills.
type Kind string

const (
	KindLogo          Kind = "logo"
	KindGSTDocument   Kind = "gst_document"
	KindOtherDocument Kind = "other_document"
)

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

// File is one uploaded part as received from the HTTP layer.
type File struct {
	Field    string
	Filename string
	Size     int64
	Body     io.Reader
}

// ObjectStore persists opaque objects by key.
type ObjectStore interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader) error
	Delete(ctx context.Context, object string) error
}

// Service stores vendor files and hands back the stable object reference.
type Service interface {
	Store(ctx context.Context, vendorID uuid.UUID, kind Kind, file File) (string, error)
	Remove(ctx context.Context, refs ...string)
}

type service struct {
	store    ObjectStore
	maxBytes int64
	logg     *logger.Logger
}

// NewService builds an upload service over the provided object store.
func NewService(store ObjectStore, maxBytes int64, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{store: store, maxBytes: maxBytes, logg: logg}, nil
}

func (s *service) Store(ctx context.Context, vendorID uuid.UUID, kind Kind, file File) (string, error) {
	field := file.Field
	if field == "" {
		field = string(kind)
	}
	if _, ok := allowedTypes[kind]; !ok {
		return "", pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unknown upload kind %q", kind))
	}
	if file.Body == nil {
		return "", pkgerrors.Field(field, "file is required")
	}
	if file.Size > s.maxBytes {
		return "", pkgerrors.Field(field, fmt.Sprintf("file exceeds the %d MB limit", s.maxBytes>>20))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	head = head[:n]
	if n == 0 {
		return "", pkgerrors.Field(field, "file is empty")
	}

	detected := mimetype.Detect(head)
	if !isAllowed(kind, detected.String()) {
		return "", pkgerrors.Field(field, fmt.Sprintf("unsupported file type %s, allowed: %s", detected.String(), kindDescriptions[kind]))
	}

	object := objectKey(vendorID, kind, detected.Extension())
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), file.Body), s.maxBytes+1)
	counted := &countingReader{r: body}
	if err := s.store.Upload(ctx, object, detected.String(), counted); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store upload")
	}
	if counted.n > s.maxBytes {
		s.Remove(ctx, object)
		return "", pkgerrors.Field(field, fmt.Sprintf("file exceeds the %d MB limit", s.maxBytes>>20))
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"vendor_id":    vendorID.String(),
			"upload_kind":  string(kind),
			"object":       object,
			"content_type": detected.String(),
		})
		s.logg.Info(logCtx, "vendor file stored")
	}
	return object, nil
}

// Remove deletes previously stored objects. Failures are logged and ignored.
func (s *service) Remove(ctx context.Context, refs ...string) {
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		if err := s.store.Delete(ctx, ref); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "object", ref), "remove upload failed: "+err.Error())
		}
	}
}

func objectKey(vendorID uuid.UUID, kind Kind, ext string) string {
	return path.Join("vendors", vendorID.String(), fmt.Sprintf("%s-%s%s", kind, uuid.NewString(), ext))
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
