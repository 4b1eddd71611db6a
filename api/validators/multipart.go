package validators

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/angelmondragon/vendorhub-backend/internal/uploads"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
)

// multipartMemory is how much of a form is buffered in memory before parts spill to disk.
const multipartMemory = 8 << 20

// MultipartForm wraps a parsed multipart request. Close releases opened parts and temp files.
type MultipartForm struct {
	form   *multipart.Form
	opened []multipart.File
}

// IsMultipart reports whether the request carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// ParseMultipart reads the whole form, rejecting bodies larger than maxBytes.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) (*MultipartForm, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "request body too large").
				WithDetails(map[string]any{"limitBytes": tooLarge.Limit})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	return &MultipartForm{form: r.MultipartForm}, nil
}

// Bind copies form values into dest using its json tags, then runs the struct validators.
// Embedded structs are flattened. Unknown form keys are ignored.
func (f *MultipartForm) Bind(dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return pkgerrors.New(pkgerrors.CodeInternal, "bind target must be a struct pointer")
	}
	if err := f.bindStruct(rv.Elem()); err != nil {
		return err
	}
	return ValidateStruct(dest)
}

func (f *MultipartForm) bindStruct(rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		fv := rv.Field(i)
		if sf.Anonymous && fv.Kind() == reflect.Struct {
			if err := f.bindStruct(fv); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		values, ok := f.form.Value[name]
		if !ok || len(values) == 0 {
			continue
		}
		if err := setField(fv, name, values[0]); err != nil {
			return err
		}
	}
	return nil
}

func setField(fv reflect.Value, name, raw string) error {
	if fv.Kind() == reflect.Pointer {
		target := reflect.New(fv.Type().Elem())
		if err := setField(target.Elem(), name, raw); err != nil {
			return err
		}
		fv.Set(target)
		return nil
	}
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return pkgerrors.Field(name, "must be a number")
		}
		fv.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return pkgerrors.Field(name, "must be true or false")
		}
		fv.SetBool(b)
	}
	return nil
}

// File opens the first part uploaded under field. A missing part returns nil without error.
func (f *MultipartForm) File(field string) (*uploads.File, error) {
	headers := f.form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	file, err := f.open(field, headers[0])
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// Files opens every part uploaded under any of the given field names, in order.
func (f *MultipartForm) Files(fields ...string) ([]uploads.File, error) {
	var out []uploads.File
	for _, field := range fields {
		for _, header := range f.form.File[field] {
			file, err := f.open(field, header)
			if err != nil {
				return nil, err
			}
			out = append(out, file)
		}
	}
	return out, nil
}

func (f *MultipartForm) open(field string, header *multipart.FileHeader) (uploads.File, error) {
	body, err := header.Open()
	if err != nil {
		return uploads.File{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable upload").
			WithDetails(map[string]string{strings.TrimSuffix(field, "[]"): "file could not be read"})
	}
	f.opened = append(f.opened, body)
	return uploads.File{
		Field:    strings.TrimSuffix(field, "[]"),
		Filename: header.Filename,
		Size:     header.Size,
		Body:     body,
	}, nil
}

func (f *MultipartForm) Close() error {
	var errs []error
	for _, file := range f.opened {
		errs = append(errs, file.Close())
	}
	f.opened = nil
	if f.form != nil {
		errs = append(errs, f.form.RemoveAll())
	}
	return errors.Join(errs...)
}
