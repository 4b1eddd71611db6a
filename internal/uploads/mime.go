package uploads

import (
	"sort"
	"strings"
)

type mimeGroup string

const (
	mimeGroupImages mimeGroup = "images"
	mimeGroupPDFs   mimeGroup = "PDFs"
)

var mimeGroupTypes = map[mimeGroup][]string{
	mimeGroupImages: {"image/png", "image/jpeg", "image/webp", "image/gif"},
	mimeGroupPDFs:   {"application/pdf"},
}

var documentImageTypes = []string{"image/jpeg", "image/png"}

// allowedTypes lists the sniffed content types accepted per upload kind.
var allowedTypes = map[Kind][]string{
	KindLogo:          mimeGroupTypes[mimeGroupImages],
	KindGSTDocument:   append(append([]string{}, mimeGroupTypes[mimeGroupPDFs]...), documentImageTypes...),
	KindOtherDocument: append(append([]string{}, mimeGroupTypes[mimeGroupPDFs]...), documentImageTypes...),
}

var kindDescriptions = map[Kind]string{
	KindLogo:          "images",
	KindGSTDocument:   "PDF, JPEG, or PNG files",
	KindOtherDocument: "PDF, JPEG, or PNG files",
}

func isAllowed(kind Kind, contentType string) bool {
	base := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	for _, candidate := range allowedTypes[kind] {
		if candidate == base {
			return true
		}
	}
	return false
}

// AllowedTypes returns the sorted content types accepted for kind.
func AllowedTypes(kind Kind) []string {
	out := append([]string{}, allowedTypes[kind]...)
	sort.Strings(out)
	return out
}
