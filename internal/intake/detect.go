package intake

import (
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/claimgate/internal/model"
)

// imageExtensions are the raster formats accepted as image claims.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// DetectInputType determines whether a reference is raw claim text, a path
// to an image, or a path to a PDF. A reference that does not resolve to an
// existing file is treated as claim text itself — there is no error path,
// every input classifies to something.
func DetectInputType(reference string) model.InputType {
	if _, err := os.Stat(reference); err != nil {
		return model.InputText
	}

	ext := strings.ToLower(filepath.Ext(reference))

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		if strings.HasPrefix(mimeType, "image/") {
			return model.InputImage
		}
		if mimeType == "application/pdf" {
			return model.InputPDF
		}
	}

	if imageExtensions[ext] {
		return model.InputImage
	}
	if ext == ".pdf" {
		return model.InputPDF
	}

	return model.InputText
}
