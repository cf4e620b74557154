package koradoc

import (
	"bytes"
	"fmt"
	"image"

	// embedded document images are most often BMP or TIFF payloads, which
	// the stdlib decoders do not cover
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/koradoc/koradoc/model"
)

// ImageProvider supplies externally extracted embedded images for a
// document. The core never decodes container-embedded binaries itself; a
// provider (an external tool or a caller-side extractor) hands them over
// and they are merged into the element list.
type ImageProvider interface {
	Images(sourcePath string, format model.Format) ([]model.ImageItem, error)
}

// mergeImages appends provider-supplied images to the extraction as
// image-typed elements, filling in pixel dimensions and format from the
// image bytes when the provider left them unset.
func mergeImages(out *model.ExtractedDocument, ids *idGen, opts ExtractOptions, doc *model.Document) []Warning {
	if opts.images == nil {
		return nil
	}

	items, err := opts.images.Images(doc.SourcePath, doc.Format)
	if err != nil {
		return []Warning{{Stage: "assemble", Message: fmt.Sprintf("image provider: %v", err)}}
	}

	var warnings []Warning
	for i := range items {
		item := items[i]
		if item.PixelWidth == 0 || item.PixelHeight == 0 || item.Format == "" {
			if f, w, h, ok := sniffImage(item.Data); ok {
				if item.Format == "" {
					item.Format = f
				}
				if item.PixelWidth == 0 {
					item.PixelWidth, item.PixelHeight = w, h
				}
			} else if len(item.Data) > 0 {
				warnings = append(warnings, Warning{
					Stage:   "assemble",
					Message: fmt.Sprintf("image %s: undecodable pixel data", item.Filename),
				})
			}
		}
		if item.ID == "" {
			item.ID = ids.element()
		}

		out.Images = append(out.Images, &item)
		out.Elements = append(out.Elements, &model.DocumentElement{
			ID:   item.ID,
			Type: model.ElementImage,
			Text: item.Filename,
			BBox: item.BBox,
			Page: item.Page,
			Metadata: map[string]string{
				"format": item.Format,
				"pixels": fmt.Sprintf("%dx%d", item.PixelWidth, item.PixelHeight),
			},
		})
	}
	return warnings
}

// sniffImage reads just the image header to learn format and dimensions.
func sniffImage(data []byte) (format string, w, h int, ok bool) {
	if len(data) == 0 {
		return "", 0, 0, false
	}
	cfg, f, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, false
	}
	return f, cfg.Width, cfg.Height, true
}
