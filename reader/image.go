package reader

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfsegment/core"
	"github.com/tsawler/pdfsegment/model"
	"github.com/tsawler/pdfsegment/ocr"
	"github.com/tsawler/pdfsegment/pages"
	"github.com/tsawler/pdfsegment/text"
)

// PageImage is a decoded image XObject.
type PageImage struct {
	Name             string // XObject name (e.g., "Im1")
	Width            int
	Height           int
	ColorSpace       string // DeviceGray, DeviceRGB, DeviceCMYK, etc.
	BitsPerComponent int
	Data             []byte // Decoded pixel data, or the encoded image for pass-through filters
	Filter           string // Last filter applied, which decides the format of Data
}

// recognize runs OCR over the images painted on a page and turns each
// word into one glyph at the top-left corner of its box.
func (r *Reader) recognize(page *pages.Page, images []text.Image, log logrus.FieldLogger) []text.Glyph {
	box := page.MediaBox()
	var glyphs []text.Glyph
	for _, placed := range images {
		img, err := r.pageImage(placed.Name, placed.Stream)
		if err != nil {
			log.WithError(err).WithField("image", placed.Name).Warn("skipping image for OCR")
			continue
		}
		input, err := img.ocrInput()
		if err != nil {
			log.WithError(err).WithField("image", placed.Name).Warn("skipping image for OCR")
			continue
		}
		words, err := r.recognizer.Recognize(input)
		if err != nil {
			log.WithError(err).WithField("image", placed.Name).Warn("OCR failed")
			continue
		}
		words = ocr.Words(words, r.minConfidence)
		for _, w := range words {
			glyphs = append(glyphs, text.Glyph{
				Text: w.Text + " ",
				X:    placeX(placed.Rect, img.Width, w.Box.Min.X),
				Y:    box.FlipY(placeY(placed.Rect, img.Height, w.Box.Max.Y)),
			})
		}
		log.WithFields(logrus.Fields{"image": placed.Name, "words": len(words)}).Debug("recognised image")
	}
	return glyphs
}

// placeX maps a pixel column to user space, assuming an unrotated image.
func placeX(rect model.Rect, width, px int) float64 {
	if width <= 0 {
		return rect.LLX
	}
	return rect.LLX + float64(px)/float64(width)*rect.Width()
}

// placeY maps a pixel row, counted from the top, to a user space y.
func placeY(rect model.Rect, height, py int) float64 {
	if height <= 0 {
		return rect.URY
	}
	return rect.URY - float64(py)/float64(height)*rect.Height()
}

// ocrInput returns the image encoded for the recognizer. JPEG data is
// passed through; raw samples are re-encoded as PNG.
func (img *PageImage) ocrInput() ([]byte, error) {
	switch img.Filter {
	case "DCTDecode":
		return img.Data, nil
	case "JPXDecode", "JBIG2Decode":
		return nil, fmt.Errorf("unsupported image filter %s", img.Filter)
	}
	return img.ToPNG()
}

// pageImage decodes an image XObject stream.
func (r *Reader) pageImage(name string, stream *core.Stream) (*PageImage, error) {
	dict := stream.Dict

	width, ok := r.intValue(dict.Get("Width"))
	if !ok {
		return nil, fmt.Errorf("image missing Width")
	}
	height, ok := r.intValue(dict.Get("Height"))
	if !ok {
		return nil, fmt.Errorf("image missing Height")
	}

	// bi-level masks and CCITT images default to 1 bit
	bpc := 8
	if v, ok := r.intValue(dict.Get("BitsPerComponent")); ok {
		bpc = v
	} else if mask, _ := dict.Get("ImageMask").(core.Bool); mask {
		bpc = 1
	}

	colorSpace := "DeviceGray"
	if csObj := dict.Get("ColorSpace"); csObj != nil {
		colorSpace = r.parseColorSpace(csObj, 0)
	}

	filter := ""
	if obj, err := r.Resolve(dict.Get("Filter")); err == nil {
		switch f := obj.(type) {
		case core.Name:
			filter = string(f)
		case core.Array:
			if n, ok := f.GetName(len(f) - 1); ok {
				filter = string(n)
			}
		}
	}
	if filter == "CCITTFaxDecode" {
		bpc = 1
	}

	data, err := stream.Decoded()
	if err != nil {
		return nil, fmt.Errorf("failed to decode image stream: %w", err)
	}

	return &PageImage{
		Name:             name,
		Width:            width,
		Height:           height,
		ColorSpace:       colorSpace,
		BitsPerComponent: bpc,
		Data:             data,
		Filter:           filter,
	}, nil
}

func (r *Reader) intValue(obj core.Object) (int, bool) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return 0, false
	}
	v, ok := core.Number(resolved)
	return int(v), ok
}

// parseColorSpace parses a color space object and returns its name.
func (r *Reader) parseColorSpace(obj core.Object, depth int) string {
	resolved, err := r.Resolve(obj)
	if err != nil || depth > 4 {
		return "DeviceGray"
	}

	switch v := resolved.(type) {
	case core.Name:
		return string(v)
	case core.Array:
		name, ok := v.GetName(0)
		if !ok {
			break
		}
		switch {
		case name == "Indexed" && len(v) > 1:
			return r.parseColorSpace(v[1], depth+1)
		case name == "ICCBased" && len(v) > 1:
			// the profile's /N gives the component count
			if s, err := r.Resolve(v[1]); err == nil {
				if stream, ok := s.(*core.Stream); ok {
					switch n, _ := stream.Dict.GetInt("N"); n {
					case 3:
						return "DeviceRGB"
					case 4:
						return "DeviceCMYK"
					}
				}
			}
			return "ICCBased"
		}
		return string(name)
	}
	return "DeviceGray"
}

// ToPNG encodes the samples as an 8-bit grayscale PNG. Colour is reduced
// to luminance, which is all recognition needs.
func (img *PageImage) ToPNG() ([]byte, error) {
	gray, err := img.toGray()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// components returns the number of samples per pixel.
func (img *PageImage) components() int {
	switch img.ColorSpace {
	case "DeviceRGB", "CalRGB", "Lab":
		return 3
	case "DeviceCMYK":
		return 4
	}
	return 1
}

func (img *PageImage) toGray() (*image.Gray, error) {
	bpc, n := img.BitsPerComponent, img.components()
	switch {
	case bpc != 1 && bpc != 2 && bpc != 4 && bpc != 8:
		return nil, fmt.Errorf("unsupported bits per component: %d", bpc)
	case n > 1 && bpc != 8:
		return nil, fmt.Errorf("unsupported bits per component for %s: %d", img.ColorSpace, bpc)
	}

	// rows are padded to whole bytes
	rowBytes := (img.Width*n*bpc + 7) / 8
	if need := rowBytes * img.Height; len(img.Data) < need {
		return nil, fmt.Errorf("insufficient data: got %d, expected %d", len(img.Data), need)
	}

	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	maxVal := 1<<bpc - 1
	for y := 0; y < img.Height; y++ {
		row := img.Data[y*rowBytes : (y+1)*rowBytes]
		for x := 0; x < img.Width; x++ {
			var v uint8
			switch n {
			case 3:
				p := row[x*3:]
				v = color.GrayModel.Convert(color.RGBA{R: p[0], G: p[1], B: p[2], A: 255}).(color.Gray).Y
			case 4:
				p := row[x*4:]
				v = color.GrayModel.Convert(color.CMYK{C: p[0], M: p[1], Y: p[2], K: p[3]}).(color.Gray).Y
			default:
				v = uint8(sample(row, x, bpc) * 255 / maxVal)
			}
			out.Pix[y*out.Stride+x] = v
		}
	}
	return out, nil
}

// sample reads the i-th bpc-bit value of a row, high bits first.
func sample(row []byte, i, bpc int) int {
	if bpc == 8 {
		return int(row[i])
	}
	bit := i * bpc
	shift := 8 - bpc - bit%8
	return int(row[bit/8]>>shift) & (1<<bpc - 1)
}
