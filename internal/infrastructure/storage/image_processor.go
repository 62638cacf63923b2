package storage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	ErrImageTooLarge   = errors.New("image too large")
	ErrImageFormat     = errors.New("image format not allowed")
	ErrImageNotDecoded = errors.New("not a valid image")
)

// Variant sizes (cạnh dài nhất, px)
var variantSizes = map[string]int{"large": 1200, "medium": 600, "thumbnail": 300}

type ImageProcessor struct {
	MaxSize int64 // bytes (default: 5MB)
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: 5 * 1024 * 1024}
}

// DecodeBase64 nhận "data:image/png;base64,...." hoặc base64 trần,
// trả về bytes đã validate và format (jpeg/png)
func (p *ImageProcessor) DecodeBase64(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, "", fmt.Errorf("%w: malformed data uri", ErrImageNotDecoded)
		}
		payload = payload[comma+1:]
	}

	// Kiểm tra kích thước trước khi decode để không cấp phát buffer lớn
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > p.MaxSize+2 {
		return nil, "", fmt.Errorf("%w: exceeds %dMB", ErrImageTooLarge, p.MaxSize/(1024*1024))
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageNotDecoded, err)
	}

	format, err := p.ValidateImage(data)
	if err != nil {
		return nil, "", err
	}
	return data, format, nil
}

// ValidateImage: chỉ JPEG/PNG, <= MaxSize
func (p *ImageProcessor) ValidateImage(data []byte) (string, error) {
	if int64(len(data)) > p.MaxSize {
		return "", fmt.Errorf("%w: exceeds %dMB", ErrImageTooLarge, p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageNotDecoded, err)
	}
	switch format {
	case "jpeg", "png":
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s (only jpeg/png)", ErrImageFormat, format)
	}
}

// VariantNames trả về tên các variant theo thứ tự ổn định
func VariantNames() []string {
	names := make([]string, 0, len(variantSizes))
	for name := range variantSizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProcessImage trả về map[variant][]byte: resize → encode JPEG chất lượng 90
func (p *ImageProcessor) ProcessImage(data []byte) (map[string][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	variants := make(map[string][]byte, len(variantSizes))
	for name, size := range variantSizes {
		resized := imaging.Fit(img, size, size, imaging.Lanczos)
		b := new(bytes.Buffer)
		if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("cannot encode %s: %w", name, err)
		}
		variants[name] = b.Bytes()
	}
	return variants, nil
}
