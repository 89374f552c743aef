package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

type ImageProcessor struct {
	MaxSize   int64 // bytes (default: 5MB)
	PhotoSize int   // cạnh của ảnh vuông sau khi crop
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{
		MaxSize:   5 * 1024 * 1024, // 5MB
		PhotoSize: 512,
	}
}

// ValidateImage check JPEG/PNG, trả err nếu file > max size
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("image is empty")
	}
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("image exceeds %dMB", p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// ProcessPhoto crop giữa ảnh thành hình vuông, resize và encode JPEG chất lượng 90
func (p *ImageProcessor) ProcessPhoto(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	square := imaging.Fill(img, p.PhotoSize, p.PhotoSize, imaging.Center, imaging.Lanczos)

	b := new(bytes.Buffer)
	if err := jpeg.Encode(b, square, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("cannot encode photo: %w", err)
	}
	return b.Bytes(), nil
}
