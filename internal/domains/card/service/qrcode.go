package service

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// QRCode encode link thành PNG và data URL để nhúng vào trang
func QRCode(link string) (png []byte, dataURL string, err error) {
	png, err = qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		return nil, "", fmt.Errorf("encode qr: %w", err)
	}
	return png, "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
