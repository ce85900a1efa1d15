package qrlink

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// MainQRName is the stored filename for the restaurant-wide QR code that
// points customers at the order-type chooser.
const MainQRName = "main_qr.png"

// TableLink builds the customer-facing menu URL for one table.
func TableLink(publicURL string, tableID int64) string {
	return fmt.Sprintf("%s/menu/%d", publicURL, tableID)
}

// Generate renders a QR PNG for the given link with high error correction,
// leaving room for a logo overlay applied outside this package.
func Generate(link string, size int) ([]byte, error) {
	return qrcode.Encode(link, qrcode.High, size)
}

// WriteFile renders a QR PNG for the link into dir under name and returns the
// full path. The directory is created when missing.
func WriteFile(dir, name, link string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := qrcode.WriteFile(link, qrcode.High, 512, path); err != nil {
		return "", err
	}
	return path, nil
}
