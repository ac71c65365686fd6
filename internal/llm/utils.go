package llm

import (
	"encoding/base64"
	"mime"
	"os"
	"path/filepath"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
)

// ReadAsDataURL base64-encodes the file at path into a data: URL and
// returns it with the detected MIME type. Unknown types are sent as JPEG.
func ReadAsDataURL(path string) (string, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	ext := constants.NormalizeExt(filepath.Ext(path))
	mt := mime.TypeByExtension("." + ext)
	if mt == "" {
		switch ext {
		case "png":
			mt = "image/png"
		case "gif":
			mt = "image/gif"
		case "webp":
			mt = "image/webp"
		default:
			mt = "image/jpeg"
		}
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(b), mt, nil
}
