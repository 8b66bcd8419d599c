package assets

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
)

// ErrNoImages is returned when a key's directory holds no recognized images.
const ErrNoImages = errors.Sentinel("assets: no images for key")

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// IsImage reports whether the file name has a recognized image extension.
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// RandomImage picks a random image file from the key's subdirectory of the
// asset directory.
func RandomImage(dir, key string) (string, error) {
	entries, err := os.ReadDir(filepath.Join(dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoImages
		}
		return "", errors.Wrap(err, "reading asset directory")
	}

	var images []string
	for _, e := range entries {
		if !e.IsDir() && IsImage(e.Name()) {
			images = append(images, e.Name())
		}
	}
	if len(images) == 0 {
		return "", ErrNoImages
	}

	return filepath.Join(dir, key, images[rand.Intn(len(images))]), nil
}
