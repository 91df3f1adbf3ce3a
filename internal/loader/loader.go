// Package loader turns an input file into the bytes of a RITE image:
// optional XXTEA decryption followed by gzip or zip unwrapping.
package loader

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"mrbdump/internal/xxtea"
)

// riteIdent starts every plain image.
var riteIdent = []byte("RITE")

// Options selects the decryption applied to the input.
type Options struct {
	Key       string
	Signature string
}

// Image is a loaded input.
type Image struct {
	Path        string
	Digest      string // sha256 of the file as read
	Size        int    // file size as read
	Encrypted   bool
	Compression string // "", "gzip" or "zip"
	Data        []byte // the RITE image
}

// Load reads path and decodes it.
func Load(path string, opts Options) (*Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	img, err := Decode(raw, path, opts)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Decode unwraps raw. name is only used for diagnostics.
func Decode(raw []byte, name string, opts Options) (*Image, error) {
	img := &Image{
		Path:   name,
		Digest: fmt.Sprintf("%x", sha256.Sum256(raw)),
		Size:   len(raw),
		Data:   raw,
	}

	key, sig := []byte(opts.Key), []byte(opts.Signature)
	switch {
	case xxtea.HasSignature(raw, sig):
		if len(key) == 0 {
			return nil, fmt.Errorf("%s: signature %q found but no key given", name, opts.Signature)
		}
		dec, err := xxtea.Open(raw, key, sig)
		if err != nil {
			return nil, fmt.Errorf("%s: decrypt: %w", name, err)
		}
		img.Data, img.Encrypted = dec, true
	case len(key) > 0 && !bytes.HasPrefix(raw, riteIdent):
		dec, err := xxtea.Decrypt(raw, key)
		if err != nil {
			return nil, fmt.Errorf("%s: decrypt: %w", name, err)
		}
		img.Data, img.Encrypted = dec, true
	}
	if img.Encrypted {
		slog.Debug("Decrypted input", "file", name, "original_size", len(raw), "decrypted_size", len(img.Data))
	}

	data, kind, err := Decompress(img.Data, name)
	if err != nil {
		return nil, err
	}
	img.Data, img.Compression = data, kind
	return img, nil
}

// Decompress unwraps gzip data or the first file of a zip archive. Other
// data is returned as is with an empty kind.
func Decompress(data []byte, name string) ([]byte, string, error) {
	if len(data) < 2 {
		return data, "", nil
	}

	if data[0] == 0x1f && data[1] == 0x8b {
		slog.Debug("Detected gzip compression", "file", name)
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("gzip reader creation failed: %w", err)
		}
		defer reader.Close()

		out, err := io.ReadAll(reader)
		if err != nil {
			return nil, "", fmt.Errorf("gzip decompression failed: %w", err)
		}
		slog.Debug("Gzip decompression successful", "file", name,
			"original_size", len(data), "decompressed_size", len(out))
		return out, "gzip", nil
	}

	if len(data) >= 4 && data[0] == 'P' && data[1] == 'K' {
		slog.Debug("Detected ZIP archive", "file", name)
		reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, "", fmt.Errorf("zip reader creation failed: %w", err)
		}
		if len(reader.File) == 0 {
			return nil, "", errors.New("zip archive is empty")
		}

		file := reader.File[0]
		rc, err := file.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open file in zip: %w", err)
		}
		defer rc.Close()

		out, err := io.ReadAll(rc)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read file from zip: %w", err)
		}
		slog.Debug("ZIP decompression successful", "file", name,
			"archive_file", file.Name,
			"original_size", len(data), "decompressed_size", len(out))
		return out, "zip", nil
	}

	return data, "", nil
}
