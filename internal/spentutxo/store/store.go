// Package store reads and writes spent-UTXO record set artifacts: JSON
// files, optionally zstd-compressed.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/model"
)

const zstdExtension = ".zst"

// Load reads a record set from a JSON file. Files with a .zst extension are
// transparently decompressed first.
func Load(path string) ([]model.SpentUtxoRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), zstdExtension) {
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("init zstd decoder: %w", err)
		}
		defer decoder.Close()

		raw, err = decoder.DecodeAll(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
	}

	var records []model.SpentUtxoRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode records from %s: %w", path, err)
	}
	return records, nil
}

// Save writes a record set as pretty-printed JSON.
func Save(path string, records []model.SpentUtxoRecord) error {
	encoded, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// CompressFile writes a zstd-compressed copy of src to dst using the
// strongest compression level; artifacts are written once and shipped.
func CompressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	encoder, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		out.Close()
		return fmt.Errorf("init zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, in); err != nil {
		encoder.Close()
		out.Close()
		return fmt.Errorf("compress %s: %w", src, err)
	}
	if err := encoder.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finish compressing %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}
