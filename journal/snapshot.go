package journal

import (
	"fmt"
	"io"
	"os"

	"github.com/go-json-experiment/json"
	"github.com/klauspost/compress/zstd"
)

// WriteSnapshot stores v as zstd compressed JSON. The previous snapshot is
// replaced atomically.
func WriteSnapshot(filename string, v any) error {

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json encode snapshot: %w", err)
	}

	tmp := filename + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(tmp) // no-op after the rename

	encoder, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		file.Close()
		return fmt.Errorf("zstd writer: %w", err)
	}
	_, err = encoder.Write(data)
	if err != nil {
		encoder.Close()
		file.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	err = encoder.Close()
	if err != nil {
		file.Close()
		return fmt.Errorf("flush snapshot: %w", err)
	}
	err = file.Sync()
	if err != nil {
		file.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	err = file.Close()
	if err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	return os.Rename(tmp, filename)
}

// ReadSnapshot decodes the snapshot into v. found is false when there is no
// snapshot file yet.
func ReadSnapshot(filename string, v any) (found bool, err error) {

	file, err := os.Open(filename)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()

	decoder, err := zstd.NewReader(file)
	if err != nil {
		return true, fmt.Errorf("zstd reader: %w", err)
	}
	defer decoder.Close()

	data, err := io.ReadAll(decoder)
	if err != nil {
		return true, fmt.Errorf("read snapshot: %w", err)
	}

	err = json.Unmarshal(data, v)
	if err != nil {
		return true, fmt.Errorf("json decode snapshot: %w", err)
	}

	return true, nil
}
