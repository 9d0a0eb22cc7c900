package values

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"
)

// DigestAlgorithm is the only algorithm used for archive digests.
const DigestAlgorithm = "blake3"

// Digest is a content digest of an archive, rendered as "blake3:<hex>".
type Digest struct {
	hex string
}

// ParseDigest parses "blake3:<hex>".
func ParseDigest(s string) (Digest, error) {
	algo, sum, ok := strings.Cut(s, ":")
	if !ok || algo != DigestAlgorithm {
		return Digest{}, fmt.Errorf("invalid digest %q: expected %s:<hex>", s, DigestAlgorithm)
	}
	raw, err := hex.DecodeString(sum)
	if err != nil || len(raw) != 32 {
		return Digest{}, fmt.Errorf("invalid digest %q: bad hex sum", s)
	}
	return Digest{hex: sum}, nil
}

// DigestReader hashes everything read from r.
func DigestReader(r io.Reader) (Digest, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return Digest{}, fmt.Errorf("hashing: %w", err)
	}
	return Digest{hex: hex.EncodeToString(h.Sum(nil))}, nil
}

// DigestFile hashes the file at path.
func DigestFile(path string) (Digest, error) {
	//nolint:gosec // G304: path is an archive chosen by the caller
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer func() {
		_ = f.Close()
	}()
	return DigestReader(f)
}

// String returns "blake3:<hex>", or "" for the zero value.
func (d Digest) String() string {
	if d.hex == "" {
		return ""
	}
	return DigestAlgorithm + ":" + d.hex
}

// Short returns the first 12 hex characters.
func (d Digest) Short() string {
	if len(d.hex) > 12 {
		return d.hex[:12]
	}
	return d.hex
}

// IsZero returns true if no digest was computed.
func (d Digest) IsZero() bool {
	return d.hex == ""
}

// MarshalText implements encoding.TextMarshaler
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
