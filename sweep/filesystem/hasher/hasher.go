package hasher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/common"

	"github.com/zeebo/blake3"
)

// ErrUnsupportedAlgorithm is returned by New for unknown algorithm names.
var ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

const (
	AlgorithmSHA256 = "sha256"
	AlgorithmBLAKE3 = "blake3"

	bufferSize = 64 * 1024
)

// Hasher computes a content digest for a file
type Hasher interface {
	Hash(ctx context.Context, path string) (string, error)
}

// ContentHasher streams files through a 256-bit digest
type ContentHasher struct {
	algorithm string
	newHash   func() hash.Hash
}

// New returns a hasher for the named algorithm ("sha256" or "blake3").
func New(algorithm string) (*ContentHasher, error) {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	switch name {
	case AlgorithmSHA256, "":
		return &ContentHasher{algorithm: AlgorithmSHA256, newHash: sha256.New}, nil
	case AlgorithmBLAKE3:
		return &ContentHasher{algorithm: AlgorithmBLAKE3, newHash: func() hash.Hash { return blake3.New() }}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}

// Algorithm returns the digest name
func (h *ContentHasher) Algorithm() string { return h.algorithm }

// Hash returns the lowercase hex digest of the file at path.
func (h *ContentHasher) Hash(ctx context.Context, path string) (string, error) {
	if err := common.CheckContext(ctx); err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open file %s: %w", common.ErrHashCompute, path, err)
	}
	defer file.Close()

	digest := h.newHash()
	buf := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(digest, &contextReader{ctx: ctx, r: file}, buf); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: failed to read %s: %w", common.ErrHashCompute, path, err)
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}

// contextReader stops a copy once ctx is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
