// Package trace persists sampling results to disk so a run can be
// re-diagnosed or re-plotted without sampling again.
//
// The file layout is a 64-byte fixed header (magic, version, section
// sizes, SHA-256 of the payload), a JSON metadata block, zero padding
// to a 64-byte boundary, then the draws payload: per chain, the
// position matrix in row-major float64, the log densities, and the
// acceptance statistics, all little-endian.
package trace

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/born-ml/hbnn/internal/mcmc"
)

const (
	magic     = "HBTR"
	version   = 1
	alignment = 64 // payload starts on a 64-byte boundary

	fixedHeaderSize = 64
	checksumOffset  = 0x20
	checksumSize    = 32
)

// Sentinel errors for callers that want to distinguish a damaged file
// from a missing one.
var (
	ErrFormat   = errors.New("trace: not a trace file")
	ErrChecksum = errors.New("trace: checksum mismatch")
)

// Info carries the run metadata stored alongside the draws.
type Info struct {
	Algorithm string
	Seed      uint64
	CreatedAt time.Time
	Meta      map[string]string
}

// header is the JSON metadata block after the fixed header.
type header struct {
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	Algorithm string            `json:"algorithm"`
	Seed      uint64            `json:"seed"`
	Dim       int               `json:"dim"`
	Chains    []chainMeta       `json:"chains"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// chainMeta holds the per-chain scalars; the draw-sized series live in
// the payload.
type chainMeta struct {
	Draws       int     `json:"draws"`
	Divergences int     `json:"divergences"`
	StepSize    float64 `json:"step_size"`
}

// Write stores a sampling result at path.
func Write(path string, result *mcmc.Result, info Info) error {
	if result == nil || result.NumChains() == 0 {
		return fmt.Errorf("trace: nothing to write")
	}

	dim := result.Dim()
	h := header{
		Version:   version,
		CreatedAt: time.Now().UTC(),
		Algorithm: info.Algorithm,
		Seed:      info.Seed,
		Dim:       dim,
		Meta:      info.Meta,
	}
	for _, c := range result.Chains {
		h.Chains = append(h.Chains, chainMeta{
			Draws:       c.NumDraws(),
			Divergences: c.Divergences,
			StepSize:    c.StepSize,
		})
	}

	payload := encodePayload(result, dim)
	sum := sha256.Sum256(payload)

	headerJSON, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("trace: encode header: %w", err)
	}

	fixed := make([]byte, fixedHeaderSize)
	copy(fixed[0:4], magic)
	binary.LittleEndian.PutUint32(fixed[4:8], version)
	binary.LittleEndian.PutUint64(fixed[8:16], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(payload)))
	// 0x18-0x1F reserved
	copy(fixed[checksumOffset:checksumOffset+checksumSize], sum[:])

	padding := (alignment - (fixedHeaderSize+len(headerJSON))%alignment) % alignment

	buf := make([]byte, 0, fixedHeaderSize+len(headerJSON)+padding+len(payload))
	buf = append(buf, fixed...)
	buf = append(buf, headerJSON...)
	buf = append(buf, make([]byte, padding)...)
	buf = append(buf, payload...)

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("trace: write %s: %w", path, err)
	}
	return nil
}

// Load reads a trace file back into a result.
func Load(path string) (*mcmc.Result, *Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("trace: read %s: %w", path, err)
	}
	if len(data) < fixedHeaderSize || string(data[0:4]) != magic {
		return nil, nil, fmt.Errorf("%w: %s", ErrFormat, path)
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != version {
		return nil, nil, fmt.Errorf("trace: unsupported version %d in %s", v, path)
	}

	headerSize := binary.LittleEndian.Uint64(data[8:16])
	payloadSize := binary.LittleEndian.Uint64(data[16:24])
	padding := (alignment - (fixedHeaderSize+int(headerSize))%alignment) % alignment
	payloadStart := fixedHeaderSize + int(headerSize) + padding
	if uint64(len(data)) < uint64(payloadStart)+payloadSize {
		return nil, nil, fmt.Errorf("%w: %s is truncated", ErrFormat, path)
	}

	payload := data[payloadStart : uint64(payloadStart)+payloadSize]
	sum := sha256.Sum256(payload)
	var stored [checksumSize]byte
	copy(stored[:], data[checksumOffset:checksumOffset+checksumSize])
	if sum != stored {
		return nil, nil, fmt.Errorf("%w: %s", ErrChecksum, path)
	}

	var h header
	if err := json.Unmarshal(data[fixedHeaderSize:fixedHeaderSize+int(headerSize)], &h); err != nil {
		return nil, nil, fmt.Errorf("trace: decode header of %s: %w", path, err)
	}

	result, err := decodePayload(payload, &h)
	if err != nil {
		return nil, nil, fmt.Errorf("trace: %s: %w", path, err)
	}

	info := &Info{
		Algorithm: h.Algorithm,
		Seed:      h.Seed,
		CreatedAt: h.CreatedAt,
		Meta:      h.Meta,
	}
	return result, info, nil
}

// encodePayload lays out each chain as draws*dim positions, then the
// log densities, then the acceptance statistics.
func encodePayload(result *mcmc.Result, dim int) []byte {
	total := 0
	for _, c := range result.Chains {
		total += c.NumDraws() * (dim + 2) * 8
	}

	buf := make([]byte, total)
	off := 0
	put := func(v float64) {
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
		off += 8
	}

	for _, c := range result.Chains {
		for _, draw := range c.Draws {
			for _, v := range draw {
				put(v)
			}
		}
		for _, v := range c.LogProbs {
			put(v)
		}
		for _, v := range c.Accept {
			put(v)
		}
	}
	return buf
}

func decodePayload(payload []byte, h *header) (*mcmc.Result, error) {
	want := 0
	for _, cm := range h.Chains {
		want += cm.Draws * (h.Dim + 2) * 8
	}
	if len(payload) != want {
		return nil, fmt.Errorf("payload is %d bytes, header describes %d", len(payload), want)
	}

	off := 0
	get := func() float64 {
		v := math.Float64frombits(binary.LittleEndian.Uint64(payload[off:]))
		off += 8
		return v
	}

	result := &mcmc.Result{}
	for _, cm := range h.Chains {
		chain := &mcmc.Chain{
			Draws:       make([][]float64, cm.Draws),
			LogProbs:    make([]float64, cm.Draws),
			Accept:      make([]float64, cm.Draws),
			Divergences: cm.Divergences,
			StepSize:    cm.StepSize,
		}
		for i := range chain.Draws {
			draw := make([]float64, h.Dim)
			for j := range draw {
				draw[j] = get()
			}
			chain.Draws[i] = draw
		}
		for i := range chain.LogProbs {
			chain.LogProbs[i] = get()
		}
		for i := range chain.Accept {
			chain.Accept[i] = get()
		}
		result.Chains = append(result.Chains, chain)
	}
	return result, nil
}
