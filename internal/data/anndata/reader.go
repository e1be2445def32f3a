// Package anndata provides a reader for AnnData-style Zarr v3 stores.
//
// The store layout mirrors what anndata writes with zarr_format=3: embeddings
// live under obsm/<key>, per-observation columns under obs/<name>, and the
// primary matrix at X. Categorical columns are groups holding a codes array
// plus the ordered category names in the group's zarr.json attributes.
package anndata

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Store provides read access to one AnnData Zarr store.
type Store struct {
	basePath string
	decoder  *zstd.Decoder
}

// Matrix is a dense 2-D array read from the store, row-major.
type Matrix struct {
	Rows   int
	Cols   int
	Values []float64
}

// Column holds one obs column. Categorical columns carry Categories plus
// per-point Codes (-1 marks a missing value). Plain numeric columns carry
// Values, with NaN marking missing entries.
type Column struct {
	Categorical bool
	Categories  []string
	Codes       []int32
	Values      []float64
}

// arrayMeta represents Zarr v3 array metadata (zarr.json).
type arrayMeta struct {
	Shape     []int  `json:"shape"`
	DataType  string `json:"data_type"`
	ChunkGrid struct {
		Name          string `json:"name"`
		Configuration struct {
			ChunkShape []int `json:"chunk_shape"`
		} `json:"configuration"`
	} `json:"chunk_grid"`
	ChunkKeyEncoding struct {
		Name          string `json:"name"`
		Configuration struct {
			Separator string `json:"separator"`
		} `json:"configuration"`
	} `json:"chunk_key_encoding"`
	FillValue interface{} `json:"fill_value"`
	Codecs    []struct {
		Name          string                 `json:"name"`
		Configuration map[string]interface{} `json:"configuration"`
	} `json:"codecs"`
	ZarrFormat int    `json:"zarr_format"`
	NodeType   string `json:"node_type"`
}

// groupMeta represents Zarr v3 group metadata.
type groupMeta struct {
	ZarrFormat int                        `json:"zarr_format"`
	NodeType   string                     `json:"node_type"`
	Attributes map[string]json.RawMessage `json:"attributes"`
}

// Open opens an AnnData Zarr store rooted at basePath.
func Open(basePath string) (*Store, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store path is not a directory: %s", basePath)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Store{basePath: basePath, decoder: decoder}, nil
}

// Close releases decoder resources.
func (s *Store) Close() {
	if s.decoder != nil {
		s.decoder.Close()
	}
}

// EmbeddingKeys returns the obsm keys present in the store, sorted.
func (s *Store) EmbeddingKeys() []string {
	return s.childArrayNames(filepath.Join(s.basePath, "obsm"))
}

// HasEmbedding reports whether obsm contains the given key.
func (s *Store) HasEmbedding(key string) bool {
	return s.nodeExists(filepath.Join(s.basePath, "obsm", key))
}

// Embedding reads the obsm array for key as a dense matrix.
func (s *Store) Embedding(key string) (*Matrix, error) {
	return s.readMatrix(filepath.Join(s.basePath, "obsm", key))
}

// HasX reports whether the store has a primary matrix.
func (s *Store) HasX() bool {
	return s.nodeExists(filepath.Join(s.basePath, "X"))
}

// X reads the primary matrix.
func (s *Store) X() (*Matrix, error) {
	return s.readMatrix(filepath.Join(s.basePath, "X"))
}

// ColumnNames returns the obs column names present in the store, sorted.
func (s *Store) ColumnNames() []string {
	return s.childArrayNames(filepath.Join(s.basePath, "obs"))
}

// HasColumn reports whether obs contains the given column.
func (s *Store) HasColumn(name string) bool {
	return s.nodeExists(filepath.Join(s.basePath, "obs", name))
}

// Column reads one obs column, either categorical-typed or plain numeric.
func (s *Store) Column(name string) (*Column, error) {
	nodePath := filepath.Join(s.basePath, "obs", name)

	meta, err := s.loadNodeMeta(nodePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read obs column %q: %w", name, err)
	}

	if meta.NodeType == "group" {
		return s.readCategoricalColumn(nodePath, name, meta)
	}

	values, err := s.readVector(nodePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read obs column %q: %w", name, err)
	}
	return &Column{Values: values}, nil
}

func (s *Store) readCategoricalColumn(nodePath, name string, meta *groupMeta) (*Column, error) {
	raw, ok := meta.Attributes["categories"]
	if !ok {
		return nil, fmt.Errorf("categorical column %q missing categories attribute", name)
	}
	var categories []string
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse categories for column %q: %w", name, err)
	}

	codesPath := filepath.Join(nodePath, "codes")
	codesMeta, err := s.loadArrayMeta(codesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load codes metadata for column %q: %w", name, err)
	}
	if len(codesMeta.Shape) != 1 {
		return nil, fmt.Errorf("unexpected codes shape for column %q: %v", name, codesMeta.Shape)
	}

	data, err := s.assembleArray(codesPath, codesMeta)
	if err != nil {
		return nil, fmt.Errorf("failed to read codes for column %q: %w", name, err)
	}

	codes, err := decodeInts(data, codesMeta.DataType, codesMeta.Shape[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode codes for column %q: %w", name, err)
	}

	return &Column{Categorical: true, Categories: categories, Codes: codes}, nil
}

// loadNodeMeta loads zarr.json for a node without assuming array or group.
func (s *Store) loadNodeMeta(nodePath string) (*groupMeta, error) {
	data, err := os.ReadFile(filepath.Join(nodePath, "zarr.json"))
	if err != nil {
		return nil, err
	}
	var meta groupMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse zarr.json: %w", err)
	}
	return &meta, nil
}

func (s *Store) nodeExists(nodePath string) bool {
	_, err := os.Stat(filepath.Join(nodePath, "zarr.json"))
	return err == nil
}

func (s *Store) childArrayNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if s.nodeExists(filepath.Join(dir, e.Name())) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// readMatrix reads a whole 2-D array into a dense row-major matrix.
func (s *Store) readMatrix(arrayPath string) (*Matrix, error) {
	meta, err := s.loadArrayMeta(arrayPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load array metadata: %w", err)
	}
	if len(meta.Shape) != 2 {
		return nil, fmt.Errorf("expected 2-D array, got shape %v", meta.Shape)
	}

	data, err := s.assembleArray(arrayPath, meta)
	if err != nil {
		return nil, err
	}

	values, err := decodeFloats(data, meta.DataType, meta.Shape[0]*meta.Shape[1])
	if err != nil {
		return nil, err
	}

	return &Matrix{Rows: meta.Shape[0], Cols: meta.Shape[1], Values: values}, nil
}

// readVector reads a whole 1-D numeric array.
func (s *Store) readVector(arrayPath string) ([]float64, error) {
	meta, err := s.loadArrayMeta(arrayPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load array metadata: %w", err)
	}
	if len(meta.Shape) != 1 {
		return nil, fmt.Errorf("expected 1-D array, got shape %v", meta.Shape)
	}

	data, err := s.assembleArray(arrayPath, meta)
	if err != nil {
		return nil, err
	}

	return decodeFloats(data, meta.DataType, meta.Shape[0])
}

func (s *Store) loadArrayMeta(arrayPath string) (*arrayMeta, error) {
	data, err := os.ReadFile(filepath.Join(arrayPath, "zarr.json"))
	if err != nil {
		return nil, err
	}

	var meta arrayMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse zarr.json: %w", err)
	}
	if meta.NodeType != "array" {
		return nil, fmt.Errorf("node is not an array: %s", meta.NodeType)
	}
	return &meta, nil
}

// assembleArray reads every chunk of a 1-D or 2-D array and stitches the raw
// element bytes together in row-major order.
func (s *Store) assembleArray(arrayPath string, meta *arrayMeta) ([]byte, error) {
	size, err := dtypeSize(meta.DataType)
	if err != nil {
		return nil, err
	}

	chunkShape := meta.ChunkGrid.Configuration.ChunkShape
	if len(chunkShape) != len(meta.Shape) {
		return nil, fmt.Errorf("invalid zarr metadata: shape dims (%d) != chunk dims (%d)", len(meta.Shape), len(chunkShape))
	}
	for d, c := range chunkShape {
		if c <= 0 {
			return nil, fmt.Errorf("invalid chunk shape at dim %d: %d", d, c)
		}
	}

	switch len(meta.Shape) {
	case 1:
		return s.assemble1D(arrayPath, meta, size)
	case 2:
		return s.assemble2D(arrayPath, meta, size)
	default:
		return nil, fmt.Errorf("unsupported array rank: %d", len(meta.Shape))
	}
}

func (s *Store) assemble1D(arrayPath string, meta *arrayMeta, elemSize int) ([]byte, error) {
	n := meta.Shape[0]
	chunkLen := meta.ChunkGrid.Configuration.ChunkShape[0]
	out := make([]byte, n*elemSize)

	for chunk := 0; chunk < ceilDiv(n, chunkLen); chunk++ {
		start := chunk * chunkLen
		count := min(chunkLen, n-start)

		data, err := s.readChunkAt(arrayPath, meta, []int{chunk})
		if err != nil {
			return nil, fmt.Errorf("failed to load chunk %d: %w", chunk, err)
		}
		if len(data) < count*elemSize {
			return nil, fmt.Errorf("chunk %d too short: got %d bytes, expected %d", chunk, len(data), count*elemSize)
		}

		copy(out[start*elemSize:], data[:count*elemSize])
	}

	return out, nil
}

func (s *Store) assemble2D(arrayPath string, meta *arrayMeta, elemSize int) ([]byte, error) {
	rows, cols := meta.Shape[0], meta.Shape[1]
	rowChunk := meta.ChunkGrid.Configuration.ChunkShape[0]
	colChunk := meta.ChunkGrid.Configuration.ChunkShape[1]
	out := make([]byte, rows*cols*elemSize)

	for rc := 0; rc < ceilDiv(rows, rowChunk); rc++ {
		rowStart := rc * rowChunk
		rowLen := min(rowChunk, rows-rowStart)

		for cc := 0; cc < ceilDiv(cols, colChunk); cc++ {
			colStart := cc * colChunk
			colLen := min(colChunk, cols-colStart)

			data, err := s.readChunkAt(arrayPath, meta, []int{rc, cc})
			if err != nil {
				return nil, fmt.Errorf("failed to load chunk %d/%d: %w", rc, cc, err)
			}

			// Edge chunks are stored at the full chunk shape, padded with
			// the fill value, so rows always stride by colChunk on disk.
			need := ((rowLen-1)*colChunk + colLen) * elemSize
			if len(data) < need {
				return nil, fmt.Errorf("chunk %d/%d too short: got %d bytes, expected %d", rc, cc, len(data), need)
			}

			for r := 0; r < rowLen; r++ {
				srcOff := r * colChunk * elemSize
				dstOff := ((rowStart+r)*cols + colStart) * elemSize
				copy(out[dstOff:dstOff+colLen*elemSize], data[srcOff:srcOff+colLen*elemSize])
			}
		}
	}

	return out, nil
}

// readChunkAt reads, decodes, and fill-synthesizes a single chunk.
func (s *Store) readChunkAt(arrayPath string, meta *arrayMeta, chunkIndices []int) ([]byte, error) {
	sep := meta.ChunkKeyEncoding.Configuration.Separator
	if sep == "" {
		sep = "/"
	}
	parts := make([]string, len(chunkIndices))
	for i, idx := range chunkIndices {
		parts[i] = strconv.Itoa(idx)
	}
	chunkPath := filepath.Join(arrayPath, "c", strings.Join(parts, sep))

	raw, err := os.ReadFile(chunkPath)
	if err != nil {
		// Chunks absent on disk represent all-fill-value chunks.
		if os.IsNotExist(err) {
			return s.fillChunk(meta, chunkIndices)
		}
		return nil, err
	}

	return s.decodeCodecs(meta, raw)
}

// decodeCodecs runs the codec pipeline in reverse to recover element bytes.
func (s *Store) decodeCodecs(meta *arrayMeta, data []byte) ([]byte, error) {
	for i := len(meta.Codecs) - 1; i >= 0; i-- {
		codec := meta.Codecs[i]
		switch codec.Name {
		case "bytes":
			if endian, ok := codec.Configuration["endian"].(string); ok && endian != "little" {
				return nil, fmt.Errorf("unsupported byte order: %s", endian)
			}
		case "zstd":
			decoded, err := s.decoder.DecodeAll(data, nil)
			if err != nil {
				return nil, fmt.Errorf("zstd decompress failed: %w", err)
			}
			data = decoded
		case "gzip":
			zr, err := gzip.NewReader(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("gzip decompress failed: %w", err)
			}
			decoded, err := io.ReadAll(zr)
			zr.Close()
			if err != nil {
				return nil, fmt.Errorf("gzip decompress failed: %w", err)
			}
			data = decoded
		default:
			return nil, fmt.Errorf("unsupported codec: %s", codec.Name)
		}
	}
	return data, nil
}

// fillChunk synthesizes the bytes of an all-fill-value chunk at the full
// chunk shape, matching how writers pad edge chunks on disk.
func (s *Store) fillChunk(meta *arrayMeta, chunkIndices []int) ([]byte, error) {
	elems := 1
	for d := range meta.Shape {
		chunkLen := meta.ChunkGrid.Configuration.ChunkShape[d]
		start := chunkIndices[d] * chunkLen
		if start < 0 || start >= meta.Shape[d] {
			return nil, fmt.Errorf("chunk index out of range at dim %d: start=%d shape=%d", d, start, meta.Shape[d])
		}
		elems *= chunkLen
	}

	fill, err := fillValueBytes(meta)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(fill)*elems)
	allZero := true
	for _, b := range fill {
		if b != 0 {
			allZero = false
			break
		}
	}
	if !allZero {
		for i := 0; i < elems; i++ {
			copy(out[i*len(fill):], fill)
		}
	}
	return out, nil
}

func dtypeSize(dataType string) (int, error) {
	switch dataType {
	case "int8", "uint8":
		return 1, nil
	case "int16", "uint16":
		return 2, nil
	case "float32", "int32", "uint32":
		return 4, nil
	case "float64", "int64", "uint64":
		return 8, nil
	default:
		return 0, fmt.Errorf("unsupported zarr data_type: %s", dataType)
	}
}

func fillValueBytes(meta *arrayMeta) ([]byte, error) {
	size, err := dtypeSize(meta.DataType)
	if err != nil {
		return nil, err
	}

	// Default fill to 0 if unspecified.
	if meta.FillValue == nil {
		return make([]byte, size), nil
	}

	f, ok := meta.FillValue.(float64)
	if !ok {
		return nil, fmt.Errorf("unsupported fill_value type: %T", meta.FillValue)
	}

	out := make([]byte, size)
	switch meta.DataType {
	case "float32":
		binary.LittleEndian.PutUint32(out, math.Float32bits(float32(f)))
	case "float64":
		binary.LittleEndian.PutUint64(out, math.Float64bits(f))
	case "int8", "uint8":
		out[0] = byte(int64(f))
	case "int16", "uint16":
		binary.LittleEndian.PutUint16(out, uint16(int64(f)))
	case "int32", "uint32":
		binary.LittleEndian.PutUint32(out, uint32(int64(f)))
	case "int64", "uint64":
		binary.LittleEndian.PutUint64(out, uint64(int64(f)))
	}
	return out, nil
}

func decodeFloats(data []byte, dataType string, n int) ([]float64, error) {
	out := make([]float64, n)
	switch dataType {
	case "float32":
		for i := 0; i < n; i++ {
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
		}
	case "float64":
		for i := 0; i < n; i++ {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
		}
	case "int8":
		for i := 0; i < n; i++ {
			out[i] = float64(int8(data[i]))
		}
	case "int16":
		for i := 0; i < n; i++ {
			out[i] = float64(int16(binary.LittleEndian.Uint16(data[i*2:])))
		}
	case "int32":
		for i := 0; i < n; i++ {
			out[i] = float64(int32(binary.LittleEndian.Uint32(data[i*4:])))
		}
	case "int64":
		for i := 0; i < n; i++ {
			out[i] = float64(int64(binary.LittleEndian.Uint64(data[i*8:])))
		}
	case "uint8":
		for i := 0; i < n; i++ {
			out[i] = float64(data[i])
		}
	case "uint16":
		for i := 0; i < n; i++ {
			out[i] = float64(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case "uint32":
		for i := 0; i < n; i++ {
			out[i] = float64(binary.LittleEndian.Uint32(data[i*4:]))
		}
	case "uint64":
		for i := 0; i < n; i++ {
			out[i] = float64(binary.LittleEndian.Uint64(data[i*8:]))
		}
	default:
		return nil, fmt.Errorf("unsupported numeric data_type: %s", dataType)
	}
	return out, nil
}

func decodeInts(data []byte, dataType string, n int) ([]int32, error) {
	out := make([]int32, n)
	switch dataType {
	case "int8":
		for i := 0; i < n; i++ {
			out[i] = int32(int8(data[i]))
		}
	case "int16":
		for i := 0; i < n; i++ {
			out[i] = int32(int16(binary.LittleEndian.Uint16(data[i*2:])))
		}
	case "int32":
		for i := 0; i < n; i++ {
			out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
		}
	case "int64":
		for i := 0; i < n; i++ {
			out[i] = int32(int64(binary.LittleEndian.Uint64(data[i*8:])))
		}
	default:
		return nil, fmt.Errorf("unsupported codes data_type: %s", dataType)
	}
	return out, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
