// Package vector provides a flat dense vector index with exact L2 search.
package vector

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

// FlatIndex stores fixed-dimension float32 vectors in one contiguous slice.
// Positions are dense integers 0..Size()-1 assigned in append order; there is
// no deletion primitive. Callers synchronize access.
type FlatIndex struct {
	dimensions int
	data       []float32
}

// Candidate is a single nearest-neighbor candidate: a position and its
// squared L2 distance from the query.
type Candidate struct {
	Position int
	Distance float64
}

// NewFlatIndex creates an empty index for vectors of the given dimension.
func NewFlatIndex(dimensions int) (*FlatIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &FlatIndex{dimensions: dimensions}, nil
}

// Append adds vectors to the end of the index and returns the position
// assigned to the first of them. Subsequent vectors occupy consecutive
// positions. Fails without mutating the index if any vector has the wrong
// dimension.
func (x *FlatIndex) Append(vectors [][]float32) (int, error) {
	for i, vec := range vectors {
		if len(vec) != x.dimensions {
			return 0, fmt.Errorf("vector %d dimension mismatch: got %d, expected %d", i, len(vec), x.dimensions)
		}
	}
	start := x.Size()
	for _, vec := range vectors {
		x.data = append(x.data, vec...)
	}
	return start, nil
}

// Search returns the k nearest vectors to query by squared L2 distance,
// ascending. Returns fewer than k candidates when the index is smaller.
func (x *FlatIndex) Search(query []float32, k int) ([]Candidate, error) {
	if len(query) != x.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), x.dimensions)
	}
	n := x.Size()
	if k <= 0 || n == 0 {
		return nil, nil
	}
	candidates := make([]Candidate, n)
	for i := 0; i < n; i++ {
		candidates[i] = Candidate{Position: i, Distance: SquaredL2(query, x.at(i))}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Position < candidates[j].Position
	})
	if k > n {
		k = n
	}
	return candidates[:k], nil
}

// Reconstruct returns a copy of the vector stored at position.
func (x *FlatIndex) Reconstruct(position int) ([]float32, error) {
	if position < 0 || position >= x.Size() {
		return nil, fmt.Errorf("position %d out of range [0, %d)", position, x.Size())
	}
	vec := make([]float32, x.dimensions)
	copy(vec, x.at(position))
	return vec, nil
}

// Size returns the number of stored vectors.
func (x *FlatIndex) Size() int {
	return len(x.data) / x.dimensions
}

// Dimensions returns the vector dimension.
func (x *FlatIndex) Dimensions() int {
	return x.dimensions
}

// at returns the stored vector at position as a subslice of the arena.
func (x *FlatIndex) at(position int) []float32 {
	return x.data[position*x.dimensions : (position+1)*x.dimensions]
}

// WriteTo serializes the index: dimension (uint32), count (uint32), then all
// vectors as little-endian float32 in position order.
func (x *FlatIndex) WriteTo(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(x.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(x.Size())); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, x.data); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}
	return nil
}

// ReadFlatIndex deserializes an index written by WriteTo. The stored dimension
// must equal dimensions.
func ReadFlatIndex(r io.Reader, dimensions int) (*FlatIndex, error) {
	var dim, n uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}
	if int(dim) != dimensions {
		return nil, fmt.Errorf("dimension mismatch: file has %d, index expects %d", dim, dimensions)
	}
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}
	idx := &FlatIndex{
		dimensions: dimensions,
		data:       make([]float32, int(n)*dimensions),
	}
	if err := binary.Read(r, binary.LittleEndian, idx.data); err != nil {
		return nil, fmt.Errorf("read vectors: %w", err)
	}
	return idx, nil
}
