package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// MockClient returns deterministic vectors derived from the input text.
// Identical text always embeds identically, so similarity queries
// behave sensibly in tests and local development without an API key.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, Dimensions)

	var norm float64
	for i := range vec {
		seed := binary.LittleEndian.Uint32(sum[(i*4)%len(sum):][:4])
		v := float32(seed%1000)/500 - 1
		vec[i] = v
		norm += float64(v) * float64(v)

		// Rotate the digest so all dimensions do not repeat every 8 values.
		if i%8 == 7 {
			sum = sha256.Sum256(sum[:])
		}
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}
