package gpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// GeometryBuffer is an immutable vertex/index buffer pair uploaded once.
type GeometryBuffer struct {
	device hal.Device

	vertex hal.Buffer
	index  hal.Buffer

	indexFormat gputypes.IndexFormat
	indexCount  uint32
}

// NewGeometryBuffer uploads vertexData and indices. Indices are stored as
// uint16 when every value fits, uint32 otherwise.
func NewGeometryBuffer(device hal.Device, queue hal.Queue, label string, vertexData []byte, indices []uint32) (*GeometryBuffer, error) {
	if len(vertexData) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("%w: geometry %q is empty", ErrSizeMismatch, label)
	}

	format := IndexFormatFor(indices)
	vb, err := createAndUploadBuffer(device, queue, label+"_vertices", vertexData,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	ib, err := createAndUploadBuffer(device, queue, label+"_indices", encodeIndices(indices, format),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		device.DestroyBuffer(vb)
		return nil, err
	}

	return &GeometryBuffer{
		device:      device,
		vertex:      vb,
		index:       ib,
		indexFormat: format,
		indexCount:  uint32(len(indices)),
	}, nil
}

// IndexFormatFor returns Uint16 when the largest index is at most 0xFFFF.
func IndexFormatFor(indices []uint32) gputypes.IndexFormat {
	for _, i := range indices {
		if i > 0xFFFF {
			return gputypes.IndexFormatUint32
		}
	}
	return gputypes.IndexFormatUint16
}

func encodeIndices(indices []uint32, format gputypes.IndexFormat) []byte {
	if format == gputypes.IndexFormatUint16 {
		out := make([]byte, len(indices)*2)
		for n, i := range indices {
			binary.LittleEndian.PutUint16(out[n*2:], uint16(i))
		}
		return out
	}
	out := make([]byte, len(indices)*4)
	for n, i := range indices {
		binary.LittleEndian.PutUint32(out[n*4:], i)
	}
	return out
}

// VertexBuffer returns the vertex buffer.
func (g *GeometryBuffer) VertexBuffer() hal.Buffer { return g.vertex }

// IndexBuffer returns the index buffer.
func (g *GeometryBuffer) IndexBuffer() hal.Buffer { return g.index }

// IndexFormat returns the stored index width.
func (g *GeometryBuffer) IndexFormat() gputypes.IndexFormat { return g.indexFormat }

// IndexCount returns the number of indices.
func (g *GeometryBuffer) IndexCount() uint32 { return g.indexCount }

// Destroy releases both buffers.
func (g *GeometryBuffer) Destroy() {
	if g.vertex != nil {
		g.device.DestroyBuffer(g.vertex)
		g.vertex = nil
	}
	if g.index != nil {
		g.device.DestroyBuffer(g.index)
		g.index = nil
	}
}
