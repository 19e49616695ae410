package render

import "errors"

var (
	// ErrTextureDecode is returned when an image file cannot be decoded.
	ErrTextureDecode = errors.New("texture decode failed")
	// ErrIndexOutOfRange is returned by Mesh.Validate when an index
	// references a vertex that does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNoTriangles is returned by Mesh.Validate for a mesh whose index
	// buffer cannot form a single triangle.
	ErrNoTriangles = errors.New("mesh has no triangles")
)
