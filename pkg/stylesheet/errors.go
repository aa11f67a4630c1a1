package stylesheet

import "errors"

// Parsing and rendering never fail; only the blob codec returns errors.
var (
	ErrEncodeTree         = errors.New("failed to encode style sheet tree")
	ErrCorruptBlob        = errors.New("style sheet blob is corrupt")
	ErrUnsupportedVersion = errors.New("unsupported style sheet blob version")
	ErrUnknownNodeKind    = errors.New("unknown style sheet node kind")
)
