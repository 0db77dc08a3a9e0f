package domain

// GenerationState tracks the code-generation side of the pairing screen.
type GenerationState string

const (
	GenerationIdle   GenerationState = "idle"
	Generating       GenerationState = "generating"
	CodeReady        GenerationState = "code_ready"
	GenerationFailed GenerationState = "generation_failed"
)

// ConnectionState tracks the redemption side, independently of generation.
type ConnectionState string

const (
	ConnectionIdle   ConnectionState = "idle"
	Connecting       ConnectionState = "connecting"
	Connected        ConnectionState = "connected"
	ConnectionFailed ConnectionState = "connection_failed"
)
