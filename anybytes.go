package anybytes

// ByteSource adapts an external byte-bearing container into the ownership
// erasure model. It is the sole extension point for new storage backends.
//
// The two operations form a contract: the slice observed through AsBytes
// must remain valid, at the same address and with the same content, after
// GetOwner completes. Implementations must not depend on any guard or
// borrow that GetOwner releases.
type ByteSource interface {
	// AsBytes yields the container's current bytes without consuming it.
	AsBytes() []byte

	// GetOwner consumes the container and returns the durable owner that
	// keeps those same bytes valid thereafter.
	GetOwner() ByteOwner
}

// ByteOwner is the type-erased owner of a byte region. Any value may serve;
// handles require only that the bytes they cover stay valid and unchanged,
// at the same address, while the owner is strongly referenced. The concrete
// type is recovered with DowncastOwner or ReclaimOwner.
type ByteOwner any

// Dropper is implemented by owners holding resources beyond garbage
// collected memory, such as file mappings or guest-runtime buffers. Drop
// runs exactly once, on whichever goroutine releases the last strong
// reference, and must be safe to call from any goroutine.
type Dropper interface {
	Drop()
}
