package memory

// Ordered is the set of built-in types Parameter's range checks and
// Statics' numeric helpers accept. Unlike the spec's data model, the
// runtime has no reason to support ordering over strings or structs
// here, so the constraint stays narrow and numeric.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}
