package models

// Photo id prefixes.
const (
	PhotoBefore = "antes"
	PhotoAfter  = "depois"
)

// PhotoBlob is a stored photo attachment.
type PhotoBlob struct {
	ID   string
	Data []byte
	// CreatedAt is unix milliseconds.
	CreatedAt int64
}

// ObjectRef is a transient reference to a stored photo. Callers must call
// Release once the reference is no longer displayed.
type ObjectRef struct {
	URL     string
	release func() error
}

// NewObjectRef wraps url with its release hook. release may be nil.
func NewObjectRef(url string, release func() error) ObjectRef {
	return ObjectRef{URL: url, release: release}
}

// Release frees whatever backs the reference. It is safe to call more than once.
func (r *ObjectRef) Release() error {
	if r.release == nil {
		return nil
	}
	fn := r.release
	r.release = nil
	return fn()
}
