package resource

import (
	"context"
	"io"
)

// Reader charges every read against the controller's IO limit.
type Reader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

// NewReader wraps r. A nil controller returns r's reads unthrottled.
func NewReader(ctx context.Context, r io.Reader, rc *Controller) *Reader {
	return &Reader{ctx: ctx, r: r, rc: rc}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		// Charge what was read, so short reads do not overdraw the bucket.
		if werr := r.rc.AcquireIO(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// Writer charges every write against the controller's IO limit.
type Writer struct {
	ctx context.Context
	w   io.Writer
	rc  *Controller
}

// NewWriter wraps w. A nil controller leaves writes unthrottled.
func NewWriter(ctx context.Context, w io.Writer, rc *Controller) *Writer {
	return &Writer{ctx: ctx, w: w, rc: rc}
}

func (w *Writer) Write(p []byte) (int, error) {
	if err := w.rc.AcquireIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}
