package bytecounter

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFull = errors.New("writer full")

// fullWriter accepts up to limit bytes and then reports errFull.
type fullWriter struct {
	buf   bytes.Buffer
	limit int
}

func (w *fullWriter) Write(p []byte) (int, error) {
	room := w.limit - w.buf.Len()
	if len(p) <= room {
		return w.buf.Write(p)
	}
	n, _ := w.buf.Write(p[:room])
	return n, errFull
}

func TestByteCounter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int
		wantN   int64
		wantOut string
		wantErr require.ErrorAssertionFunc
	}{
		{
			name:    "counts everything written",
			input:   "0123456789",
			limit:   100,
			wantN:   10,
			wantOut: "0123456789",
		},
		{
			name:    "counts only what the underlying writer accepted",
			input:   "0123456789",
			limit:   4,
			wantN:   4,
			wantOut: "0123",
			wantErr: require.Error,
		},
		{
			name:  "empty input",
			limit: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr == nil {
				tt.wantErr = require.NoError
			}
			w := &fullWriter{limit: tt.limit}
			bc := New(w)

			_, err := io.Copy(bc, strings.NewReader(tt.input))
			tt.wantErr(t, err)

			assert.Equal(t, tt.wantOut, w.buf.String())
			assert.Equal(t, tt.wantN, bc.N)
		})
	}
}
