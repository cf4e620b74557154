package filters

import (
	"bytes"
	"compress/flate"
	"io"
)

// Inflate decompresses raw-deflate data (no zlib header, matching a zlib
// window bits of -15). The returned bool reports whether inflation actually
// happened: when the data does not inflate, Inflate returns the input
// unchanged and false, because compressed containers routinely carry a mix
// of compressed and stored streams under one header flag.
func Inflate(data []byte) ([]byte, bool) {
	if len(data) == 0 {
		return data, false
	}

	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return data, false
	}
	if buf.Len() == 0 {
		return data, false
	}
	return buf.Bytes(), true
}
