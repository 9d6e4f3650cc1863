package filterbox

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/eringen/filterbox/editor"
)

const uploadField = "image"

// errTooLarge is returned when the chosen file exceeds MaxUploadSize.
var errTooLarge = errors.New("filterbox: file too large")

// readUpload reads the first file of a drop or picker selection. Later files
// are never opened. The bytes are not checked for being an image; a bad file
// only fails when it is decoded for export.
func readUpload(files []*multipart.FileHeader, maxSize int64) ([]editor.Upload, error) {
	if len(files) == 0 {
		return nil, editor.ErrNoFile
	}
	fh := files[0]
	if fh.Size > maxSize {
		return nil, fmt.Errorf("%w: %d bytes", errTooLarge, fh.Size)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// Size on the header can be unset for streamed parts; cap the read too.
	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", errTooLarge, maxSize)
	}

	return []editor.Upload{{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}}, nil
}
