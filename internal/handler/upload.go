package handler

import (
	"errors"
	"io"
	"net/http"

	"menu-digitizer/internal/model"
)

const imageField = "image"

// multipartMemory is the part of a multipart body kept in memory; the
// rest spills to temporary files.
const multipartMemory = 1 << 20

// readImage reads the "image" part of a multipart form. Files larger than
// maxBytes are rejected with ErrImageTooLarge; a missing part or a body
// that is not a readable form yields ErrImageRequired.
func readImage(r *http.Request, maxBytes int64) (*model.UploadedImage, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, model.ErrImageTooLarge
		}
		return nil, model.ErrImageRequired
	}

	file, header, err := r.FormFile(imageField)
	if err != nil {
		return nil, model.ErrImageRequired
	}
	defer file.Close()

	if maxBytes > 0 && header.Size > maxBytes {
		return nil, model.ErrImageTooLarge
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, model.ErrImageRequired
	}

	return &model.UploadedImage{
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}
