package domain

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrMissingFile      = errors.New("file is required")
	ErrMissingProjectID = errors.New("projectId is required")
	ErrInvalidProjectID = errors.New("projectId must be a positive integer")
	ErrNotPDF           = errors.New("file is not a pdf")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrTextExtraction   = errors.New("unable to extract text from pdf")
	ErrUploadFailed     = errors.New("file upload to storage failed")
	ErrPersistFailed    = errors.New("invoice could not be saved")
	ErrInvalidFields    = errors.New("invalid invoice fields")
)
