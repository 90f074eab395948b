package domain

import "errors"

var (
	// ErrMissingCredential は API キーが未入力の場合のエラーです。
	ErrMissingCredential = errors.New("credential is required")
	// ErrEmptyQuery は質問文が空の場合のエラーです。
	ErrEmptyQuery = errors.New("query is empty")
	// ErrMissingReference は参照画像が添付されていない場合のエラーです。
	ErrMissingReference = errors.New("reference image is required")
	// ErrUnsupportedReference は参照画像が画像として扱えない場合のエラーです。
	ErrUnsupportedReference = errors.New("reference is not a supported image")

	ErrNoImageData = errors.New("no image data in response")
	ErrNoText      = errors.New("no text in response")
	ErrBlocked     = errors.New("generation was blocked")
	ErrUnsafeURL   = errors.New("unsafe url")
)
