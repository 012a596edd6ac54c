package sources

import "fmt"

// FetchError reports that a file could not be retrieved (network or IO).
// Code is the backend's error code (e.g. "NoSuchKey") when it reported one.
type FetchError struct {
	Bucket string
	Key    string
	Code   string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports that a file's payload is not a sequence of records.
type DecodeError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
