// SPDX-License-Identifier: EPL-2.0

// Package storage fetches track assets from S3 compatible object storage.
//
// MinioFetcher plugs into the loader under the "s3" scheme:
//
//	f, err := storage.NewMinioFetcher(storage.Config{Endpoint: "minio:9000"})
//	l.Register("s3", f)
//	buf, err := l.Load(ctx, "s3://stems/song-1/bass.wav")
package storage
