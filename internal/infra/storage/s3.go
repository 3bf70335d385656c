// Package storage writes archived audio to an S3-compatible bucket (MinIO locally, S3 in the cloud).
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Options locates the bucket. Endpoint is required for MinIO and enables path-style addressing.
// Empty AccessKey/SecretKey fall back to the default AWS credential chain.
type Options struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	Region    string
	AccessKey string
	SecretKey string
}

// Bucket stores objects under a fixed key prefix.
type Bucket struct {
	client s3API
	bucket string
	prefix string
}

func New(ctx context.Context, opts Options) (*Bucket, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(opts.Bucket, opts.Prefix, client), nil
}

func NewWithClient(bucket, prefix string, client s3API) *Bucket {
	return &Bucket{
		client: client,
		bucket: bucket,
		prefix: normalizePrefix(prefix),
	}
}

func (b *Bucket) Name() string   { return b.bucket }
func (b *Bucket) Prefix() string { return b.prefix }

// SpeechKey is {prefix}/speech/YYYY/MM/DD/{id}.{ext}, dated in UTC.
func (b *Bucket) SpeechKey(t time.Time, id, contentType string) string {
	y, m, d := t.UTC().Date()
	return joinKey(b.prefix, "speech", fmt.Sprintf("%04d", y), fmt.Sprintf("%02d", int(m)), fmt.Sprintf("%02d", d),
		id+"."+ExtensionFor(contentType))
}

// VoiceKey is {prefix}/voices/{speakerID}/sample.wav.
func (b *Bucket) VoiceKey(speakerID string) string {
	return joinKey(b.prefix, "voices", sanitizeSegment(speakerID), "sample.wav")
}

// Check verifies the bucket is reachable with the configured credentials.
func (b *Bucket) Check(ctx context.Context) error {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(b.bucket)})
	if err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("bucket %q does not exist: %w", b.bucket, err)
		}
		return fmt.Errorf("head bucket %q: %w", b.bucket, err)
	}
	return nil
}

// UploadBytes uploads in-memory data to the given key.
func (b *Bucket) UploadBytes(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	_, err := b.client.PutObject(ctx, input)
	return err
}

// DownloadBytes downloads an object into memory.
func (b *Bucket) DownloadBytes(ctx context.Context, key string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close() //nolint:errcheck
	return io.ReadAll(out.Body)
}

// ExtensionFor maps an audio content type to a file extension; unknown types get "bin".
func ExtensionFor(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "audio/wav", "audio/wave", "audio/x-wav", "audio/vnd.wave":
		return "wav"
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	case "audio/ogg", "audio/opus":
		return "ogg"
	case "audio/flac", "audio/x-flac":
		return "flac"
	case "audio/webm":
		return "webm"
	default:
		return "bin"
	}
}

// IsNotFound returns true when the error indicates the object or bucket does not exist.
func IsNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound" || code == "NoSuchBucket"
	}
	return false
}

func normalizePrefix(prefix string) string {
	return strings.Trim(prefix, "/")
}

// sanitizeSegment keeps a caller-supplied id from introducing extra path segments.
func sanitizeSegment(s string) string {
	s = strings.NewReplacer("/", "_", `\`, "_").Replace(s)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

func joinKey(prefix string, parts ...string) string {
	all := []string{}
	if prefix != "" {
		all = append(all, prefix)
	}
	all = append(all, parts...)
	return strings.TrimPrefix(path.Join(all...), "/")
}
