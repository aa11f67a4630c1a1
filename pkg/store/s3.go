package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"golang.org/x/sync/errgroup"
)

// S3Client is the subset of *s3.Client used by the S3 store.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config describes the bucket holding page blobs.
type S3Config struct {
	Bucket         string `env:"S3_BUCKET,required"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// NewS3Client builds an S3 client from cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
// Endpoint and ForcePathStyle support S3-compatible services such as MinIO.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", ErrBackend)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Join(ErrBackend, err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}), nil
}

// s3FetchLimit bounds concurrent GetObject calls in GetMany.
const s3FetchLimit = 8

// S3 stores each blob as the object "<prefix><id>.css.gz".
type S3 struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3 wraps a client, typically *s3.Client.
func NewS3(client S3Client, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3) key(pageID int64) string {
	return s.prefix + strconv.FormatInt(pageID, 10) + ".css.gz"
}

func (s *S3) Put(ctx context.Context, pageID int64, blob []byte) error {
	if err := validatePut(pageID, blob); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(pageID)),
		Body:          bytes.NewReader(blob),
		ContentLength: aws.Int64(int64(len(blob))),
		ContentType:   aws.String("application/gzip"),
	})
	if err != nil {
		return classifyS3Error(err)
	}
	return nil
}

func (s *S3) Get(ctx context.Context, pageID int64) ([]byte, error) {
	if err := validateID(pageID); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(pageID)),
	})
	if err != nil {
		return nil, classifyS3Error(err)
	}
	defer func() { _ = out.Body.Close() }()

	blob, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Join(ErrBackend, err)
	}
	return blob, nil
}

// GetMany fetches objects concurrently. A missing object is skipped; any
// other failure aborts the whole call.
func (s *S3) GetMany(ctx context.Context, pageIDs []int64) (map[int64][]byte, error) {
	ids := normalizeIDs(pageIDs)
	blobs := make([][]byte, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s3FetchLimit)
	for i, id := range ids {
		g.Go(func() error {
			blob, err := s.Get(gctx, id)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			blobs[i] = blob
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int64][]byte, len(ids))
	for i, id := range ids {
		if blobs[i] != nil {
			out[id] = blobs[i]
		}
	}
	return out, nil
}

func (s *S3) Delete(ctx context.Context, pageID int64) error {
	if err := validateID(pageID); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(pageID)),
	})
	if err != nil && !errors.Is(classifyS3Error(err), ErrNotFound) {
		return classifyS3Error(err)
	}
	return nil
}

// classifyS3Error maps missing objects to ErrNotFound and wraps everything
// else in ErrBackend.
func classifyS3Error(err error) error {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return ErrNotFound
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return ErrNotFound
		}
		return errors.Join(ErrBackend, fmt.Errorf("s3 %s: %w", apiErr.ErrorCode(), err))
	}
	return errors.Join(ErrBackend, err)
}
