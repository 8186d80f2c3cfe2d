package media

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/portfolio/internal/telemetry/tracing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var _ Uploader = (*S3Uploader)(nil)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Params struct {
	Bucket string
	Region string
	// Endpoint is set for S3 compatible hosts (R2, MinIO, ...), empty for AWS.
	Endpoint        string
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL, when set, is used to build the returned URLs (CDN in front of the bucket).
	PublicBaseURL string
}

type S3Uploader struct {
	client putObjectAPI
	params S3Params
}

func NewS3Uploader(params S3Params) *S3Uploader {
	client := s3.New(s3.Options{
		Region:       params.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(params.AccessKeyID, params.SecretAccessKey, ""),
		UsePathStyle: params.UsePathStyle,
		HTTPClient: &http.Client{
			Timeout:   time.Minute,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, func(o *s3.Options) {
		if params.Endpoint != "" {
			o.BaseEndpoint = aws.String(params.Endpoint)
		}
	})

	return newS3Uploader(client, params)
}

func newS3Uploader(client putObjectAPI, params S3Params) *S3Uploader {
	return &S3Uploader{
		client: client,
		params: params,
	}
}

func (u *S3Uploader) Upload(ctx context.Context, obj Object) (string, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "media.s3.upload")
	defer span.End()
	span.SetAttributes(
		attribute.String("media.bucket", u.params.Bucket),
		attribute.String("media.key", obj.Key),
	)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.params.Bucket),
		Key:           aws.String(obj.Key),
		Body:          obj.Body,
		ContentLength: aws.Int64(obj.Size),
		ContentType:   aws.String(obj.ContentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
		Metadata: map[string]string{
			"upload-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		span.SetStatus(codes.Error, "put-object")
		span.RecordError(err)
		return "", fmt.Errorf("%w: s3 put object %s: %w", ErrUpstream, obj.Key, err)
	}

	log.Debugf("media object [%s] uploaded to bucket [%s]", obj.Key, u.params.Bucket)
	span.SetStatus(codes.Ok, "ok")
	return u.objectURL(obj.Key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	switch {
	case u.params.PublicBaseURL != "":
		return publicURL(u.params.PublicBaseURL, key)
	case u.params.Endpoint != "" && u.params.UsePathStyle:
		return publicURL(u.params.Endpoint, u.params.Bucket+"/"+key)
	case u.params.Endpoint != "":
		return publicURL(u.params.Endpoint, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.params.Bucket, u.params.Region, key)
	}
}
