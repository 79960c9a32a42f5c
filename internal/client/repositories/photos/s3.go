package photos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
)

const createdAtMeta = "created-at"

// S3Options configures the bucket backend. BaseEndpoint points at MinIO or
// any other S3-compatible service; empty means AWS.
type S3Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
	URLExpiry    time.Duration
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

type S3Repository struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
}

func NewS3Repository(ctx context.Context, o S3Options) (*S3Repository, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
		config.WithRequestChecksumCalculation(aws.RequestChecksumCalculationWhenRequired),
		config.WithResponseChecksumValidation(aws.ResponseChecksumValidationWhenRequired),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	})

	expiry := o.URLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &S3Repository{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  o.Bucket,
		expiry:  expiry,
	}, nil
}

func (r *S3Repository) Put(ctx context.Context, b models.PhotoBlob) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(b.ID),
		Body:          bytes.NewReader(b.Data),
		ContentLength: aws.Int64(int64(len(b.Data))),
		ContentType:   aws.String("image/jpeg"),
		Metadata:      map[string]string{createdAtMeta: strconv.FormatInt(b.CreatedAt, 10)},
	})
	if err != nil {
		return fmt.Errorf("failed to put photo[%s]: %w", b.ID, err)
	}
	return nil
}

func (r *S3Repository) Get(ctx context.Context, id string) (*models.PhotoBlob, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(id),
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo[%s]: %w", id, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo[%s]: %w", id, err)
	}

	createdAt, _ := strconv.ParseInt(out.Metadata[createdAtMeta], 10, 64)
	return &models.PhotoBlob{ID: id, Data: data, CreatedAt: createdAt}, nil
}

func (r *S3Repository) GetMany(ctx context.Context, ids []string) ([]models.PhotoBlob, error) {
	found := make(map[string]models.PhotoBlob, len(ids))
	for _, id := range ids {
		if _, ok := found[id]; ok {
			continue
		}
		b, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if b != nil {
			found[id] = *b
		}
	}
	return orderByKeys(ids, found), nil
}

// ObjectURL returns a presigned GET URL. Releasing it is a no-op; the URL
// simply expires.
func (r *S3Repository) ObjectURL(ctx context.Context, id string) (models.ObjectRef, error) {
	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(id),
	})
	if isNotFound(err) {
		return models.ObjectRef{}, fmt.Errorf("photo %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.ObjectRef{}, fmt.Errorf("failed to head photo[%s]: %w", id, err)
	}

	req, err := r.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(id),
	}, s3.WithPresignExpires(r.expiry))
	if err != nil {
		return models.ObjectRef{}, fmt.Errorf("presign photo[%s]: %w", id, err)
	}
	return models.NewObjectRef(req.URL, nil), nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
