package blob

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of *s3.Client the S3 transport needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Transport writes the bytes straight into a bucket under the key the
// backend assigned.
type S3Transport struct {
	client PutObjectAPI
	bucket string
}

func NewS3Transport(client PutObjectAPI, bucket string) *S3Transport {
	return &S3Transport{client: client, bucket: bucket}
}

func (t *S3Transport) Put(ctx context.Context, dst Destination, ref *Ref) error {
	if dst.Key == "" {
		return fmt.Errorf("s3 upload: empty key")
	}
	_, err := t.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(t.bucket),
		Key:           aws.String(dst.Key),
		Body:          ref.Reader(),
		ContentLength: aws.Int64(ref.Size()),
		ContentType:   aws.String(contentType(dst)),
	})
	if err != nil {
		return fmt.Errorf("s3 upload: %w", err)
	}
	return nil
}
