// Package storage wraps the S3-compatible object store used for
// character and map images. Public URLs follow the
// /storage/v1/object/public/{bucket}/{objectPath} layout.
package storage

//go:generate mockgen -destination=mock/mock_storage.go -package=storagemock github.com/tavernkeep/campaign-api/internal/storage ObjectAPI

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tavernkeep/campaign-api/internal/errors"
)

const publicPathPrefix = "/storage/v1/object/public/"

// ObjectAPI is the subset of the S3 client the storage layer uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// Config contains configuration for the storage client.
type Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	// PublicHost is prepended to public object URLs, e.g. "https://cdn.example.com".
	PublicHost string

	// API overrides the constructed S3 client, for tests.
	API ObjectAPI
}

// Validate validates the Config.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Bucket == "" {
		return errors.InvalidArgument("bucket cannot be empty")
	}
	return nil
}

// Client uploads, removes, and addresses public objects.
type Client struct {
	api        ObjectAPI
	bucket     string
	publicHost string
}

// New creates a storage client. When cfg.API is nil the S3 client is
// built from the configured region, credentials, and endpoint.
func New(ctx context.Context, cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	api := cfg.API
	if api == nil {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey, cfg.SecretKey, "")))
		if err != nil {
			return nil, errors.Wrap(err, "failed to load storage credentials")
		}

		api = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.BaseEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			}
			o.UsePathStyle = true
		})
	}

	return &Client{
		api:        api,
		bucket:     cfg.Bucket,
		publicHost: strings.TrimRight(cfg.PublicHost, "/"),
	}, nil
}

// Upload stores an object under key and returns its public URL.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if key == "" {
		return "", errors.InvalidArgument("object key cannot be empty")
	}

	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload object %s", key)
	}

	return c.PublicURL(key), nil
}

// RemovePrefix deletes every object under the given key prefix. A
// prefix with no objects is not an error.
func (c *Client) RemovePrefix(ctx context.Context, prefix string) error {
	if prefix == "" {
		return errors.InvalidArgument("object prefix cannot be empty")
	}

	var continuation *string
	for {
		page, err := c.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(c.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to list objects under %s", prefix)
		}

		if len(page.Contents) > 0 {
			objects := make([]types.ObjectIdentifier, 0, len(page.Contents))
			for _, obj := range page.Contents {
				objects = append(objects, types.ObjectIdentifier{Key: obj.Key})
			}
			_, err = c.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(c.bucket),
				Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
			})
			if err != nil {
				return errors.Wrapf(err, "failed to delete objects under %s", prefix)
			}
		}

		if page.IsTruncated == nil || !*page.IsTruncated {
			return nil
		}
		continuation = page.NextContinuationToken
	}
}

// PublicURL returns the public URL for an object key.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s%s%s/%s", c.publicHost, publicPathPrefix, c.bucket, key)
}

// ParsePublicURL extracts the object key from a public URL produced by
// PublicURL. Returns ok=false for URLs outside this client's bucket.
func (c *Client) ParsePublicURL(url string) (string, bool) {
	idx := strings.Index(url, publicPathPrefix)
	if idx < 0 {
		return "", false
	}

	rest := url[idx+len(publicPathPrefix):]
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket != c.bucket || key == "" {
		return "", false
	}
	return key, true
}

// CharacterImagePrefix is the object prefix holding a character's images.
func CharacterImagePrefix(characterID string) string {
	return fmt.Sprintf("characters/%s/", characterID)
}

// MapImagePrefix is the object prefix holding a campaign map's images.
func MapImagePrefix(campaignID, mapID string) string {
	return fmt.Sprintf("campaigns/%s/maps/%s/", campaignID, mapID)
}
