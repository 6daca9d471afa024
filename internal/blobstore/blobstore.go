// Package blobstore はS3互換オブジェクトストレージへの動画アップロードを提供する。
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Config はブロブストア接続の設定を保持する。
type Config struct {
	Endpoint      string // S3互換エンドポイント。空の場合はAWSのリージョン既定を使う
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string // 公開URLの明示指定。空の場合はエンドポイントから導出する
}

// Client はブロブストアのクライアント。
// 初期化後は読み取り専用で、複数リクエストから並行に使用して安全。
type Client struct {
	s3     *s3.Client
	config Config
}

// New はブロブストアクライアントを生成する。
// 明示的なエンドポイントが指定された場合はそれを使用し（MinIO等）、
// 指定がない場合はリージョンからAWSの既定エンドポイントが導出される。
// 生成時点では到達性の検証は行わない。
func New(ctx context.Context, cfg Config) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load blob store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{s3: client, config: cfg}, nil
}

// EnsureBucket はバケットを冪等に作成する。既に存在する場合は成功扱い。
func (c *Client) EnsureBucket(ctx context.Context) error {
	_, err := c.s3.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(c.config.Bucket),
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return fmt.Errorf("failed to ensure bucket %q: %w", c.config.Bucket, err)
	}
	return nil
}

// Upload はバイトストリームを指定キーでアップロードし、公開URLを返す。
// 同一キーの既存ブロブは上書きされる。衝突しにくいキーの生成は呼び出し側の責務。
func (c *Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.config.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload blob %q: %w", key, err)
	}

	return c.PublicURL(key), nil
}

// PublicURL はブロブの永続的な公開URLを返す。
// PublicBaseURLが設定されていればそれを、次に明示エンドポイントを優先し、
// いずれもなければAWSの仮想ホスト形式URLを組み立てる。
func (c *Client) PublicURL(key string) string {
	if c.config.PublicBaseURL != "" {
		return strings.TrimRight(c.config.PublicBaseURL, "/") + "/" + key
	}
	if c.config.Endpoint != "" {
		return strings.TrimRight(c.config.Endpoint, "/") + "/" + c.config.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.config.Bucket, c.config.Region, key)
}
