package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/prodtracker/internal/metrics"
	sc "github.com/dmitrijs2005/prodtracker/internal/server/config"
	"github.com/dmitrijs2005/prodtracker/internal/timex"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Report is the exported document.
type Report struct {
	OwnerID     string          `json:"owner_id"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	GeneratedAt time.Time       `json:"generated_at"`
	Streaks     metrics.Streaks `json:"streaks"`
	Days        []DayStats      `json:"days"`
	TotalScore  float64         `json:"total_score"`
}

// ExportResult locates an uploaded report.
type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReportService renders reports and publishes them to object storage.
type ReportService struct {
	stats  *StatsService
	config *sc.Config
	now    func() time.Time
}

func NewReportService(stats *StatsService, config *sc.Config) *ReportService {
	return &ReportService{stats: stats, config: config, now: time.Now}
}

func reportKey(ownerID string, from, to time.Time) string {
	return fmt.Sprintf("reports/%s/%s_%s_%v.json", ownerID, timex.FormatDate(from), timex.FormatDate(to), uuid.New())
}

func (s *ReportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Build renders the report of [from, to] without uploading it.
func (s *ReportService) Build(ctx context.Context, ownerID string, from, to time.Time) (*Report, error) {
	days, err := s.stats.DailyScores(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	streaks, err := s.stats.Streaks(ctx, ownerID, to)
	if err != nil {
		return nil, err
	}

	r := &Report{
		OwnerID:     ownerID,
		From:        timex.FormatDate(from),
		To:          timex.FormatDate(to),
		GeneratedAt: s.now().UTC(),
		Streaks:     streaks,
		Days:        days,
	}
	for _, d := range days {
		r.TotalScore += d.Score
	}
	return r, nil
}

// Export uploads the report of [from, to] and returns a presigned GET URL
// valid for ReportURLValidity.
func (s *ReportService) Export(ctx context.Context, ownerID string, from, to time.Time) (*ExportResult, error) {
	report, err := s.Build(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := reportKey(ownerID, from, to)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}

	validity := s.config.ReportURLValidity
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(validity))
	if err != nil {
		return nil, fmt.Errorf("presign report: %w", err)
	}

	return &ExportResult{Key: key, URL: req.URL, ExpiresAt: s.now().Add(validity)}, nil
}
