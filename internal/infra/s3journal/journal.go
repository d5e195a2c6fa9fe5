package s3journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// PutObjectAPI é o pedaço do cliente S3 usado pelo Journal.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Journal grava um objeto JSON por evento órfão para o operador conciliar a
// agenda com o banco.
type Journal struct {
	bucket string
	client PutObjectAPI
	log    logrus.FieldLogger
}

func New(client PutObjectAPI, bucket string, log logrus.FieldLogger) *Journal {
	return &Journal{bucket: bucket, client: client, log: log}
}

// NewS3Client monta o cliente a partir de chaves estáticas.
func NewS3Client(region, accessKeyID, secretAccessKey string) *s3.Client {
	return s3.New(s3.Options{
		Region: region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		),
	})
}

func (j *Journal) Enabled() bool {
	return j != nil && j.bucket != "" && j.client != nil
}

func (j *Journal) RecordOrphan(ctx context.Context, o domain.Orphan) error {
	if !j.Enabled() {
		return nil
	}

	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("s3journal: marshal orphan: %w", err)
	}

	at := o.OccurredAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	key := Key(at, o.EventID)

	if _, err := j.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(j.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return fmt.Errorf("s3journal: put %s: %w", key, err)
	}

	if j.log != nil {
		j.log.WithFields(logrus.Fields{
			"event_id":       o.EventID,
			"appointment_id": o.AppointmentID,
			"s3_key":         key,
		}).Warn("orphaned calendar event journaled")
	}
	return nil
}

// Key organiza os órfãos por dia UTC.
func Key(at time.Time, eventID string) string {
	at = at.UTC()
	return fmt.Sprintf("orphans/v1/%d/%02d/%02d/%s.json",
		at.Year(), at.Month(), at.Day(), eventID)
}

// checagem em tempo de compilação
var _ domain.OrphanRecorder = (*Journal)(nil)
