package ner

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"
	"go.uber.org/zap"

	"github.com/nidaan-ai/nidaan/internal/logger"
	"github.com/nidaan-ai/nidaan/internal/privacy"
)

// comprehendAPI is the subset of the Comprehend client used here,
// narrowed so tests can stub the service.
type comprehendAPI interface {
	DetectPiiEntities(ctx context.Context, params *comprehend.DetectPiiEntitiesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectPiiEntitiesOutput, error)
}

// ComprehendDetector detects PII via the AWS Comprehend DetectPiiEntities API.
type ComprehendDetector struct {
	client comprehendAPI
	logger *logger.Logger
}

// NewComprehendDetector creates a detector backed by the managed
// Comprehend service in the given region.
func NewComprehendDetector(region string, log *logger.Logger) (*ComprehendDetector, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.WithComponent("ner").Info("Comprehend detector initialized",
		zap.String("region", region))

	return &ComprehendDetector{
		client: comprehend.NewFromConfig(awsCfg),
		logger: log.WithComponent("ner"),
	}, nil
}

// Detect returns PII entities found by Comprehend, mapped to the
// engine's entity type names. Comprehend only accepts a handful of
// language codes; anything it does not support falls back to English.
func (d *ComprehendDetector) Detect(ctx context.Context, text, language string) ([]privacy.Entity, error) {
	lang := types.LanguageCode(normalizeLanguage(language))

	out, err := d.client.DetectPiiEntities(ctx, &comprehend.DetectPiiEntitiesInput{
		Text:         aws.String(text),
		LanguageCode: lang,
	})
	if err != nil {
		return nil, fmt.Errorf("comprehend detect failed: %w", err)
	}

	entities := make([]privacy.Entity, 0, len(out.Entities))
	for _, e := range out.Entities {
		if e.BeginOffset == nil || e.EndOffset == nil {
			continue
		}
		start, end := int(aws.ToInt32(e.BeginOffset)), int(aws.ToInt32(e.EndOffset))
		if start < 0 || end > len(text) || start >= end {
			continue
		}
		score := float64(aws.ToFloat32(e.Score))
		entities = append(entities, privacy.Entity{
			Type:   mapComprehendType(string(e.Type)),
			Text:   text[start:end],
			Start:  start,
			End:    end,
			Score:  score,
			Source: privacy.SourceComprehend,
		})
	}
	return entities, nil
}

func normalizeLanguage(language string) string {
	switch strings.ToLower(language) {
	case "en", "es", "fr", "de", "it", "pt":
		return strings.ToLower(language)
	default:
		return "en"
	}
}

// mapComprehendType translates Comprehend entity types into the names
// the rest of the engine uses.
func mapComprehendType(t string) string {
	switch t {
	case "PASSPORT_NUMBER":
		return "PASSPORT"
	case "DRIVER_ID":
		return "DRIVING_LICENCE"
	case "BANK_ACCOUNT_NUMBER", "BANK_ROUTING":
		return "BANK_ACCOUNT_NUMBER"
	case "CREDIT_DEBIT_NUMBER", "CREDIT_DEBIT_CVV", "CREDIT_DEBIT_EXPIRY":
		return "CREDIT_DEBIT_NUMBER"
	case "PHONE":
		return "PHONE"
	case "EMAIL":
		return "EMAIL"
	case "NAME":
		return "NAME"
	case "ADDRESS":
		return "ADDRESS"
	case "DATE_TIME":
		return "DATE"
	case "AGE":
		return "AGE"
	case "URL":
		return "URL"
	case "IP_ADDRESS":
		return "IP_ADDRESS"
	case "USERNAME", "PASSWORD", "PIN":
		return "CREDENTIAL"
	case "SSN", "NATIONAL_ID", "INTERNATIONAL_BANK_ACCOUNT_NUMBER":
		return "NATIONAL_ID"
	default:
		return t
	}
}
