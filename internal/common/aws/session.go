// internal/common/aws/session.go
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Session resolves AWS credentials once and hands out service clients.
type Session struct {
	cfg awssdk.Config
}

func NewSession(ctx context.Context, region string) (*Session, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Session{cfg: cfg}, nil
}

func (s *Session) Region() string {
	return s.cfg.Region
}

func (s *Session) SES() *ses.Client {
	return ses.NewFromConfig(s.cfg)
}

func (s *Session) SNS() *sns.Client {
	return sns.NewFromConfig(s.cfg)
}
